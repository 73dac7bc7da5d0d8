package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFormatter tests the default formatter implementation
func TestDefaultFormatter(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		action      string
		changed     int
		isDropped   bool
		isNew       bool
		want        string
		description string
	}{
		{
			name:        "dropped_field",
			field:       "notes",
			action:      "dropped",
			isDropped:   true,
			want:        "🗑️  Dropped notes",
			description: "should show removal symbol for dropped fields",
		},
		{
			name:        "new_field",
			field:       "name_en",
			action:      "created",
			isNew:       true,
			want:        "✨ Created name_en",
			description: "should show creation symbol for new fields",
		},
		{
			name:        "changed_field",
			field:       "region",
			action:      "replaced",
			changed:     4,
			want:        "📝 Replaced region (4 cells)",
			description: "should show change symbol with cell count",
		},
		{
			name:        "unchanged_field",
			field:       "id",
			action:      "kept",
			want:        "👍 Unchanged id",
			description: "should show unchanged symbol for untouched fields",
		},
		{
			name:        "dropped_wins_over_new",
			field:       "conflict",
			action:      "dropped",
			isDropped:   true,
			isNew:       true,
			want:        "🗑️  Dropped conflict",
			description: "should handle multiple states with precedence",
		},
	}

	formatter := NewDefaultFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatFieldOperation(tt.field, tt.action, tt.changed, tt.isDropped, tt.isNew)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
		msg      string
	}{
		{
			name:     "zero_progress",
			current:  0,
			total:    10,
			expected: "⏳ Progress: 0/10 (0%)",
			msg:      "should show 0% progress",
		},
		{
			name:     "half_progress",
			current:  5,
			total:    10,
			expected: "⏳ Progress: 5/10 (50%)",
			msg:      "should show 50% progress",
		},
		{
			name:     "complete",
			current:  10,
			total:    10,
			expected: "✅ Progress: 10/10 (100%)",
			msg:      "should show 100% progress",
		},
		{
			name:     "zero_total",
			current:  0,
			total:    0,
			expected: "✅ Progress: 0/0 (0%)",
			msg:      "should handle zero total",
		},
		{
			name:     "zero_total_with_current",
			current:  5,
			total:    0,
			expected: "✅ Progress: 5/0 (100%)",
			msg:      "should handle zero total with positive current",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewDefaultFormatter()
			result := formatter.FormatProgress(tt.current, tt.total)
			assert.Equal(t, tt.expected, result, tt.msg)
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFormatter()

	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil))
}
