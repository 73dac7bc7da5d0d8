// Package report formats run results for console output.
package report

import (
	"fmt"
)

// Formatter defines how field operations and run progress are formatted
type Formatter interface {
	// FormatFieldOperation formats a field operation status message
	FormatFieldOperation(field, action string, changed int, isDropped, isNew bool) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatFieldOperation formats a field operation status message with emojis
func (f *DefaultFormatter) FormatFieldOperation(field, action string, changed int, isDropped, isNew bool) string {
	switch {
	case isDropped:
		return fmt.Sprintf("🗑️  Dropped %s", field)
	case isNew:
		return fmt.Sprintf("✨ Created %s", field)
	case changed > 0:
		return fmt.Sprintf("📝 %s %s (%d cells)", titleAction(action), field, changed)
	default:
		return fmt.Sprintf("👍 Unchanged %s", field)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

func titleAction(action string) string {
	if action == "" {
		return "Changed"
	}
	r := []rune(action)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
