// Package cleaning profiles null values across attribute fields and prunes
// columns that are empty or exceed a null-percentage threshold.
package cleaning

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/table"
)

// Options selects which fields are examined and what counts as null.
type Options struct {
	// NullValue, when set, is the marker treated as null after trimming
	// (e.g. "N/A"). When empty, a cell is null if it is empty after
	// trimming.
	NullValue string

	// FieldGlobs restricts the scan to fields matching any of these
	// doublestar globs. Empty means all fields.
	FieldGlobs []string
}

// FieldProfile is the null census of a single field.
type FieldProfile struct {
	Field     string
	NullCount int
	TotalRows int
}

// NullPercent returns the share of null cells, 0 for an empty table.
func (p FieldProfile) NullPercent() float64 {
	if p.TotalRows == 0 {
		return 0
	}
	return float64(p.NullCount) / float64(p.TotalRows) * 100
}

// Profile counts null cells for every selected field.
func Profile(ctx context.Context, ds table.Dataset, opts Options) ([]FieldProfile, error) {
	fields, err := selectFields(ctx, ds, opts.FieldGlobs)
	if err != nil {
		return nil, err
	}

	total := ds.NumRows()
	profiles := make([]FieldProfile, 0, len(fields))
	for _, field := range fields {
		col, err := ds.Column(field)
		if err != nil {
			return nil, err
		}
		nulls := lo.CountBy(col, func(v string) bool {
			return isNull(v, opts.NullValue)
		})
		profiles = append(profiles, FieldProfile{
			Field:     field,
			NullCount: nulls,
			TotalRows: total,
		})
	}
	return profiles, nil
}

// RemoveEmptyColumns drops every selected column whose cells are all null.
// It returns the removed field names.
func RemoveEmptyColumns(ctx context.Context, ds table.Dataset, opts Options) ([]string, error) {
	return prune(ctx, ds, opts, func(p FieldProfile) bool {
		return p.TotalRows > 0 && p.NullCount == p.TotalRows
	})
}

// PruneByNullPercentage drops every selected column whose null percentage
// strictly exceeds threshold (0-100). It returns the removed field names.
func PruneByNullPercentage(ctx context.Context, ds table.Dataset, threshold float64, opts Options) ([]string, error) {
	if threshold < 0 || threshold > 100 {
		return nil, errors.Errorf("threshold must be between 0 and 100, got %v", threshold)
	}
	return prune(ctx, ds, opts, func(p FieldProfile) bool {
		return p.TotalRows > 0 && p.NullPercent() > threshold
	})
}

func prune(ctx context.Context, ds table.Dataset, opts Options, drop func(FieldProfile) bool) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	profiles, err := Profile(ctx, ds, opts)
	if err != nil {
		return nil, err
	}

	doomed := lo.FilterMap(profiles, func(p FieldProfile, _ int) (string, bool) {
		return p.Field, drop(p)
	})
	if len(doomed) == 0 {
		logger.Debug().Str("dataset", ds.Name()).Msg("no columns to remove")
		return nil, nil
	}

	if err := ds.DeleteFields(doomed); err != nil {
		return nil, errors.Errorf("removing columns: %w", err)
	}

	logger.Info().
		Str("dataset", ds.Name()).
		Strs("fields", doomed).
		Msg("removed columns")
	return doomed, nil
}

// selectFields filters the dataset's fields by globs, preserving column
// order. Every glob must be valid and every literal (non-wildcard) glob must
// match something, so typos surface before any column is dropped.
func selectFields(ctx context.Context, ds table.Dataset, globs []string) ([]string, error) {
	all := ds.Fields()
	if len(globs) == 0 {
		return all, nil
	}

	var selected []string
	matchedAny := make([]bool, len(globs))
	for _, field := range all {
		for i, glob := range globs {
			matched, err := doublestar.Match(glob, field)
			if err != nil {
				return nil, errors.Errorf("invalid field glob %q: %w", glob, err)
			}
			if matched {
				matchedAny[i] = true
				selected = append(selected, field)
				break
			}
		}
	}

	for i, glob := range globs {
		if !matchedAny[i] && !strings.ContainsAny(glob, "*?[{") {
			return nil, errors.Errorf("field %q not found in %s", glob, ds.Name())
		}
	}
	return selected, nil
}

func isNull(value, marker string) bool {
	trimmed := strings.TrimSpace(value)
	if marker != "" {
		return trimmed == marker
	}
	return trimmed == ""
}
