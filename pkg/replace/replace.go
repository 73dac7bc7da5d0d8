// Package replace wires the match engine to datasets: it collects reference
// pairs, validates the configuration up front, and rewrites one source field
// according to the configured unmatched policy.
package replace

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/match"
	"github.com/fieldworks/attrclean/pkg/table"
)

// UnmatchedPolicy decides what an unmatched source value becomes. The match
// engine only reports Matched/Unmatched; the policy lives here.
type UnmatchedPolicy int

const (
	// UnmatchedKeep leaves the original value in place (the default).
	UnmatchedKeep UnmatchedPolicy = iota
	// UnmatchedBlank writes an empty cell for unmatched values.
	UnmatchedBlank
)

// Options configures one find-and-replace run.
type Options struct {
	// SourceField is the field being rewritten.
	SourceField string
	// FindField and ReplaceField name the reference dataset's key and value
	// columns.
	FindField    string
	ReplaceField string

	// Match controls normalization; see match.Options.
	Match match.Options

	// Unmatched selects the policy for values with no reference match.
	Unmatched UnmatchedPolicy

	// CreateNewColumn writes outcomes to a fresh column instead of
	// overwriting SourceField. NewColumnName defaults to "<SourceField>_new"
	// and must not already exist.
	CreateNewColumn bool
	NewColumnName   string
}

// Result summarizes one run.
type Result struct {
	Replaced    int
	Unmatched   int
	OutputField string
}

// CollectPairs reads (find, replace) tuples from the reference dataset in
// row order. Missing fields fail here, before any source row is touched.
func CollectPairs(ctx context.Context, ref table.Dataset, findField, replaceField string) ([]match.Pair, error) {
	for _, field := range []string{findField, replaceField} {
		if field == "" {
			return nil, errors.Errorf("find and replace fields are required")
		}
		if !ref.HasField(field) {
			return nil, errors.Errorf("field %q not found in reference dataset %s", field, ref.Name())
		}
	}

	finds, err := ref.Column(findField)
	if err != nil {
		return nil, err
	}
	replaces, err := ref.Column(replaceField)
	if err != nil {
		return nil, err
	}

	pairs := make([]match.Pair, len(finds))
	for i := range finds {
		pairs[i] = match.Pair{Find: finds[i], Replace: replaces[i]}
	}

	zerolog.Ctx(ctx).Debug().
		Str("reference", ref.Name()).
		Int("pairs", len(pairs)).
		Msg("collected reference pairs")
	return pairs, nil
}

// Apply runs find-and-replace on ds using ref as the lookup source. All
// configuration errors (missing fields, bad pattern, existing output column)
// surface before the first row is processed.
func Apply(ctx context.Context, ds table.Dataset, ref table.Dataset, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if opts.SourceField == "" {
		return nil, errors.Errorf("source field is required")
	}
	if !ds.HasField(opts.SourceField) {
		return nil, errors.Errorf("field %q not found in dataset %s", opts.SourceField, ds.Name())
	}

	pairs, err := CollectPairs(ctx, ref, opts.FindField, opts.ReplaceField)
	if err != nil {
		return nil, err
	}

	lookup, err := match.BuildLookup(pairs, opts.Match)
	if err != nil {
		return nil, errors.Errorf("building lookup: %w", err)
	}

	output := opts.SourceField
	if opts.CreateNewColumn {
		output = opts.NewColumnName
		if output == "" {
			output = opts.SourceField + "_new"
		}
		if err := ds.AddField(output); err != nil {
			return nil, errors.Errorf("creating output column: %w", err)
		}
	}

	values, err := ds.Column(opts.SourceField)
	if err != nil {
		return nil, err
	}

	result := &Result{OutputField: output}
	row := 0
	for outcome := range lookup.ApplyBatch(values) {
		value := outcome.Source
		if outcome.Matched {
			value = outcome.Replacement
			result.Replaced++
		} else {
			result.Unmatched++
			if opts.Unmatched == UnmatchedBlank {
				value = ""
			}
		}
		if err := ds.SetCell(row, output, value); err != nil {
			return nil, errors.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	logger.Info().
		Str("dataset", ds.Name()).
		Str("field", opts.SourceField).
		Str("output", output).
		Int("replaced", result.Replaced).
		Int("unmatched", result.Unmatched).
		Msg("find-and-replace complete")
	return result, nil
}
