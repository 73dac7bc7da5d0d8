package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/log"
	"github.com/fieldworks/attrclean/pkg/replace"
	"github.com/fieldworks/attrclean/pkg/table"
)

// Replace runs the configured find-and-replace against the reference dataset
// and saves the result.
func (o *operator) Replace(ctx context.Context) error {
	if o.config.Replace == nil {
		return errors.Errorf("no replace section in config")
	}

	ds, err := o.loadDataset(ctx)
	if err != nil {
		return err
	}

	if _, err := o.replaceDataset(ctx, ds); err != nil {
		return err
	}

	return o.saveDataset(ctx, ds)
}

// replaceDataset applies the configured replacement to an already-loaded
// dataset.
func (o *operator) replaceDataset(ctx context.Context, ds *table.Table) (*replace.Result, error) {
	logger := zerolog.Ctx(ctx)
	rc := o.config.Replace

	ref, err := table.Load(ctx, o.config.Reference)
	if err != nil {
		return nil, errors.Errorf("loading reference dataset: %w", err)
	}
	logger.Debug().
		Str("reference", o.config.Reference).
		Int("rows", ref.NumRows()).
		Msg("reference dataset loaded")

	result, err := replace.Apply(ctx, ds, ref, rc.Options())
	if err != nil {
		return nil, errors.Errorf("applying replacements: %w", err)
	}

	o.console.LogFieldOperation(ctx, log.FieldOperation{
		Field:   result.OutputField,
		Action:  "replaced",
		Changed: result.Replaced,
		Total:   result.Replaced + result.Unmatched,
		IsNew:   rc.CreateNewColumn,
	})
	return result, nil
}
