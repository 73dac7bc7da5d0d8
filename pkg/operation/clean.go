package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/cleaning"
	"github.com/fieldworks/attrclean/pkg/log"
	"github.com/fieldworks/attrclean/pkg/table"
)

// Clean drops null columns per the cleaning section of the config and saves
// the dataset.
func (o *operator) Clean(ctx context.Context) error {
	if o.config.Cleaning == nil {
		return errors.Errorf("no cleaning section in config")
	}

	ds, err := o.loadDataset(ctx)
	if err != nil {
		return err
	}

	if _, err := o.cleanDataset(ctx, ds); err != nil {
		return err
	}

	return o.saveDataset(ctx, ds)
}

// cleanDataset applies the configured pruning to an already-loaded dataset
// and returns the names of the dropped fields.
func (o *operator) cleanDataset(ctx context.Context, ds *table.Table) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	cc := o.config.Cleaning

	opts := cleaning.Options{
		NullValue:  cc.NullValue,
		FieldGlobs: cc.Fields,
	}

	var dropped []string
	if cc.RemoveEmpty {
		names, err := cleaning.RemoveEmptyColumns(ctx, ds, opts)
		if err != nil {
			return nil, errors.Errorf("removing empty columns: %w", err)
		}
		dropped = append(dropped, names...)
	}
	if cc.Threshold != nil {
		names, err := cleaning.PruneByNullPercentage(ctx, ds, *cc.Threshold, opts)
		if err != nil {
			return nil, errors.Errorf("pruning by null percentage: %w", err)
		}
		dropped = append(dropped, names...)
	}

	for _, name := range dropped {
		o.console.LogFieldOperation(ctx, log.FieldOperation{
			Field:     name,
			Action:    "dropped",
			IsDropped: true,
		})
	}

	logger.Info().Int("dropped", len(dropped)).Msg("cleaning complete")
	if len(dropped) == 0 {
		o.console.Info("no columns dropped")
	}
	return dropped, nil
}

// Fields reports the null profile of the dataset without modifying it.
func (o *operator) Fields(ctx context.Context) ([]cleaning.FieldProfile, error) {
	ds, err := o.loadDataset(ctx)
	if err != nil {
		return nil, err
	}

	opts := cleaning.Options{}
	if o.config.Cleaning != nil {
		opts.NullValue = o.config.Cleaning.NullValue
		opts.FieldGlobs = o.config.Cleaning.Fields
	}

	profiles, err := cleaning.Profile(ctx, ds, opts)
	if err != nil {
		return nil, errors.Errorf("profiling dataset: %w", err)
	}
	o.console.EndTableOperation(ctx)
	return profiles, nil
}
