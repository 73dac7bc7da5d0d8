package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// Run executes every configured step over one load of the dataset, in a
// fixed order: clean, replace, translate. The dataset is saved once after
// all steps succeed, so a failing step leaves the file untouched.
func (o *operator) Run(ctx context.Context) error {
	cfg := o.config
	if cfg.Cleaning == nil && cfg.Replace == nil && cfg.Translate == nil {
		return errors.Errorf("config has no steps to run")
	}

	ds, err := o.loadDataset(ctx)
	if err != nil {
		return err
	}

	if cfg.Cleaning != nil {
		if _, err := o.cleanDataset(ctx, ds); err != nil {
			return err
		}
	}
	if cfg.Replace != nil {
		if _, err := o.replaceDataset(ctx, ds); err != nil {
			return err
		}
	}
	if cfg.Translate != nil {
		if _, err := o.translateDataset(ctx, ds); err != nil {
			return err
		}
	}

	return o.saveDataset(ctx, ds)
}
