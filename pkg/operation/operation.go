// Package operation wires configured cleaning, replace, and translation
// steps over a loaded dataset.
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/cleaning"
	"github.com/fieldworks/attrclean/pkg/config"
	"github.com/fieldworks/attrclean/pkg/log"
	"github.com/fieldworks/attrclean/pkg/report"
	"github.com/fieldworks/attrclean/pkg/table"
)

// 🎯 Operator defines the main interface for attrclean operations
type Operator interface {
	// Clean profiles null values and prunes columns per the config
	Clean(ctx context.Context) error
	// Replace runs the configured find-and-replace against the reference dataset
	Replace(ctx context.Context) error
	// Translate fills the configured target column through a translation service
	Translate(ctx context.Context) error
	// Fields reports the null profile without modifying the dataset
	Fields(ctx context.Context) ([]cleaning.FieldProfile, error)
	// Run executes every configured step in order and saves once at the end
	Run(ctx context.Context) error
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the attrclean configuration
	Config *config.Config
	// Secrets holds provider credentials from the environment
	Secrets *config.Secrets
	// Console is the console logger
	Console *log.Logger
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Console == nil {
		return nil, errors.Errorf("console logger is required")
	}
	if opts.Config.Translate != nil && opts.Secrets == nil {
		return nil, errors.Errorf("secrets are required for translation runs")
	}
	return &operator{
		config:    opts.Config,
		secrets:   opts.Secrets,
		console:   opts.Console,
		formatter: report.NewDefaultFormatter(),
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	config    *config.Config
	secrets   *config.Secrets
	console   *log.Logger
	formatter report.Formatter
}

// loadDataset loads the configured dataset and announces it on the console.
func (o *operator) loadDataset(ctx context.Context) (*table.Table, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", o.config.Dataset).Msg("loading dataset")

	ds, err := table.Load(ctx, o.config.Dataset)
	if err != nil {
		return nil, errors.Errorf("loading dataset: %w", err)
	}

	o.console.StartTableOperation(ctx, log.TableOperation{
		Name:   ds.Name(),
		Path:   o.config.Dataset,
		Rows:   ds.NumRows(),
		Fields: len(ds.Fields()),
	})
	return ds, nil
}

// saveDataset writes the dataset back to its configured path.
func (o *operator) saveDataset(ctx context.Context, ds *table.Table) error {
	if err := table.Save(ctx, o.config.Dataset, ds); err != nil {
		return errors.Errorf("saving dataset: %w", err)
	}
	o.console.EndTableOperation(ctx)
	return nil
}
