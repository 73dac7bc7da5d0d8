// Package opts carries the shared dependencies of the attrclean commands.
package opts

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/config"
	"github.com/fieldworks/attrclean/pkg/log"
	"github.com/fieldworks/attrclean/pkg/operation"
)

// RootOpts holds flag values and shared dependencies for all commands.
type RootOpts struct {
	// ConfigPath is the config file path from --config.
	ConfigPath string
	// Console is the console logger shared by all commands.
	Console *log.Logger
}

// LoadConfig loads and validates the configured run.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigPath)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Operator builds the operator for the configured run, reading provider
// secrets from the environment.
func (o *RootOpts) Operator(ctx context.Context) (operation.Operator, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, err
	}

	return operation.New(operation.Options{
		Config:  cfg,
		Secrets: secrets,
		Console: o.Console,
	})
}
