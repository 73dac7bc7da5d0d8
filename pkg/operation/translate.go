package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/log"
	"github.com/fieldworks/attrclean/pkg/table"
	"github.com/fieldworks/attrclean/pkg/translate"
)

// Translate fills the configured target column through a translation service
// and saves the result.
func (o *operator) Translate(ctx context.Context) error {
	if o.config.Translate == nil {
		return errors.Errorf("no translate section in config")
	}

	ds, err := o.loadDataset(ctx)
	if err != nil {
		return err
	}

	if _, err := o.translateDataset(ctx, ds); err != nil {
		return err
	}

	return o.saveDataset(ctx, ds)
}

// translateDataset translates one column of an already-loaded dataset.
func (o *operator) translateDataset(ctx context.Context, ds *table.Table) (*translate.Summary, error) {
	logger := zerolog.Ctx(ctx)
	tc := o.config.Translate

	service, err := translate.New(tc.Service, o.secrets.Credentials())
	if err != nil {
		return nil, errors.Errorf("creating translation service: %w", err)
	}

	runner := translate.NewRunner(service, tc.Options(), true)
	defer runner.Close()

	summary, err := runner.TranslateColumn(ctx, ds, tc.SourceField, tc.TargetField)
	if err != nil {
		return nil, errors.Errorf("translating column: %w", err)
	}

	o.console.LogFieldOperation(ctx, log.FieldOperation{
		Field:   tc.TargetField,
		Action:  "translated",
		Changed: summary.Translated,
		Total:   summary.Pending,
	})
	o.console.Info(o.formatter.FormatProgress(summary.Translated, summary.Pending))
	if summary.Failed > 0 {
		o.console.Warningf("%d rows failed to translate", summary.Failed)
	}

	logger.Info().
		Int("translated", summary.Translated).
		Int("cached", summary.FromCache).
		Int("failed", summary.Failed).
		Msg("translation complete")
	return summary, nil
}
