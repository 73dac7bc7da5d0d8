package translate

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v2"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fieldworks/attrclean/pkg/table"
)

const (
	cacheTTL = time.Hour

	// singleConcurrency bounds the fan-out of independent single-text
	// calls. Batch mode stays strictly sequential.
	singleConcurrency = 4
)

// Summary reports one column-translation run.
type Summary struct {
	Pending    int // rows that needed translation
	Translated int
	FromCache  int
	Failed     int
}

// Runner translates one dataset column into another, batch by batch, with a
// TTL cache keyed by service/model/language/text so repeated values hit the
// service once.
type Runner struct {
	service      Service
	opts         Options
	cache        *ttlcache.Cache
	showProgress bool
}

// NewRunner creates a runner for the given service. Close releases the cache
// janitor when the runner is done.
func NewRunner(service Service, opts Options, showProgress bool) *Runner {
	cache := ttlcache.NewCache()
	_ = cache.SetTTL(cacheTTL)
	cache.SkipTTLExtensionOnHit(true)
	return &Runner{
		service:      service,
		opts:         opts,
		cache:        cache,
		showProgress: showProgress,
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() {
	r.cache.Close()
}

// TranslateColumn fills targetField with translations of sourceField. Rows
// with an empty source or an already-filled target are skipped. Cancelling
// the context stops new batches from being issued; rows written by completed
// batches stay written.
func (r *Runner) TranslateColumn(ctx context.Context, ds table.Dataset, sourceField, targetField string) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	if sourceField == "" || targetField == "" {
		return nil, errors.Errorf("source and target fields are required")
	}
	if !ds.HasField(sourceField) {
		return nil, errors.Errorf("field %q not found in dataset %s", sourceField, ds.Name())
	}
	if !ds.HasField(targetField) {
		if err := ds.AddField(targetField); err != nil {
			return nil, errors.Errorf("creating target field: %w", err)
		}
	}

	pending, err := r.pendingRows(ds, sourceField, targetField)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Pending: len(pending)}
	if len(pending) == 0 {
		logger.Info().Str("dataset", ds.Name()).Msg("nothing to translate")
		return summary, nil
	}

	logger.Info().
		Str("service", r.service.Name()).
		Str("field", sourceField).
		Str("target", targetField).
		Int("rows", len(pending)).
		Msg("starting translation")

	var progress *pterm.ProgressbarPrinter
	if r.showProgress {
		progress, _ = pterm.DefaultProgressbar.
			WithTotal(len(pending)).
			WithTitle("translating " + sourceField).
			Start()
		if progress != nil {
			defer progress.Stop()
		}
	}

	batchSize := r.opts.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	for start := 0; start < len(pending); start += batchSize {
		// Cancellation stops issuing new calls between batches.
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("translation cancelled: %w", err)
		}

		batch := pending[start:min(start+batchSize, len(pending))]
		if err := r.translateBatch(ctx, ds, targetField, batch, summary); err != nil {
			return summary, err
		}
		if progress != nil {
			progress.Add(len(batch))
		}

		logger.Info().
			Int("done", min(start+batchSize, len(pending))).
			Int("total", len(pending)).
			Msg("translation progress")
	}

	return summary, nil
}

type pendingRow struct {
	row  int
	text string
}

func (r *Runner) pendingRows(ds table.Dataset, sourceField, targetField string) ([]pendingRow, error) {
	source, err := ds.Column(sourceField)
	if err != nil {
		return nil, err
	}
	target, err := ds.Column(targetField)
	if err != nil {
		return nil, err
	}

	var pending []pendingRow
	for i := range source {
		if strings.TrimSpace(source[i]) == "" || strings.TrimSpace(target[i]) != "" {
			continue
		}
		pending = append(pending, pendingRow{row: i, text: source[i]})
	}
	return pending, nil
}

// translateBatch resolves one batch through the cache and the service. A
// provider may hand back partial results alongside its error; the filled
// slots are still written, only the empty ones count as failed. The returned
// error is reserved for write failures.
func (r *Runner) translateBatch(ctx context.Context, ds table.Dataset, targetField string, batch []pendingRow, summary *Summary) error {
	logger := zerolog.Ctx(ctx)
	results := make([]string, len(batch))

	// Serve what we can from the cache, then hit the service for the rest.
	var missIdx []int
	var missTexts []string
	for i, p := range batch {
		if cached, err := r.cache.Get(r.cacheKey(p.text)); err == nil {
			results[i] = cached.(string)
			summary.FromCache++
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, p.text)
	}

	if len(missTexts) > 0 {
		translated, err := r.translateTexts(ctx, missTexts)
		if err != nil {
			logger.Warn().Err(err).Msg("batch translated with failures")
		}
		for j, i := range missIdx {
			if j >= len(translated) {
				break
			}
			results[i] = translated[j]
			if translated[j] != "" {
				_ = r.cache.Set(r.cacheKey(batch[i].text), translated[j])
			}
		}
	}

	for i, p := range batch {
		if results[i] == "" {
			summary.Failed++
			continue
		}
		if err := ds.SetCell(p.row, targetField, results[i]); err != nil {
			return errors.Errorf("writing row %d: %w", p.row, err)
		}
		summary.Translated++
	}
	return nil
}

// translateTexts dispatches to the service: one batched call in batch mode,
// bounded concurrent single calls otherwise. Partial results are returned
// alongside the error, so one bad text does not void its siblings.
func (r *Runner) translateTexts(ctx context.Context, texts []string) ([]string, error) {
	if r.opts.BatchMode {
		return r.service.Translate(ctx, texts, r.opts)
	}

	results := make([]string, len(texts))
	var g errgroup.Group
	g.SetLimit(singleConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			out, err := r.service.Translate(ctx, []string{text}, r.opts)
			if err != nil {
				return err
			}
			if len(out) != 1 {
				return errors.Errorf("expected 1 translation, got %d", len(out))
			}
			results[i] = out[0]
			return nil
		})
	}
	return results, g.Wait()
}

func (r *Runner) cacheKey(text string) string {
	return strings.Join([]string{r.service.Name(), r.opts.Model, r.opts.SourceLang, r.opts.TargetLang, text}, "\x00")
}
