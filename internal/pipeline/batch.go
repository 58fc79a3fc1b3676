package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/model"
	"golang.org/x/sync/errgroup"
)

// PageFactory opens a fresh page for one extraction. Each run gets its own
// page so a dead or CAPTCHA-blocked page cannot poison a sibling run.
type PageFactory func(ctx context.Context) (browser.Page, error)

// BatchProcessor runs multiple extractions concurrently, one pipeline and
// one page per query, bounded by a concurrency limit.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-run execution
// 2. It owns the page lifecycle, which single runs manage themselves
// 3. It allows different batch strategies later (rate limiting, retries)
type BatchProcessor struct {
	// newPage opens the per-extraction page.
	newPage PageFactory

	// pipelineFactory creates a fresh pipeline for each extraction.
	// A factory because pipelines bind to a specific page.
	pipelineFactory func(page browser.Page) *Pipeline

	// concurrency is the maximum number of concurrent extractions. Each
	// one drives a full renderer page, so the default is deliberately low.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent extractions.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(newPage PageFactory, pipelineFactory func(browser.Page) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		newPage:         newPage,
		pipelineFactory: pipelineFactory,
		concurrency:     2,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs all extractions and returns when the last one
// finished. Per-run failures are recorded on the extraction itself and
// never abort siblings; the error return covers batch-level cancellation
// only.
//
// Design decision: errgroup.SetLimit rather than a hand-rolled worker
// pool. Each extraction gets its own goroutine, but only 'concurrency'
// goroutines run simultaneously, and context propagation comes for free.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, extractions []*model.Extraction) error {
	bp.logger.Info("starting batch processing",
		"total_queries", len(extractions),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, ex := range extractions {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("extracting",
				"query", ex.Request.Query,
				"index", i+1,
				"total", len(extractions),
			)

			page, err := bp.newPage(ctx)
			if err != nil {
				if browser.IsSessionTerminated(err) {
					ex.Fail(model.ErrorKindBrowserClosed, "browser closed before extraction started")
					return nil
				}
				ex.Fail(model.ErrorKindPageLoadFailure, "failed to open page: "+err.Error())
				return nil
			}
			defer func() {
				if err := page.Close(); err != nil {
					bp.logger.Debug("page close failed", "error", err)
				}
			}()

			if err := bp.pipelineFactory(page).Execute(ctx, ex); err != nil {
				// Cancellation is the only error Execute surfaces; hand it
				// to the errgroup so siblings stop too.
				return err
			}

			bp.logger.Info("extraction finished",
				"query", ex.Request.Query,
				"success", !ex.Failed(),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_queries", len(extractions),
		"elapsed", time.Since(startTime),
	)
	return err
}
