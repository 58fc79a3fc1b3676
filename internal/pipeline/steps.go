package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/cite"
	"github.com/nao1215/aisearch/internal/config"
	"github.com/nao1215/aisearch/internal/detect"
	"github.com/nao1215/aisearch/internal/harvest"
	"github.com/nao1215/aisearch/internal/model"
	"github.com/nao1215/aisearch/internal/normalize"
)

// NavigateStep loads the search address built from the request.
//
// Design decision: Navigation is a separate step rather than pipeline
// setup because its two failure modes (dead session vs. load failure)
// are part of the run's failure taxonomy and need the same classification
// treatment as every later step.
type NavigateStep struct {
	// page is the driven page.
	page browser.Page

	// timeout bounds the navigation, independent of the outer context.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// NavigateStepOption configures a NavigateStep.
type NavigateStepOption func(*NavigateStep)

// WithNavigateTimeout overrides the navigation timeout.
func WithNavigateTimeout(d time.Duration) NavigateStepOption {
	return func(s *NavigateStep) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNavigateLogger sets a custom logger for the navigate step.
func WithNavigateLogger(logger *slog.Logger) NavigateStepOption {
	return func(s *NavigateStep) {
		s.logger = logger
	}
}

// NewNavigateStep creates a navigation step for the given page.
func NewNavigateStep(page browser.Page, opts ...NavigateStepOption) *NavigateStep {
	s := &NavigateStep{
		page:    page,
		timeout: config.DefaultPageLoadTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *NavigateStep) Name() string {
	return "navigate"
}

// Do executes the navigation step.
func (s *NavigateStep) Do(ctx context.Context, ex *model.Extraction) error {
	navCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.page.Navigate(navCtx, ex.SearchURL); err != nil {
		if browser.IsSessionTerminated(err) {
			ex.Fail(model.ErrorKindBrowserClosed, "browser closed during navigation")
			return nil
		}
		// The outer context dying is a pipeline abort, not a page problem.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("navigation failed", "url", ex.SearchURL, "error", err)
		ex.Fail(model.ErrorKindPageLoadFailure, "page load failed: "+err.Error())
	}
	return nil
}

// DetectStep classifies the loaded page as blocked or not.
//
// In headless mode a block page is terminal: nobody can solve the
// challenge. With a visible browser the run continues, since the long
// readiness budget of the following wait step gives the user time to
// solve it by hand.
type DetectStep struct {
	// page is the driven page.
	page browser.Page

	// detector evaluates the block-page signal layers.
	detector *detect.Detector

	// headless records the browser mode the page runs in.
	headless bool

	// logger for structured logging.
	logger *slog.Logger
}

// DetectStepOption configures a DetectStep.
type DetectStepOption func(*DetectStep)

// WithDetectLogger sets a custom logger for the detect step.
func WithDetectLogger(logger *slog.Logger) DetectStepOption {
	return func(s *DetectStep) {
		s.logger = logger
	}
}

// NewDetectStep creates a block-page detection step.
func NewDetectStep(page browser.Page, detector *detect.Detector, headless bool, opts ...DetectStepOption) *DetectStep {
	s := &DetectStep{
		page:     page,
		detector: detector,
		headless: headless,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DetectStep) Name() string {
	return "detect"
}

// Do executes the detection step.
func (s *DetectStep) Do(ctx context.Context, ex *model.Extraction) error {
	ex.Blocked = s.detector.Detect(ctx, s.page)
	if !ex.Blocked {
		return nil
	}

	if s.headless {
		ex.Fail(model.ErrorKindCaptchaRequired, "provider served a block page; retry with a visible browser")
		return nil
	}

	s.logger.Info("block page detected, waiting for the challenge to be solved in the browser window",
		"query", ex.Request.Query,
	)
	return nil
}

// WaitStep polls for the generated-content readiness marker.
type WaitStep struct {
	// page is the driven page.
	page browser.Page

	// waiter performs the polling.
	waiter *detect.Waiter

	// budget is the number of poll iterations.
	budget int
}

// NewWaitStep creates a readiness-wait step.
func NewWaitStep(page browser.Page, waiter *detect.Waiter, budget int) *WaitStep {
	return &WaitStep{page: page, waiter: waiter, budget: budget}
}

// Name returns the step name.
func (s *WaitStep) Name() string {
	return "wait_ready"
}

// Do executes the wait step. A timeout without a marker is soft: Ready
// stays false and the pipeline proceeds with whatever content is present.
func (s *WaitStep) Do(ctx context.Context, ex *model.Extraction) error {
	ready, err := s.waiter.Await(ctx, s.page, s.budget)
	if err != nil {
		if browser.IsSessionTerminated(err) {
			ex.Fail(model.ErrorKindBrowserClosed, "browser closed while waiting for content")
			return nil
		}
		return err
	}
	ex.Ready = ready
	return nil
}

// HarvestStep runs the in-page citation harvest and stores its payload.
type HarvestStep struct {
	// page is the driven page.
	page browser.Page

	// harvester executes the in-page procedure.
	harvester *harvest.Harvester
}

// NewHarvestStep creates a harvest step.
func NewHarvestStep(page browser.Page, harvester *harvest.Harvester) *HarvestStep {
	return &HarvestStep{page: page, harvester: harvester}
}

// Name returns the step name.
func (s *HarvestStep) Name() string {
	return "harvest"
}

// Do executes the harvest step, mapping each harvest sentinel onto its
// failure classification.
func (s *HarvestStep) Do(ctx context.Context, ex *model.Extraction) error {
	payload, err := s.harvester.Run(ctx, s.page)
	if err != nil {
		switch {
		case browser.IsSessionTerminated(err):
			ex.Fail(model.ErrorKindBrowserClosed, "browser closed during harvest")
		case errors.Is(err, harvest.ErrContentContainerMissing):
			ex.Fail(model.ErrorKindContentMissing, "no generated answer on this page")
		default:
			ex.Fail(model.ErrorKindInjectionFailure, err.Error())
		}
		return nil
	}
	ex.Raw = payload
	return nil
}

// NormalizeStep converts the harvested markup into cleaned markdown.
type NormalizeStep struct {
	// normalizer performs the three-stage conversion.
	normalizer *normalize.Normalizer
}

// NewNormalizeStep creates a normalization step.
func NewNormalizeStep(normalizer *normalize.Normalizer) *NormalizeStep {
	return &NormalizeStep{normalizer: normalizer}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalization step. Unparseable markup is classified as
// an injection failure: the payload crossed the in-page boundary broken.
func (s *NormalizeStep) Do(_ context.Context, ex *model.Extraction) error {
	markdown, err := s.normalizer.Run(ex.Raw.HTML)
	if err != nil {
		ex.Fail(model.ErrorKindInjectionFailure, "harvested markup unusable: "+err.Error())
		return nil
	}
	ex.Markdown = markdown
	return nil
}

// EmbedStep rewrites citation markers into footnotes and appends the
// bibliography. It cannot fail: markers without groups are swept and
// groups without markers are dropped.
type EmbedStep struct {
	// embedder performs the marker rewrite.
	embedder *cite.Embedder
}

// NewEmbedStep creates an embedding step.
func NewEmbedStep(embedder *cite.Embedder) *EmbedStep {
	return &EmbedStep{embedder: embedder}
}

// Name returns the step name.
func (s *EmbedStep) Name() string {
	return "embed"
}

// Do executes the embedding step.
func (s *EmbedStep) Do(_ context.Context, ex *model.Extraction) error {
	text, sources := s.embedder.Embed(ex.Markdown, ex.Raw.Citations)
	ex.Markdown = s.embedder.AppendBibliography(text, sources)
	ex.Sources = sources
	return nil
}

// DefaultPipeline creates a pipeline with all extraction steps configured
// from cfg, in canonical order, driving the given page.
//
// Design decision: We provide a default pipeline because:
// 1. Every caller wants the same six steps in the same order
// 2. Reduces boilerplate in the CLI
// 3. Keeps the step wiring testable in one place
func DefaultPipeline(page browser.Page, cfg *config.Config, opts ...Option) *Pipeline {
	p := New(opts...)

	detector := detect.NewDetector(cfg.Phrases,
		detect.WithShortTextThreshold(cfg.ShortTextThreshold),
		detect.WithDetectorLogger(p.logger),
	)
	waiter := detect.NewWaiter(cfg.Phrases.Readiness,
		detect.WithWaiterInterval(cfg.ReadinessInterval),
		detect.WithWaiterLogger(p.logger),
	)
	harvester := harvest.NewHarvester(
		harvest.WithSelectors(cfg.MainContainerSelector, cfg.SidePanelSelector),
		harvest.WithTriggerLabels(cfg.Phrases.TriggerLabels),
		harvest.WithSkipDomains(cfg.Phrases.SkipDomains),
		harvest.WithPanelTiming(cfg.PanelPollInterval, cfg.PanelPollCeiling, cfg.PanelSettleDelay),
		harvest.WithLogger(p.logger),
	)
	normalizer := normalize.New(
		normalize.WithDisclaimerPhrases(cfg.Phrases.Disclaimer),
		normalize.WithLogger(p.logger),
	)
	embedder := cite.New(cite.WithLogger(p.logger))

	p.AddSteps(
		NewNavigateStep(page,
			WithNavigateTimeout(cfg.PageLoadTimeout),
			WithNavigateLogger(p.logger),
		),
		NewDetectStep(page, detector, cfg.Headless,
			WithDetectLogger(p.logger),
		),
		NewWaitStep(page, waiter, cfg.ReadinessBudget),
		NewHarvestStep(page, harvester),
		NewNormalizeStep(normalizer),
		NewEmbedStep(embedder),
	)

	return p
}
