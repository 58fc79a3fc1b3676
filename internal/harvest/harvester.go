package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/config"
	"github.com/nao1215/aisearch/internal/model"
)

// Harvest failure sentinels.
var (
	// ErrContentContainerMissing means the page has no generated answer:
	// the main content container was absent. This is the expected outcome
	// for queries the provider answers with a plain result list, and it
	// must stay distinguishable from a CAPTCHA block.
	ErrContentContainerMissing = errors.New("main content container not found")

	// ErrInjectionFailed means the in-page procedure itself failed.
	ErrInjectionFailed = errors.New("in-page harvest script failed")
)

// containerMissingDescriptor is the error string the injected script
// returns when the content container is absent.
const containerMissingDescriptor = "main content container not found"

// Harvester runs the in-page citation-harvesting procedure and decodes
// its payload. It is the only component that mutates the live document.
type Harvester struct {
	containerSelector string
	panelSelector     string
	triggerLabels     []config.Phrase
	skipDomains       []string
	pollInterval      time.Duration
	pollCeiling       time.Duration
	settleDelay       time.Duration
	logger            *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithSelectors overrides the structural selectors for the answer
// container and the source side panel.
func WithSelectors(container, panel string) Option {
	return func(h *Harvester) {
		h.containerSelector = container
		h.panelSelector = panel
	}
}

// WithTriggerLabels overrides the trigger accessibility-label phrases.
func WithTriggerLabels(labels []config.Phrase) Option {
	return func(h *Harvester) {
		h.triggerLabels = labels
	}
}

// WithSkipDomains overrides the provider-domain denylist.
func WithSkipDomains(domains []string) Option {
	return func(h *Harvester) {
		h.skipDomains = domains
	}
}

// WithPanelTiming overrides the post-click poll-then-settle timing.
func WithPanelTiming(interval, ceiling, settle time.Duration) Option {
	return func(h *Harvester) {
		h.pollInterval = interval
		h.pollCeiling = ceiling
		h.settleDelay = settle
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		h.logger = logger
	}
}

// NewHarvester creates a Harvester with the documented defaults.
func NewHarvester(opts ...Option) *Harvester {
	defaults := config.DefaultPhrases()
	h := &Harvester{
		containerSelector: config.DefaultMainContainerSelector,
		panelSelector:     config.DefaultSidePanelSelector,
		triggerLabels:     defaults.TriggerLabels,
		skipDomains:       defaults.SkipDomains,
		pollInterval:      config.DefaultPanelPollInterval,
		pollCeiling:       config.DefaultPanelPollCeiling,
		settleDelay:       config.DefaultPanelSettleDelay,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes the harvesting procedure on the page and returns its
// payload.
//
// Error classification, in priority order: a dead session surfaces as
// browser.ErrSessionTerminated; an in-page "container missing" descriptor
// surfaces as ErrContentContainerMissing; everything else wraps
// ErrInjectionFailed. A non-nil payload is always complete.
func (h *Harvester) Run(ctx context.Context, page browser.Page) (*model.RawPayload, error) {
	params := scriptParams{
		ContainerSelector: h.containerSelector,
		PanelSelector:     h.panelSelector,
		TriggerLabels:     config.Texts(h.triggerLabels),
		SkipDomains:       h.skipDomains,
		PollIntervalMS:    int(h.pollInterval.Milliseconds()),
		PollCeilingMS:     int(h.pollCeiling.Milliseconds()),
		SettleMS:          int(h.settleDelay.Milliseconds()),
	}

	raw, err := page.Eval(ctx, harvestScript, params)
	if err != nil {
		if browser.IsSessionTerminated(err) {
			return nil, fmt.Errorf("harvest aborted: %w", browser.ErrSessionTerminated)
		}
		return nil, fmt.Errorf("%w: %v", ErrInjectionFailed, err)
	}

	var payload model.RawPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: undecodable payload: %v", ErrInjectionFailed, err)
	}

	if payload.Error != "" {
		if payload.Error == containerMissingDescriptor {
			return nil, ErrContentContainerMissing
		}
		return nil, fmt.Errorf("%w: %s", ErrInjectionFailed, payload.Error)
	}

	h.logger.Info("harvest completed",
		"citation_groups", len(payload.Citations),
		"html_bytes", len(payload.HTML),
	)
	return &payload, nil
}
