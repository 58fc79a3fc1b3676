package detect

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/config"
)

// Detector classifies a loaded page as blocked or not, using four
// independent signal layers evaluated first-match-wins:
//
//  1. Navigation target contains a known block-page path segment.
//     Fastest and least false-positive-prone, so it runs first.
//  2. Visible body text contains an "unusual traffic" phrase.
//  3. Body text is short AND contains a narrower confirmation phrase.
//  4. A known CAPTCHA-widget selector is present (lowest confidence).
//
// Detect has no side effects beyond transient page reads and never
// returns an error: any read failure during a layer means that layer
// found nothing, and evaluation continues.
type Detector struct {
	// phrases holds the per-layer phrase sets and selectors.
	phrases *config.PhraseConfig

	// shortTextThreshold is the rune-count cutoff for the length layer.
	shortTextThreshold int

	// logger records which layer matched. The match reason is observable
	// but not part of the return contract.
	logger *slog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithShortTextThreshold overrides the length-heuristic cutoff.
func WithShortTextThreshold(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.shortTextThreshold = n
		}
	}
}

// WithDetectorLogger sets a custom logger.
func WithDetectorLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a Detector using the given phrase sets.
func NewDetector(phrases *config.PhraseConfig, opts ...DetectorOption) *Detector {
	d := &Detector{
		phrases:            phrases,
		shortTextThreshold: config.DefaultShortTextThreshold,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect reports whether the page is a block page. It returns true on the
// first layer that matches and false when none do.
func (d *Detector) Detect(ctx context.Context, page browser.Page) bool {
	// Layer 1: navigation target. The provider always redirects block
	// pages to a dedicated path.
	addr := page.URL()
	for _, segment := range d.phrases.BlockPathSegments {
		if strings.Contains(addr, segment) {
			d.logger.Info("block page detected", "layer", "url", "segment", segment)
			return true
		}
	}

	// Layers 2 and 3 share one body-text read. A failed read skips both.
	body, err := page.BodyText(ctx)
	if err == nil {
		lower := strings.ToLower(body)

		// Layer 2: "unusual traffic" phrases, locale-invariant.
		for _, phrase := range d.phrases.BlockedTraffic {
			if strings.Contains(lower, strings.ToLower(phrase.Text)) {
				d.logger.Info("block page detected",
					"layer", "body_text",
					"locale", phrase.Tag().String(),
					"phrase", phrase.Text,
				)
				return true
			}
		}

		// Layer 3: length heuristic. Real answer pages run well past the
		// threshold; a short page alone is not enough, a confirmation
		// phrase must also match.
		trimmed := strings.TrimSpace(body)
		if utf8.RuneCountInString(trimmed) < d.shortTextThreshold {
			for _, phrase := range d.phrases.BlockedConfirm {
				if strings.Contains(lower, strings.ToLower(phrase.Text)) {
					d.logger.Info("block page detected",
						"layer", "short_text",
						"length", utf8.RuneCountInString(trimmed),
						"phrase", phrase.Text,
					)
					return true
				}
			}
		}
	}

	// Layer 4: structural CAPTCHA widgets. Least reliable, checked last.
	for _, selector := range d.phrases.CaptchaSelectors {
		found, err := page.Exists(ctx, selector)
		if err != nil {
			continue
		}
		if found {
			d.logger.Info("block page detected", "layer", "selector", "selector", selector)
			return true
		}
	}

	return false
}
