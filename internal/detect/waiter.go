package detect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/config"
)

// Waiter polls page state until generated content is present or a budget
// of iterations elapses. Single-threaded cooperative polling: one body
// read per interval.
//
// A timeout is a soft failure by design. The marker set is best-effort
// locale matching, and the page may already hold valid content under a
// marker string this component doesn't recognize; the pipeline proceeds
// with whatever is present.
type Waiter struct {
	// markers are the generated-content phrases, matched case-sensitively
	// against the raw body text (the provider renders them verbatim).
	markers []config.Phrase

	// interval is the pause between polls.
	interval time.Duration

	// sleep is injectable for tests.
	sleep func(time.Duration)

	// logger for structured logging.
	logger *slog.Logger
}

// WaiterOption configures a Waiter.
type WaiterOption func(*Waiter)

// WithWaiterInterval overrides the poll interval.
func WithWaiterInterval(d time.Duration) WaiterOption {
	return func(w *Waiter) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWaiterSleep replaces the sleep function. Tests use this to run the
// full 300-iteration budget without real delays.
func WithWaiterSleep(sleep func(time.Duration)) WaiterOption {
	return func(w *Waiter) {
		w.sleep = sleep
	}
}

// WithWaiterLogger sets a custom logger.
func WithWaiterLogger(logger *slog.Logger) WaiterOption {
	return func(w *Waiter) {
		w.logger = logger
	}
}

// NewWaiter creates a Waiter for the given readiness markers.
func NewWaiter(markers []config.Phrase, opts ...WaiterOption) *Waiter {
	w := &Waiter{
		markers:  markers,
		interval: config.DefaultReadinessInterval,
		sleep:    time.Sleep,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Await polls up to budget iterations for a readiness marker.
//
// It returns (true, nil) on the first match and (false, nil) when the
// budget elapses without one. The only error case is a dead session
// (browser.ErrSessionTerminated) or context cancellation: both
// short-circuit immediately rather than waiting out the remaining budget.
func (w *Waiter) Await(ctx context.Context, page browser.Page, budget int) (bool, error) {
	for i := range budget {
		body, err := page.BodyText(ctx)
		if err != nil {
			if browser.IsSessionTerminated(err) {
				return false, fmt.Errorf("readiness wait aborted: %w", browser.ErrSessionTerminated)
			}
			// Transient read failure: the page may be mid-render. Keep
			// polling, the budget bounds us.
		} else {
			for _, marker := range w.markers {
				if strings.Contains(body, marker.Text) {
					w.logger.Info("generated content detected",
						"marker", marker.Text,
						"locale", marker.Tag().String(),
						"iterations", i,
					)
					return true, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}
		w.sleep(w.interval)
	}

	w.logger.Warn("readiness markers not found, proceeding with current content",
		"budget", budget,
	)
	return false, nil
}
