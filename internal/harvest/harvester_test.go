package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nao1215/aisearch/internal/browser"
)

// fakePage is a test double for browser.Page that records Eval calls.
type fakePage struct {
	evalResult json.RawMessage
	evalErr    error
	evalJS     string
	evalArgs   []any
}

// Navigate implements browser.Page.
func (f *fakePage) Navigate(context.Context, string) error { return nil }

// URL implements browser.Page.
func (f *fakePage) URL() string { return "" }

// BodyText implements browser.Page.
func (f *fakePage) BodyText(context.Context) (string, error) { return "", nil }

// Exists implements browser.Page.
func (f *fakePage) Exists(context.Context, string) (bool, error) { return false, nil }

// Eval implements browser.Page.
func (f *fakePage) Eval(_ context.Context, js string, args ...any) (json.RawMessage, error) {
	f.evalJS = js
	f.evalArgs = args
	return f.evalResult, f.evalErr
}

// Close implements browser.Page.
func (f *fakePage) Close() error { return nil }

// TestHarvesterRun tests payload decoding and error classification.
func TestHarvesterRun(t *testing.T) {
	t.Parallel()

	t.Run("decodes complete payload", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{
			evalResult: json.RawMessage(`{
				"html": "<p>answer [CITE-0]</p>",
				"citations": [
					{"marker_id": 0, "sources": [
						{"title": "A", "url": "https://a.test/x", "source": "a.test"}
					]},
					{"marker_id": 1, "sources": []}
				]
			}`),
		}

		payload, err := NewHarvester().Run(context.Background(), page)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if payload.HTML != "<p>answer [CITE-0]</p>" {
			t.Errorf("HTML = %q", payload.HTML)
		}
		if len(payload.Citations) != 2 {
			t.Fatalf("len(Citations) = %d, want 2", len(payload.Citations))
		}
		if payload.Citations[0].MarkerID != 0 || payload.Citations[1].MarkerID != 1 {
			t.Error("marker ids not preserved in order")
		}
		// A group with an empty source list is still recorded.
		if len(payload.Citations[1].Sources) != 0 {
			t.Errorf("Citations[1].Sources = %+v, want empty", payload.Citations[1].Sources)
		}
		if payload.Citations[0].Sources[0].Host != "a.test" {
			t.Errorf("Host = %q", payload.Citations[0].Sources[0].Host)
		}
	})

	t.Run("missing container maps to distinct error", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{
			evalResult: json.RawMessage(`{"error": "main content container not found"}`),
		}

		_, err := NewHarvester().Run(context.Background(), page)
		if !errors.Is(err, ErrContentContainerMissing) {
			t.Errorf("err = %v, want ErrContentContainerMissing", err)
		}
	})

	t.Run("dead session takes priority", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{evalErr: errors.New("rpc: target closed")}

		_, err := NewHarvester().Run(context.Background(), page)
		if !errors.Is(err, browser.ErrSessionTerminated) {
			t.Errorf("err = %v, want ErrSessionTerminated", err)
		}
	})

	t.Run("other eval failures wrap ErrInjectionFailed", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{evalErr: errors.New("SyntaxError: unexpected token")}

		_, err := NewHarvester().Run(context.Background(), page)
		if !errors.Is(err, ErrInjectionFailed) {
			t.Errorf("err = %v, want ErrInjectionFailed", err)
		}
	})

	t.Run("undecodable payload wraps ErrInjectionFailed", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{evalResult: json.RawMessage(`"just a string"`)}

		_, err := NewHarvester().Run(context.Background(), page)
		if !errors.Is(err, ErrInjectionFailed) {
			t.Errorf("err = %v, want ErrInjectionFailed", err)
		}
	})

	t.Run("passes tuning and selectors as the single script argument", func(t *testing.T) {
		t.Parallel()

		page := &fakePage{evalResult: json.RawMessage(`{"html": "", "citations": []}`)}
		h := NewHarvester(
			WithSelectors("#main", "#panel"),
			WithSkipDomains([]string{"provider.test"}),
		)

		if _, err := h.Run(context.Background(), page); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(page.evalArgs) != 1 {
			t.Fatalf("len(evalArgs) = %d, want 1", len(page.evalArgs))
		}
		params, ok := page.evalArgs[0].(scriptParams)
		if !ok {
			t.Fatalf("evalArgs[0] has type %T", page.evalArgs[0])
		}
		if params.ContainerSelector != "#main" || params.PanelSelector != "#panel" {
			t.Errorf("selectors = %q/%q", params.ContainerSelector, params.PanelSelector)
		}
		if params.PollIntervalMS != 10 || params.PollCeilingMS != 300 || params.SettleMS != 50 {
			t.Errorf("timing = %d/%d/%d", params.PollIntervalMS, params.PollCeilingMS, params.SettleMS)
		}
		if len(params.SkipDomains) != 1 || params.SkipDomains[0] != "provider.test" {
			t.Errorf("SkipDomains = %v", params.SkipDomains)
		}
	})
}
