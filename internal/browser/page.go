package browser

import (
	"context"
	"encoding/json"
)

// Page is the abstracted interactive-page capability the pipeline drives.
// Exactly one goroutine uses a Page at a time; implementations do not need
// to be safe for concurrent use.
type Page interface {
	// Navigate loads the given address and waits for the document to load.
	// The generated answer renders asynchronously afterwards; callers use
	// the detect package to wait for it.
	Navigate(ctx context.Context, url string) error

	// URL returns the page's current address. Block pages are detected by
	// address first, so this must reflect redirects.
	URL() string

	// BodyText returns the visible body text of the page.
	BodyText(ctx context.Context) (string, error)

	// Exists reports whether the selector matches at least one element.
	Exists(ctx context.Context, selector string) (bool, error)

	// Eval runs a JavaScript function expression in the page context with
	// the given arguments and returns its result as raw JSON. This is the
	// only way the pipeline mutates the live document.
	Eval(ctx context.Context, js string, args ...any) (json.RawMessage, error)

	// Close releases the page.
	Close() error
}
