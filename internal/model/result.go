package model

// ErrorKind classifies terminal extraction failures.
//
// Design decision: We use string constants rather than iota-based integers
// because the values are part of the external JSON contract: calling
// automation branches on the literal strings "CAPTCHA_REQUIRED" and
// "BROWSER_CLOSED_BY_USER".
type ErrorKind string

const (
	// ErrorKindNone means the run succeeded.
	ErrorKindNone ErrorKind = ""

	// ErrorKindCaptchaRequired is returned in headless mode when the
	// provider serves a block page. In visible-browser mode this condition
	// degrades to an extended readiness wait instead.
	ErrorKindCaptchaRequired ErrorKind = "CAPTCHA_REQUIRED"

	// ErrorKindBrowserClosed covers any "browser/page closed" condition
	// observed at a suspension point. It takes priority over every other
	// classification because it invalidates all other reads.
	ErrorKindBrowserClosed ErrorKind = "BROWSER_CLOSED_BY_USER"

	// ErrorKindPageLoadFailure means the initial navigation failed.
	ErrorKindPageLoadFailure ErrorKind = "PAGE_LOAD_FAILED"

	// ErrorKindContentMissing means the page has no generated answer at
	// all: the main content container was absent. Distinct from a CAPTCHA
	// block, which is detected earlier.
	ErrorKindContentMissing ErrorKind = "CONTENT_CONTAINER_MISSING"

	// ErrorKindInjectionFailure means the in-page procedure itself failed.
	ErrorKindInjectionFailure ErrorKind = "INJECTION_FAILED"
)

// Process exit codes, specified for compatibility with calling automation.
const (
	// ExitOK indicates success.
	ExitOK = 0

	// ExitFailure is the generic failure code.
	ExitFailure = 1

	// ExitCaptchaRequired signals that a retry with a visible browser
	// (so a human can solve the challenge) may succeed.
	ExitCaptchaRequired = 2

	// ExitBrowserClosed signals the user closed the browser mid-run.
	ExitBrowserClosed = 3

	// ExitInterrupted is the conventional code for SIGINT.
	ExitInterrupted = 130
)

// ExitCode maps the error kind to its process exit code.
func (k ErrorKind) ExitCode() int {
	switch k {
	case ErrorKindNone:
		return ExitOK
	case ErrorKindCaptchaRequired:
		return ExitCaptchaRequired
	case ErrorKindBrowserClosed:
		return ExitBrowserClosed
	default:
		return ExitFailure
	}
}

// ExtractionResult is the terminal value of one run. Once constructed it
// is never mutated.
type ExtractionResult struct {
	// Success reports whether the pipeline produced a document.
	Success bool `json:"success"`

	// Markdown is the final citation-annotated document. Set on success.
	Markdown string `json:"markdown,omitempty"`

	// Sources lists all embedded sources in first-seen order across
	// groups. Duplicate URLs are only guaranteed absent within a single
	// group, not globally.
	Sources []SourceRef `json:"sources,omitempty"`

	// SourceURL is the navigation target the content was extracted from.
	SourceURL string `json:"source_url,omitempty"`

	// Query echoes the request query for self-contained result files.
	Query string `json:"query,omitempty"`

	// Error is the failure classification. Empty on success.
	Error ErrorKind `json:"error,omitempty"`

	// Message is a human-readable failure description. Empty on success.
	Message string `json:"message,omitempty"`
}
