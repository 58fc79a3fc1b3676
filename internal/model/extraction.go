package model

import "time"

// Extraction is the mutable state threaded through the pipeline steps.
// Each step fully consumes its predecessor's output before writing its
// own fields; no step reads a partially-transformed buffer written by
// another (single logical thread of control, see the pipeline package).
type Extraction struct {
	// Request is the immutable input for this run.
	Request ExtractionRequest

	// SearchURL is the navigation target built from the request.
	SearchURL string

	// StartedAt is when the pipeline began executing.
	StartedAt time.Time

	// Blocked is the anti-bot detector's verdict after page load.
	Blocked bool

	// Ready reports whether a generated-content marker appeared within
	// the readiness budget. A false value is a soft failure: the pipeline
	// proceeds with whatever content is present.
	Ready bool

	// Raw is the harvester's payload: annotated markup plus citation
	// groups. Nil until the harvest step completes.
	Raw *RawPayload

	// Markdown holds the document as it moves through normalization and
	// embedding. Each stage replaces the whole value.
	Markdown string

	// Sources is the concatenated, ordered source list produced by the
	// embedder.
	Sources []SourceRef

	// PerformedSteps records which pipeline steps ran, in order.
	PerformedSteps []string

	// Failure classification, set by the first step that terminates the
	// run. ErrorKindNone while the pipeline is still healthy.
	ErrorKind ErrorKind

	// ErrorMessage is the human-readable counterpart of ErrorKind.
	ErrorMessage string
}

// NewExtraction creates pipeline state for the given request.
func NewExtraction(req ExtractionRequest, searchURL string) *Extraction {
	return &Extraction{
		Request:   req,
		SearchURL: searchURL,
		StartedAt: time.Now(),
	}
}

// Fail records a terminal failure. A SessionTerminated classification
// (ErrorKindBrowserClosed) always wins over an earlier classification,
// since it invalidates every other read; otherwise the first failure
// sticks.
func (e *Extraction) Fail(kind ErrorKind, message string) {
	if e.ErrorKind != ErrorKindNone && kind != ErrorKindBrowserClosed {
		return
	}
	e.ErrorKind = kind
	e.ErrorMessage = message
}

// Failed reports whether a terminal failure has been recorded.
func (e *Extraction) Failed() bool {
	return e.ErrorKind != ErrorKindNone
}

// Result builds the terminal ExtractionResult from the accumulated state.
func (e *Extraction) Result() *ExtractionResult {
	if e.Failed() {
		return &ExtractionResult{
			Success: false,
			Query:   e.Request.Query,
			Error:   e.ErrorKind,
			Message: e.ErrorMessage,
		}
	}
	return &ExtractionResult{
		Success:   true,
		Markdown:  e.Markdown,
		Sources:   e.Sources,
		SourceURL: e.SearchURL,
		Query:     e.Request.Query,
	}
}
