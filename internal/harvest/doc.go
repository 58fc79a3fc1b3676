// Package harvest drives the in-page interaction that reveals citation
// sources and returns the annotated markup.
//
// The entire procedure runs as one script evaluation inside the page's
// own execution context, because the live document cannot be manipulated
// from outside it. The boundary is atomic by construction: either the
// script returns a complete payload (marker-annotated markup plus every
// citation group), or the call fails and the caller treats the page as
// unusable. Nothing on the Go side ever observes intermediate DOM state.
package harvest
