// Package browser provides the live-page capability the extraction
// pipeline runs against.
//
// The pipeline never touches go-rod directly: every stage works with the
// Page interface, which exposes exactly the five operations the pipeline
// needs (navigate, read the address, read visible body text, probe a
// selector, evaluate an injected script). This keeps the detector, waiter,
// and harvester testable against fakes, and keeps the one true
// non-determinism source behind a single seam.
//
// Design decision: The in-page interactive procedure (see the harvest
// package) is a single Eval round-trip by contract. The live document can
// only be manipulated from the page's own execution context, so the
// interface deliberately offers no way to observe intermediate DOM state
// across multiple round-trips.
package browser
