// Package normalize converts the harvested answer markup into a clean
// plain-text markdown document.
//
// The work runs in three pure stages: a pre-pass on the raw HTML
// (hyperlinks inside code blocks become bare addresses), the structural
// HTML-to-markdown conversion, and an ordered post-pass of text cleanups.
// The post-pass order matters: later passes assume earlier cleanup
// already ran, and the whole post-pass is idempotent so re-running it on
// normalized text changes nothing.
package normalize
