// Package report writes extraction results to disk and renders the
// per-run terminal summary.
//
// The result document itself is already markdown when it arrives here;
// this package only decides where it goes (explicit path, results
// directory, or derived name in the working directory) and what sits next
// to it (the optional JSON sidecar with the full result).
package report
