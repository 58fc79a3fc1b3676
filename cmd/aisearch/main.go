// Package main provides the entry point for the aisearch CLI.
//
// aisearch drives a real browser against Google's AI answer mode,
// extracts the generated answer, and rewrites its citations into a
// self-contained markdown document with numbered footnotes.
//
// Usage:
//
//	aisearch search "mietspiegel dresden 2026"
//	aisearch search --topic mietspiegel --city dresden --plz 01067
//
// See --help for all available options.
package main

// main is the entry point for aisearch.
func main() {
	Execute()
}
