// Package pipeline orchestrates a single extraction run as an ordered
// sequence of steps: navigate, detect, wait, harvest, normalize, embed.
//
// Steps communicate only through the shared model.Extraction value. A step
// that hits a terminal condition classifies it on the extraction and
// returns nil; the pipeline then stops without treating it as a Go error.
// A returned error is reserved for conditions outside the run's failure
// taxonomy, context cancellation in practice.
//
// Batch mode runs one full pipeline per query on its own page, bounded by
// an errgroup concurrency limit.
package pipeline
