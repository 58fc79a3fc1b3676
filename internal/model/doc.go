// Package model defines the core data structures used throughout aisearch.
//
// This package contains the following main types:
//   - ExtractionRequest: The immutable query input for one run
//   - RawPayload: The structured value returned from the in-page harvester
//   - CitationGroup / SourceRef: Citation data collected during harvesting
//   - ExtractionResult: The terminal, serializable outcome of a run
//   - Extraction: Mutable pipeline state threaded through the steps
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (harvest, cite, pipeline, report, database)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for result output and
// database storage.
package model
