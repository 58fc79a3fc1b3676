package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrNoQuery is returned when neither --query nor --city provides a
	// search query.
	ErrNoQuery = errors.New("no query specified: provide --query or --city")

	// ErrInvalidReadinessBudget is returned when the readiness budget is
	// not positive. A zero budget would skip the wait entirely and harvest
	// a page that has not rendered yet.
	ErrInvalidReadinessBudget = errors.New("invalid readiness budget: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidShortTextThreshold is returned when the length-heuristic
	// threshold is not positive.
	ErrInvalidShortTextThreshold = errors.New("invalid short-text threshold: must be positive")

	// ErrInvalidPanelTiming is returned when the panel poll interval or
	// ceiling is not positive.
	ErrInvalidPanelTiming = errors.New("invalid panel timing: poll interval and ceiling must be positive")

	// ErrConflictingOutputs is returned when --output and --save are both
	// given. The explicit path and the results directory are mutually
	// exclusive destinations.
	ErrConflictingOutputs = errors.New("conflicting outputs: --output and --save cannot be used together")
)
