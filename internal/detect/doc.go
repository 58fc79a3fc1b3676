// Package detect classifies loaded pages and waits for generated content.
//
// It contains the two components that by contract never raise: the
// anti-bot Detector degrades every read failure to "this layer found
// nothing", and the readiness Waiter degrades a timeout to a soft false.
// The single exception is a terminated browser session, which both
// surface distinctly so the caller can short-circuit instead of waiting
// out the remaining budget.
package detect
