package browser

import (
	"context"
	"errors"
	"strings"
)

// ErrSessionTerminated reports that the underlying browser or page went
// away mid-operation, typically because the user closed the window.
//
// Design decision: This condition gets a sentinel of its own because it
// always takes priority over any other failure classification. Once the
// session is gone, every other read is invalid and retrying is pointless;
// callers short-circuit instead of waiting out remaining poll budgets.
var ErrSessionTerminated = errors.New("browser session terminated")

// terminationSignals are the substrings that identify a dead session in
// errors surfaced by the DevTools transport. The set is matched
// case-insensitively because the wording varies across rod versions and
// close paths (page close, browser close, websocket teardown).
var terminationSignals = []string{
	"target closed",
	"browser has been closed",
	"session closed",
	"connection closed",
	"use of closed network connection",
	"websocket: close",
}

// IsSessionTerminated reports whether err indicates the browser or page
// is gone. Context cancellation counts: the session context is torn down
// with the browser, and the two are indistinguishable at a suspension
// point.
func IsSessionTerminated(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionTerminated) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range terminationSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}
