package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// TestIsSessionTerminated tests dead-session classification.
func TestIsSessionTerminated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "sentinel", err: ErrSessionTerminated, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("harvest: %w", ErrSessionTerminated), want: true},
		{name: "context canceled", err: context.Canceled, want: true},
		{name: "target closed", err: errors.New("rpc call: Target Closed"), want: true},
		{name: "browser closed by user", err: errors.New("the Browser has been closed"), want: true},
		{name: "websocket teardown", err: errors.New("read: websocket: close 1006"), want: true},
		{name: "ordinary failure", err: errors.New("element not found"), want: false},
		{name: "deadline is not termination", err: context.DeadlineExceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsSessionTerminated(tt.err); got != tt.want {
				t.Errorf("IsSessionTerminated(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
