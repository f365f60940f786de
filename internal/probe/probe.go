// Package probe implements the low-level network checks a region runs
// against a target: DNS resolution, a TCP connect to the service port and
// the HTTP request itself. Checkers classify their own failures into the
// domain error kinds and never return Go errors; a probe's outcome is data.
package probe

import (
	"context"
	"errors"
	"net"
)

// isTimeout matches both a network-level timeout and an expired context.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
