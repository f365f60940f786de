package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

// contextDialer is the seam over *net.Dialer for tests.
type contextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// PortChecker attempts a single TCP connect to host:port. It never retries;
// retry policy belongs to the caller.
type PortChecker struct {
	Dialer  contextDialer
	Timeout time.Duration
}

func NewPortChecker(timeout time.Duration) *PortChecker {
	return &PortChecker{Dialer: &net.Dialer{Timeout: timeout}, Timeout: timeout}
}

// Check dials host:port and classifies the outcome. A successful connection
// is closed immediately.
func (c *PortChecker) Check(ctx context.Context, host string, port int) domain.PortResult {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	start := time.Now()
	conn, err := c.Dialer.DialContext(ctx, "tcp", addr)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		return domain.PortResult{
			Port:      port,
			Reachable: false,
			ErrorKind: classifyDialError(err),
			Error:     err.Error(),
		}
	}
	_ = conn.Close()

	return domain.PortResult{
		Port:      port,
		Reachable: true,
		LatencyMS: &latency,
	}
}

func classifyDialError(err error) domain.PortErrorKind {
	if isTimeout(err) {
		return domain.PortErrTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.PortErrRefused
	}
	return domain.PortErrUnreachable
}
