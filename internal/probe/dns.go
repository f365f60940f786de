package probe

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

// ipResolver is the one-method seam over *net.Resolver so tests can fake
// NXDOMAIN and timeout behavior.
type ipResolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// DNSChecker resolves the target host with the OS resolver, bounded by
// Timeout.
type DNSChecker struct {
	Resolver ipResolver
	Timeout  time.Duration
}

func NewDNSChecker(timeout time.Duration) *DNSChecker {
	return &DNSChecker{Resolver: &net.Resolver{}, Timeout: timeout}
}

// Check resolves host and classifies the outcome. It never returns an error:
// an unresolvable name is a result, not a fault.
func (c *DNSChecker) Check(ctx context.Context, host string) domain.DNSResult {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	addrs, err := c.Resolver.LookupIPAddr(ctx, host)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		return domain.DNSResult{
			Resolved:  false,
			ErrorKind: classifyDNSError(err),
			Error:     err.Error(),
			LatencyMS: latency,
		}
	}

	ips := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP.String())
	}
	return domain.DNSResult{
		Resolved:  len(ips) > 0,
		Addresses: ips,
		LatencyMS: latency,
	}
}

func classifyDNSError(err error) domain.DNSErrorKind {
	var de *net.DNSError
	if errors.As(err, &de) {
		if de.IsNotFound {
			return domain.DNSErrNXDomain
		}
		if de.IsTimeout {
			return domain.DNSErrTimeout
		}
	}
	if isTimeout(err) {
		return domain.DNSErrTimeout
	}
	return domain.DNSErrOther
}
