// Package region composes the low-level probes into complete checks: the
// Runner produces one region's diagnostic, the Orchestrator fans a request
// out across regions and merges the verdicts.
package region

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
	"github.com/ApurboBarua17/Website-status-checker/internal/metrics"
)

// Collaborator seams, one per probe, so tests can count calls and fake
// outcomes.
type (
	DNSProber interface {
		Check(ctx context.Context, host string) domain.DNSResult
	}
	PortProber interface {
		Check(ctx context.Context, host string, port int) domain.PortResult
	}
	HTTPProber interface {
		Check(ctx context.Context, target string) domain.HTTPResult
	}
	ExternalVerifier interface {
		Check(ctx context.Context, req domain.CheckRequest) []domain.ExternalCheckResult
	}
)

// Runner performs one complete check from the current region: DNS first,
// then port, HTTP and external verification concurrently.
type Runner struct {
	Region   string
	DNS      DNSProber
	Port     PortProber
	HTTP     HTTPProber
	External ExternalVerifier
	Timeout  time.Duration // per-region budget when the request names none
	Logger   *zap.Logger
}

// Run executes the check. It always completes: every probe classifies its
// own failure, so the report never carries a Go error.
func (r *Runner) Run(ctx context.Context, req domain.CheckRequest) domain.RegionReport {
	budget := r.Timeout
	if t := req.Timeout(); t > 0 && (budget == 0 || t < budget) {
		budget = t
	}
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	start := time.Now()
	report := domain.RegionReport{
		CheckID:   uuid.NewString(),
		Region:    r.Region,
		URL:       req.URL,
		CheckedAt: start.UTC(),
	}

	// DNS is a prerequisite: the other local probes are pointless against
	// an unresolved host.
	report.DNS = r.DNS.Check(ctx, req.Host)
	metrics.ObserveProbe("dns", report.DNS.LatencyMS)

	var wg sync.WaitGroup
	if report.DNS.Resolved {
		wg.Add(2)
		go func() {
			defer wg.Done()
			report.Port = r.Port.Check(ctx, req.Host, req.Port)
			if report.Port.LatencyMS != nil {
				metrics.ObserveProbe("port", *report.Port.LatencyMS)
			}
		}()
		go func() {
			defer wg.Done()
			report.HTTP = r.HTTP.Check(ctx, req.URL)
			metrics.ObserveProbe("http", report.HTTP.LatencyMS)
		}()
	} else {
		report.Port, report.HTTP = skippedResults(req)
	}

	// External verification asks third parties about the target, not the
	// local resolver, so it runs regardless of the DNS outcome.
	if r.External != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.External = r.External.Check(ctx, req)
		}()
	}
	wg.Wait()

	report.DurationMS = time.Since(start).Seconds() * 1000
	domain.FinalizeRegionReport(&report)
	metrics.ObserveCheck(r.Region, string(report.Status))

	r.Logger.Info("check_done",
		zap.String("check_id", report.CheckID),
		zap.String("region", r.Region),
		zap.String("url", req.URL),
		zap.String("status", string(report.Status)),
		zap.Bool("overall_up", report.OverallUp),
		zap.Float64("duration_ms", report.DurationMS),
	)
	return report
}

// skippedResults marks port and HTTP as not attempted after a resolution
// failure.
func skippedResults(req domain.CheckRequest) (domain.PortResult, domain.HTTPResult) {
	const detail = "skipped: dns resolution failed"
	return domain.PortResult{
			Port:      req.Port,
			Reachable: false,
			ErrorKind: domain.PortErrUnreachable,
			Error:     detail,
		}, domain.HTTPResult{
			ErrorKind: domain.HTTPErrOther,
			Error:     detail,
			FinalURL:  req.URL,
		}
}
