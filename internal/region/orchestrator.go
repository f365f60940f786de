package region

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

// localRunner is what the orchestrator needs from the in-process Runner.
type localRunner interface {
	Run(ctx context.Context, req domain.CheckRequest) domain.RegionReport
}

// Orchestrator fans one request out across regions and merges the per-region
// reports into a consensus verdict. The region this process runs in is
// checked locally; every other region goes through the Dispatcher.
type Orchestrator struct {
	Region         string
	DefaultRegions []string
	Local          localRunner
	Remote         Dispatcher
	Deadline       time.Duration
	MaxConcurrent  int
	Logger         *zap.Logger
}

// Run produces the aggregated report. It always returns one RegionReport per
// requested region, request order preserved: a region that misses the overall
// deadline or fails to dispatch gets a synthetic all-failure entry.
func (o *Orchestrator) Run(ctx context.Context, req domain.CheckRequest) domain.AggregatedReport {
	regions := req.Regions
	if len(regions) == 0 {
		regions = o.DefaultRegions
	}
	if len(regions) == 0 {
		regions = []string{o.Region}
	}

	checkID := uuid.NewString()
	start := time.Now()

	if o.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Deadline)
		defer cancel()
	}

	o.Logger.Info("multi_check_dispatched",
		zap.String("check_id", checkID),
		zap.String("url", req.URL),
		zap.Strings("regions", regions),
	)

	reports := make([]domain.RegionReport, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	if o.MaxConcurrent > 0 {
		g.SetLimit(o.MaxConcurrent)
	}
	for i, reg := range regions {
		i, reg := i, reg
		g.Go(func() error {
			reports[i] = o.runRegion(gctx, checkID, reg, req)
			return nil
		})
	}
	_ = g.Wait()

	agg := domain.AggregatedReport{
		CheckID:       checkID,
		Request:       req,
		RegionReports: reports,
		Consensus:     domain.DeriveConsensus(reports),
		RegionsUp:     domain.CountUp(reports),
		Summary:       domain.AggregateSummary(reports),
		DurationMS:    time.Since(start).Seconds() * 1000,
		CheckedAt:     start.UTC(),
	}

	o.Logger.Info("multi_check_done",
		zap.String("check_id", checkID),
		zap.String("url", req.URL),
		zap.String("consensus", string(agg.Consensus)),
		zap.Int("regions_up", agg.RegionsUp),
		zap.Int("regions_total", len(reports)),
		zap.Float64("duration_ms", agg.DurationMS),
	)
	return agg
}

type regionOutcome struct {
	report domain.RegionReport
	err    error
}

// runRegion executes one region's check, local or remote, and converts a
// deadline miss or dispatch failure into a synthetic report. The probe
// goroutine is abandoned once the deadline fires; cancellation of its work
// is best effort through the context.
func (o *Orchestrator) runRegion(ctx context.Context, checkID, reg string, req domain.CheckRequest) domain.RegionReport {
	done := make(chan regionOutcome, 1)
	go func() {
		if reg == o.Region {
			done <- regionOutcome{report: o.Local.Run(ctx, req)}
			return
		}
		if o.Remote == nil {
			done <- regionOutcome{err: fmt.Errorf("region %s: no remote dispatcher configured", reg)}
			return
		}
		rep, err := o.Remote.Invoke(ctx, reg, req)
		done <- regionOutcome{report: rep, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			o.Logger.Warn("region_dispatch_failed",
				zap.String("check_id", checkID),
				zap.String("region", reg),
				zap.Error(out.err),
			)
			return domain.SyntheticDispatchFailureReport(checkID, reg, req, out.err.Error())
		}
		return out.report
	case <-ctx.Done():
		o.Logger.Warn("region_timeout",
			zap.String("check_id", checkID),
			zap.String("region", reg),
		)
		return domain.SyntheticTimeoutReport(checkID, reg, req)
	}
}
