package domain

import (
	"fmt"
	"strings"
	"time"
)

// httpAnswered reports whether the HTTP probe got a response below 500.
func httpAnswered(h HTTPResult) bool {
	return h.ErrorKind == "" && h.StatusCode != nil && *h.StatusCode < 500
}

// OverallUp derives the per-region up/down bit: DNS resolved, HTTP completed
// without a transport error, and the status code is below 500. Never set the
// field by hand.
func OverallUp(dns DNSResult, http HTTPResult) bool {
	return dns.Resolved && httpAnswered(http)
}

// DeriveStatus maps the three low-level checks onto the four-way verdict.
func DeriveStatus(dns DNSResult, port PortResult, http HTTPResult) Status {
	switch {
	case httpAnswered(http):
		return StatusUp
	case dns.Resolved && port.Reachable:
		return StatusPartial
	case dns.Resolved:
		return StatusDNSOnly
	default:
		return StatusDown
	}
}

// DeriveConsensus folds per-region verdicts into one: UP iff every region is
// up, DOWN iff none is, DEGRADED otherwise. A single region maps directly and
// never yields DEGRADED.
func DeriveConsensus(reports []RegionReport) Consensus {
	if len(reports) == 0 {
		return ConsensusDown
	}
	up := CountUp(reports)
	switch up {
	case len(reports):
		return ConsensusUp
	case 0:
		return ConsensusDown
	default:
		return ConsensusDegraded
	}
}

// CountUp returns how many regions reported OverallUp.
func CountUp(reports []RegionReport) int {
	n := 0
	for _, r := range reports {
		if r.OverallUp {
			n++
		}
	}
	return n
}

// Summarize renders the one-line per-region summary, e.g.
// "DNS OK; HTTP 200; Port open".
func Summarize(dns DNSResult, port PortResult, http HTTPResult) string {
	parts := make([]string, 0, 3)

	if dns.Resolved {
		parts = append(parts, "DNS OK")
	} else {
		parts = append(parts, "DNS fail")
	}

	switch {
	case http.ErrorKind != "":
		parts = append(parts, "HTTP "+strings.ToLower(string(http.ErrorKind)))
	case http.StatusCode != nil:
		parts = append(parts, fmt.Sprintf("HTTP %d", *http.StatusCode))
	default:
		parts = append(parts, "HTTP unknown")
	}

	if port.Reachable {
		parts = append(parts, "Port open")
	} else {
		parts = append(parts, "Port closed")
	}

	return strings.Join(parts, "; ")
}

// AggregateSummary renders the multi-region analysis line.
func AggregateSummary(reports []RegionReport) string {
	if len(reports) == 0 {
		return "No results to analyze"
	}
	up := CountUp(reports)
	switch up {
	case len(reports):
		return "Website accessible from all tested regions"
	case 0:
		return "Website appears down globally"
	default:
		return fmt.Sprintf("Mixed: %d/%d regions can reach it", up, len(reports))
	}
}

// FinalizeRegionReport fills the derived fields (OverallUp, Status, Summary)
// from the raw check results already present on the report.
func FinalizeRegionReport(r *RegionReport) {
	r.OverallUp = OverallUp(r.DNS, r.HTTP)
	r.Status = DeriveStatus(r.DNS, r.Port, r.HTTP)
	r.Summary = Summarize(r.DNS, r.Port, r.HTTP)
}

// SyntheticTimeoutReport stands in for a region that missed the orchestrator
// deadline: all-failure fields with TIMEOUT propagated, never dropped.
func SyntheticTimeoutReport(checkID, region string, req CheckRequest) RegionReport {
	return syntheticReport(checkID, region, req,
		DNSErrTimeout, PortErrTimeout, HTTPErrTimeout, "region deadline exceeded")
}

// SyntheticDispatchFailureReport stands in for a region whose remote
// invocation failed outright.
func SyntheticDispatchFailureReport(checkID, region string, req CheckRequest, detail string) RegionReport {
	return syntheticReport(checkID, region, req,
		DNSErrOther, PortErrUnreachable, HTTPErrOther, detail)
}

func syntheticReport(checkID, region string, req CheckRequest,
	dnsKind DNSErrorKind, portKind PortErrorKind, httpKind HTTPErrorKind, detail string) RegionReport {

	r := RegionReport{
		CheckID:   checkID,
		Region:    region,
		URL:       req.URL,
		DNS:       DNSResult{Resolved: false, ErrorKind: dnsKind, Error: detail},
		Port:      PortResult{Port: req.Port, Reachable: false, ErrorKind: portKind, Error: detail},
		HTTP:      HTTPResult{ErrorKind: httpKind, Error: detail, FinalURL: req.URL},
		CheckedAt: time.Now().UTC(),
	}
	FinalizeRegionReport(&r)
	return r
}
