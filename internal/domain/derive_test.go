package domain

import (
	"fmt"
	"strings"
	"testing"
)

func intp(v int) *int { return &v }

func reportUp(up bool) RegionReport {
	return RegionReport{OverallUp: up}
}

func TestDeriveConsensus_AllBoolCombos(t *testing.T) {
	// Exhaustive over N regions for N in {1,2,3}: UP iff all true,
	// DOWN iff all false, DEGRADED otherwise.
	for n := 1; n <= 3; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			reports := make([]RegionReport, n)
			ups := 0
			for i := 0; i < n; i++ {
				up := mask&(1<<i) != 0
				reports[i] = reportUp(up)
				if up {
					ups++
				}
			}

			want := ConsensusDegraded
			if ups == n {
				want = ConsensusUp
			} else if ups == 0 {
				want = ConsensusDown
			}

			got := DeriveConsensus(reports)
			if got != want {
				t.Fatalf("n=%d mask=%b: want %s, got %s", n, mask, want, got)
			}
			if CountUp(reports) != ups {
				t.Fatalf("n=%d mask=%b: CountUp want %d, got %d", n, mask, ups, CountUp(reports))
			}
		}
	}
}

func TestDeriveConsensus_SingleRegionNeverDegraded(t *testing.T) {
	if got := DeriveConsensus([]RegionReport{reportUp(true)}); got != ConsensusUp {
		t.Fatalf("single up region: want up, got %s", got)
	}
	if got := DeriveConsensus([]RegionReport{reportUp(false)}); got != ConsensusDown {
		t.Fatalf("single down region: want down, got %s", got)
	}
}

func TestOverallUp(t *testing.T) {
	resolved := DNSResult{Resolved: true}
	unresolved := DNSResult{Resolved: false, ErrorKind: DNSErrNXDomain}

	cases := []struct {
		name string
		dns  DNSResult
		http HTTPResult
		want bool
	}{
		{"ok_200", resolved, HTTPResult{StatusCode: intp(200)}, true},
		{"ok_404_still_up", resolved, HTTPResult{StatusCode: intp(404)}, true},
		{"status_499_up", resolved, HTTPResult{StatusCode: intp(499)}, true},
		{"status_500_down", resolved, HTTPResult{StatusCode: intp(500)}, false},
		{"status_503_down", resolved, HTTPResult{StatusCode: intp(503)}, false},
		{"http_timeout_down", resolved, HTTPResult{ErrorKind: HTTPErrTimeout}, false},
		{"tls_error_down", resolved, HTTPResult{ErrorKind: HTTPErrTLS}, false},
		{"no_status_no_error_down", resolved, HTTPResult{}, false},
		{"dns_failed_down", unresolved, HTTPResult{StatusCode: intp(200)}, false},
	}
	for _, tc := range cases {
		if got := OverallUp(tc.dns, tc.http); got != tc.want {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	resolved := DNSResult{Resolved: true}
	unresolved := DNSResult{Resolved: false}
	open := PortResult{Reachable: true}
	closed := PortResult{Reachable: false, ErrorKind: PortErrRefused}

	cases := []struct {
		name string
		dns  DNSResult
		port PortResult
		http HTTPResult
		want Status
	}{
		{"http_ok_up", resolved, closed, HTTPResult{StatusCode: intp(200)}, StatusUp},
		{"dns_port_ok_partial", resolved, open, HTTPResult{ErrorKind: HTTPErrTimeout}, StatusPartial},
		{"dns_only", resolved, closed, HTTPResult{ErrorKind: HTTPErrConnRefused}, StatusDNSOnly},
		{"all_fail_down", unresolved, closed, HTTPResult{ErrorKind: HTTPErrOther}, StatusDown},
		{"server_error_with_open_port_partial", resolved, open, HTTPResult{StatusCode: intp(503)}, StatusPartial},
	}
	for _, tc := range cases {
		if got := DeriveStatus(tc.dns, tc.port, tc.http); got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	lat := 4.2
	got := Summarize(
		DNSResult{Resolved: true},
		PortResult{Reachable: true, LatencyMS: &lat},
		HTTPResult{StatusCode: intp(200)},
	)
	if got != "DNS OK; HTTP 200; Port open" {
		t.Fatalf("unexpected summary: %q", got)
	}

	got = Summarize(
		DNSResult{Resolved: false, ErrorKind: DNSErrNXDomain},
		PortResult{ErrorKind: PortErrUnreachable},
		HTTPResult{ErrorKind: HTTPErrTimeout},
	)
	if got != "DNS fail; HTTP timeout; Port closed" {
		t.Fatalf("unexpected failure summary: %q", got)
	}
}

func TestAggregateSummary(t *testing.T) {
	all := []RegionReport{reportUp(true), reportUp(true)}
	if s := AggregateSummary(all); s != "Website accessible from all tested regions" {
		t.Fatalf("all up: %q", s)
	}
	none := []RegionReport{reportUp(false), reportUp(false)}
	if s := AggregateSummary(none); s != "Website appears down globally" {
		t.Fatalf("none up: %q", s)
	}
	mixed := []RegionReport{reportUp(true), reportUp(false), reportUp(false)}
	if s := AggregateSummary(mixed); s != "Mixed: 1/3 regions can reach it" {
		t.Fatalf("mixed: %q", s)
	}
}

func TestSyntheticReports_AllFailureFields(t *testing.T) {
	req, err := NewCheckRequest("https://example.com", []string{"eu-west-1"}, 0)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	rt := SyntheticTimeoutReport("c1", "eu-west-1", req)
	if rt.OverallUp {
		t.Fatalf("timeout report must not be up: %+v", rt)
	}
	if rt.DNS.ErrorKind != DNSErrTimeout || rt.Port.ErrorKind != PortErrTimeout || rt.HTTP.ErrorKind != HTTPErrTimeout {
		t.Fatalf("timeout kinds not propagated: %+v", rt)
	}
	if rt.Status != StatusDown {
		t.Fatalf("want status down, got %s", rt.Status)
	}
	if rt.Port.Port != 443 {
		t.Fatalf("want derived port 443, got %d", rt.Port.Port)
	}

	rd := SyntheticDispatchFailureReport("c1", "eu-west-1", req, "dial failed")
	if rd.OverallUp || rd.HTTP.Error != "dial failed" {
		t.Fatalf("dispatch failure report wrong: %+v", rd)
	}
	if !strings.Contains(rd.Summary, "DNS fail") {
		t.Fatalf("expected failing summary, got %q", rd.Summary)
	}
}

func TestFinalizeRegionReport_Derivations(t *testing.T) {
	lat := 12.0
	r := RegionReport{
		Region: "local",
		DNS:    DNSResult{Resolved: true, Addresses: []string{"93.184.216.34"}},
		Port:   PortResult{Port: 443, Reachable: true, LatencyMS: &lat},
		HTTP:   HTTPResult{StatusCode: intp(200), LatencyMS: 50},
	}
	FinalizeRegionReport(&r)
	if !r.OverallUp || r.Status != StatusUp {
		t.Fatalf("want up/up, got %v/%s", r.OverallUp, r.Status)
	}
	if want := fmt.Sprintf("DNS OK; HTTP %d; Port open", 200); r.Summary != want {
		t.Fatalf("summary: want %q, got %q", want, r.Summary)
	}
}
