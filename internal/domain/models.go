// Package domain holds the data model shared by the probing engine and its
// collaborators: requests, per-check results, per-region reports and the
// aggregated multi-region report.
package domain

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidURL is returned by NewCheckRequest for URLs the engine refuses to
// probe. It is the only fault that escapes the core; everything downstream is
// reported as data.
var ErrInvalidURL = errors.New("invalid url")

// DNSErrorKind classifies a failed resolution.
type DNSErrorKind string

const (
	DNSErrNXDomain DNSErrorKind = "NXDOMAIN"
	DNSErrTimeout  DNSErrorKind = "TIMEOUT"
	DNSErrOther    DNSErrorKind = "OTHER"
)

// PortErrorKind classifies a failed TCP connect.
type PortErrorKind string

const (
	PortErrRefused     PortErrorKind = "REFUSED"
	PortErrTimeout     PortErrorKind = "TIMEOUT"
	PortErrUnreachable PortErrorKind = "UNREACHABLE"
)

// HTTPErrorKind classifies a failed HTTP probe. A completed response with a
// non-2xx/3xx code is not an error at this layer; the code is reported verbatim.
type HTTPErrorKind string

const (
	HTTPErrTimeout          HTTPErrorKind = "TIMEOUT"
	HTTPErrTLS              HTTPErrorKind = "TLS_ERROR"
	HTTPErrConnRefused      HTTPErrorKind = "CONN_REFUSED"
	HTTPErrTooManyRedirects HTTPErrorKind = "TOO_MANY_REDIRECTS"
	HTTPErrOther            HTTPErrorKind = "OTHER"
)

// Status is the four-way per-region verdict.
type Status string

const (
	StatusUp      Status = "up"       // HTTP answered below 500
	StatusPartial Status = "partial"  // DNS and port fine, HTTP not
	StatusDNSOnly Status = "dns_only" // only resolution works
	StatusDown    Status = "down"
)

// Consensus is the aggregated multi-region verdict.
type Consensus string

const (
	ConsensusUp       Consensus = "up"
	ConsensusDown     Consensus = "down"
	ConsensusDegraded Consensus = "degraded"
)

// CheckRequest describes one on-demand probe. Build it with NewCheckRequest;
// Scheme, Host and Port are derived there and handlers treat the value as
// immutable.
type CheckRequest struct {
	URL       string   `json:"url"`
	Scheme    string   `json:"scheme"`
	Host      string   `json:"host"`
	Port      int      `json:"port"`
	Regions   []string `json:"regions,omitempty"`
	TimeoutMS int      `json:"timeout_ms,omitempty"`
}

// NewCheckRequest validates and normalizes a raw URL into a CheckRequest.
// A schemeless URL gets https:// prefixed; anything that is not http(s) with a
// host is rejected with ErrInvalidURL. regions entries are trimmed and empties
// dropped; the slice is copied so the request stays immutable for the caller.
func NewCheckRequest(rawURL string, regions []string, timeoutMS int) (CheckRequest, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return CheckRequest{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return CheckRequest{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return CheckRequest{}, fmt.Errorf("%w: scheme %q not supported", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return CheckRequest{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return CheckRequest{}, fmt.Errorf("%w: bad port %q", ErrInvalidURL, p)
		}
		port = n
	}

	var rs []string
	for _, r := range regions {
		if r = strings.TrimSpace(r); r != "" {
			rs = append(rs, r)
		}
	}
	if timeoutMS < 0 {
		timeoutMS = 0
	}

	return CheckRequest{
		URL:       u.String(),
		Scheme:    u.Scheme,
		Host:      u.Hostname(),
		Port:      port,
		Regions:   rs,
		TimeoutMS: timeoutMS,
	}, nil
}

// Timeout returns the caller-supplied per-region budget, or 0 when the server
// default should apply.
func (r CheckRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// HostPort returns the URL authority: the bare host on the scheme's default
// port, host:port otherwise.
func (r CheckRequest) HostPort() string {
	if (r.Scheme == "https" && r.Port == 443) || (r.Scheme == "http" && r.Port == 80) {
		return r.Host
	}
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// DNSResult is the outcome of resolving the target host.
type DNSResult struct {
	Resolved  bool         `json:"resolved"`
	Addresses []string     `json:"addresses,omitempty"`
	ErrorKind DNSErrorKind `json:"error_kind,omitempty"`
	Error     string       `json:"error,omitempty"`
	LatencyMS float64      `json:"latency_ms"`
}

// PortResult is the outcome of one TCP connect attempt.
type PortResult struct {
	Port      int           `json:"port"`
	Reachable bool          `json:"reachable"`
	LatencyMS *float64      `json:"latency_ms,omitempty"`
	ErrorKind PortErrorKind `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// HTTPResult is the outcome of the HTTP(S) probe. StatusCode is nil when no
// response was received.
type HTTPResult struct {
	StatusCode    *int          `json:"status_code,omitempty"`
	LatencyMS     float64       `json:"latency_ms"`
	ErrorKind     HTTPErrorKind `json:"error_kind,omitempty"`
	Error         string        `json:"error,omitempty"`
	FinalURL      string        `json:"final_url,omitempty"`
	Redirects     int           `json:"redirects,omitempty"`
	ContentLength int64         `json:"content_length,omitempty"`
}

// ExternalCheckResult is one advisory third-party verdict. Up is nil when the
// provider could not be reached or gave no answer.
type ExternalCheckResult struct {
	Provider  string    `json:"provider"`
	Up        *bool     `json:"up"`
	CheckedAt time.Time `json:"checked_at"`
	CacheHit  bool      `json:"cache_hit"`
	Detail    string    `json:"detail,omitempty"`
}

// RegionReport is the complete single-region diagnostic.
type RegionReport struct {
	CheckID    string                `json:"check_id"`
	Region     string                `json:"region"`
	URL        string                `json:"url"`
	DNS        DNSResult             `json:"dns"`
	Port       PortResult            `json:"port"`
	HTTP       HTTPResult            `json:"http"`
	External   []ExternalCheckResult `json:"external_checks,omitempty"`
	OverallUp  bool                  `json:"overall_up"`
	Status     Status                `json:"status"`
	Summary    string                `json:"summary"`
	DurationMS float64               `json:"duration_ms"`
	CheckedAt  time.Time             `json:"checked_at"`
}

// AggregatedReport merges per-region reports for one request. RegionReports
// holds exactly one entry per requested region, request order preserved,
// regions that never answered included as synthetic failures.
type AggregatedReport struct {
	CheckID       string         `json:"check_id"`
	Request       CheckRequest   `json:"request"`
	RegionReports []RegionReport `json:"region_reports"`
	Consensus     Consensus      `json:"consensus"`
	RegionsUp     int            `json:"regions_up"`
	Summary       string         `json:"summary"`
	DurationMS    float64        `json:"duration_ms"`
	CheckedAt     time.Time      `json:"checked_at"`
}
