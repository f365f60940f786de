package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

const (
	defaultUserAgent = "Website-Status-Checker/1.0"
	acceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	// how much body we are willing to read to measure size when the
	// server sends no Content-Length
	bodyReadCap = 1 << 20
)

// errTooManyRedirects marks a redirect chain past the configured bound.
var errTooManyRedirects = errors.New("too many redirects")

// HTTPChecker issues the HTTP(S) probe. A completed response with any status
// code is a success at this layer; only transport failures become error kinds.
type HTTPChecker struct {
	Client       *http.Client
	MaxRedirects int
	UserAgent    string
}

func NewHTTPChecker(timeout time.Duration, maxRedirects int) *HTTPChecker {
	if maxRedirects <= 0 {
		maxRedirects = 5
	}
	return &HTTPChecker{
		Client:       &http.Client{Timeout: timeout},
		MaxRedirects: maxRedirects,
		UserAgent:    defaultUserAgent,
	}
}

// Check GETs target, following up to MaxRedirects redirects. Latency is wall
// clock from request start until response headers are complete.
func (c *HTTPChecker) Check(ctx context.Context, target string) domain.HTTPResult {
	// Per-call client copy so the redirect hook can record this probe's
	// chain without racing concurrent checks.
	redirects := 0
	lastURL := target
	client := *c.Client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		lastURL = req.URL.String()
		redirects = len(via)
		if len(via) >= c.MaxRedirects {
			return errTooManyRedirects
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.HTTPResult{
			ErrorKind: domain.HTTPErrOther,
			Error:     err.Error(),
			FinalURL:  target,
		}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		return domain.HTTPResult{
			LatencyMS: latency,
			ErrorKind: classifyHTTPError(err),
			Error:     err.Error(),
			FinalURL:  lastURL,
			Redirects: redirects,
		}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	size := resp.ContentLength
	if size < 0 {
		n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, bodyReadCap))
		size = n
	}

	return domain.HTTPResult{
		StatusCode:    &code,
		LatencyMS:     latency,
		FinalURL:      resp.Request.URL.String(),
		Redirects:     redirects,
		ContentLength: size,
	}
}

func classifyHTTPError(err error) domain.HTTPErrorKind {
	switch {
	case errors.Is(err, errTooManyRedirects):
		return domain.HTTPErrTooManyRedirects
	case isTimeout(err):
		return domain.HTTPErrTimeout
	case isTLSError(err):
		return domain.HTTPErrTLS
	case errors.Is(err, syscall.ECONNREFUSED):
		return domain.HTTPErrConnRefused
	default:
		return domain.HTTPErrOther
	}
}

func isTLSError(err error) bool {
	var (
		cve *tls.CertificateVerificationError
		rhe tls.RecordHeaderError
		uae x509.UnknownAuthorityError
		hne x509.HostnameError
		cie x509.CertificateInvalidError
	)
	if errors.As(err, &cve) || errors.As(err, &rhe) ||
		errors.As(err, &uae) || errors.As(err, &hne) || errors.As(err, &cie) {
		return true
	}
	return strings.Contains(err.Error(), "tls:")
}
