// Package verify cross-checks a target against free third-party "is it up"
// services. Verdicts are advisory: a provider failure yields an unknown
// result and never fails the primary check.
package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is one external availability service. Check returns the provider's
// verdict (nil means unknown) with a short human detail; err is reported but
// never fatal to the caller.
type Provider interface {
	Name() string
	Check(ctx context.Context, host string) (up *bool, detail string, err error)
}

const providerBodyCap = 64 << 10

func boolp(v bool) *bool { return &v }

// NewProviders maps configured provider names onto implementations, keeping
// the configured order. Unknown names are skipped.
func NewProviders(names []string, client *http.Client) []Provider {
	var out []Provider
	for _, n := range names {
		switch n {
		case "downforeveryoneorjustme":
			out = append(out, &DownForEveryone{Client: client})
		case "isitdownrightnow":
			out = append(out, &IsItDownRightNow{Client: client})
		case "websiteplanet":
			out = append(out, &WebsitePlanet{Client: client})
		}
	}
	return out
}

// DownForEveryone asks downforeveryoneorjustme.com and sniffs its answer
// text. BaseURL is overridable for tests.
type DownForEveryone struct {
	Client  *http.Client
	BaseURL string
}

func (p *DownForEveryone) Name() string { return "downforeveryoneorjustme" }

func (p *DownForEveryone) Check(ctx context.Context, host string) (*bool, string, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://downforeveryoneorjustme.com"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/check?domain=%s", base, host), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, providerBodyCap))
	if err != nil {
		return nil, "", err
	}
	txt := strings.ToLower(string(body))
	switch {
	case strings.Contains(txt, "not just you"):
		return boolp(false), "site appears down", nil
	case strings.Contains(txt, "just you"):
		return boolp(true), "site appears up", nil
	default:
		return nil, "could not determine", nil
	}
}

// IsItDownRightNow approximates the service's probe: a HEAD against the bare
// host over plain HTTP, up iff the status is below 400.
type IsItDownRightNow struct {
	Client *http.Client
	// Endpoint replaces the probed URL when set, for tests.
	Endpoint string
}

func (p *IsItDownRightNow) Name() string { return "isitdownrightnow" }

func (p *IsItDownRightNow) Check(ctx context.Context, host string) (*bool, string, error) {
	target := p.Endpoint
	if target == "" {
		target = "http://" + host
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return boolp(false), "connection failed", nil
	}
	defer resp.Body.Close()

	up := resp.StatusCode < 400
	return boolp(up), fmt.Sprintf("status %d", resp.StatusCode), nil
}

// WebsitePlanet tries the host over https then http; up iff either protocol
// answers below 400.
type WebsitePlanet struct {
	Client *http.Client
	// Endpoints replaces the probed URLs when set, for tests.
	Endpoints []string
}

func (p *WebsitePlanet) Name() string { return "websiteplanet" }

func (p *WebsitePlanet) Check(ctx context.Context, host string) (*bool, string, error) {
	targets := p.Endpoints
	if len(targets) == 0 {
		targets = []string{"https://" + host, "http://" + host}
	}

	var details []string
	up := false
	for _, target := range targets {
		code, err := p.tryGet(ctx, target)
		if err != nil {
			details = append(details, fmt.Sprintf("%s: connection failed", target))
			continue
		}
		if code < 400 {
			up = true
		}
		details = append(details, fmt.Sprintf("%s: %d", target, code))
	}
	return boolp(up), strings.Join(details, ", "), nil
}

func (p *WebsitePlanet) tryGet(ctx context.Context, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, providerBodyCap))
	return resp.StatusCode, nil
}

// sharedClient builds the HTTP client all providers dial through.
func sharedClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
