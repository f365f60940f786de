package region

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

// Dispatcher invokes a check in another region and returns its report. The
// orchestrator substitutes a synthetic failure report when Invoke errors.
type Dispatcher interface {
	Invoke(ctx context.Context, region string, req domain.CheckRequest) (domain.RegionReport, error)
}

// HTTPDispatcher calls a sibling deployment of this service in the target
// region. EndpointTemplate carries one %s for the region, e.g.
// "https://checker-%s.example.com".
type HTTPDispatcher struct {
	EndpointTemplate string
	APIKey           string
	Client           *http.Client
}

func NewHTTPDispatcher(endpointTemplate, apiKey string, timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		EndpointTemplate: endpointTemplate,
		APIKey:           apiKey,
		Client:           &http.Client{Timeout: timeout},
	}
}

type dispatchPayload struct {
	URL       string `json:"url"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
}

func (d *HTTPDispatcher) Invoke(ctx context.Context, region string, req domain.CheckRequest) (domain.RegionReport, error) {
	if d.EndpointTemplate == "" {
		return domain.RegionReport{}, fmt.Errorf("region %s: no endpoint template configured", region)
	}
	endpoint := fmt.Sprintf(d.EndpointTemplate, region) + "/check"

	body, _ := json.Marshal(dispatchPayload{URL: req.URL, TimeoutMS: req.TimeoutMS})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.RegionReport{}, fmt.Errorf("region %s: %w", region, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.APIKey != "" {
		httpReq.Header.Set("X-API-Key", d.APIKey)
	}

	resp, err := d.Client.Do(httpReq)
	if err != nil {
		return domain.RegionReport{}, fmt.Errorf("region %s: %w", region, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.RegionReport{}, fmt.Errorf("region %s: endpoint returned %s", region, resp.Status)
	}

	var report domain.RegionReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return domain.RegionReport{}, fmt.Errorf("region %s: decode report: %w", region, err)
	}
	if report.Region == "" {
		report.Region = region
	}
	return report, nil
}

var _ Dispatcher = (*HTTPDispatcher)(nil)
