// Package metrics holds the service's Prometheus collectors. Probe and
// verifier code record through the helpers here; the scrape endpoint is
// mounted by the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statuschecker_checks_total",
		Help: "Completed single-region checks by verdict.",
	}, []string{"region", "status"})

	probeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statuschecker_probe_duration_seconds",
		Help:    "Wall-clock duration of the low-level probes.",
		Buckets: prometheus.DefBuckets,
	}, []string{"probe"})

	externalCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statuschecker_external_cache_total",
		Help: "External verifier cache lookups by outcome.",
	}, []string{"provider", "outcome"})
)

// ObserveCheck records one finished region check.
func ObserveCheck(region, status string) {
	checksTotal.WithLabelValues(region, status).Inc()
}

// ObserveProbe records one probe's latency, given in milliseconds.
func ObserveProbe(probe string, latencyMS float64) {
	probeDuration.WithLabelValues(probe).Observe(latencyMS / 1000)
}

// ObserveExternalCache records a cache hit or miss for a provider lookup.
func ObserveExternalCache(provider string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	externalCacheTotal.WithLabelValues(provider, outcome).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
