package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ApurboBarua17/Website-status-checker/internal/cache"
	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
	"github.com/ApurboBarua17/Website-status-checker/internal/metrics"
)

// Verifier fans a target out to the configured providers, caching verdicts
// by (url, provider) so repeated checks within the TTL do not hammer the
// free services.
type Verifier struct {
	Cache              cache.Store
	Providers          []Provider
	TTL                time.Duration
	PerProviderTimeout time.Duration
	OverallTimeout     time.Duration
	Logger             *zap.Logger

	sf singleflight.Group
}

// NewVerifier wires the named providers behind one shared HTTP client.
func NewVerifier(store cache.Store, providerNames []string,
	ttl, perProvider, overall time.Duration, log *zap.Logger) *Verifier {
	return &Verifier{
		Cache:              store,
		Providers:          NewProviders(providerNames, sharedClient(perProvider)),
		TTL:                ttl,
		PerProviderTimeout: perProvider,
		OverallTimeout:     overall,
		Logger:             log,
	}
}

// Check runs every configured provider concurrently, bounded by the overall
// timeout, and returns one result per provider in configured order. It never
// returns an error: a provider that fails or times out yields Up=nil.
func (v *Verifier) Check(ctx context.Context, req domain.CheckRequest) []domain.ExternalCheckResult {
	if len(v.Providers) == 0 {
		return nil
	}
	if v.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.OverallTimeout)
		defer cancel()
	}

	results := make([]domain.ExternalCheckResult, len(v.Providers))
	errs := make([]error, len(v.Providers))

	var wg sync.WaitGroup
	for i, p := range v.Providers {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = v.checkProvider(ctx, p, req)
		}()
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		v.Logger.Warn("external_provider_error",
			zap.String("url", req.URL),
			zap.Error(err),
		)
	}
	return results
}

func (v *Verifier) checkProvider(ctx context.Context, p Provider, req domain.CheckRequest) (domain.ExternalCheckResult, error) {
	key := cache.Key("external:"+p.Name(), req.URL)

	if e, ok := v.Cache.Get(ctx, key); ok {
		var cached domain.ExternalCheckResult
		if err := json.Unmarshal(e.Value, &cached); err == nil {
			cached.CacheHit = true
			metrics.ObserveExternalCache(p.Name(), true)
			return cached, nil
		}
		// corrupt entry; fall through to a fresh call
	}
	metrics.ObserveExternalCache(p.Name(), false)

	// Concurrent misses for the same key share one provider call.
	val, _, _ := v.sf.Do(key, func() (any, error) {
		return v.callProvider(ctx, p, req), nil
	})
	res := val.(domain.ExternalCheckResult)

	if res.Up != nil {
		if raw, err := json.Marshal(res); err == nil {
			if err := v.Cache.Put(ctx, key, cache.Entry{
				Value:     raw,
				ExpiresAt: time.Now().Add(v.TTL),
			}); err != nil {
				v.Logger.Warn("external_cache_put_error",
					zap.String("provider", p.Name()), zap.Error(err))
			}
		}
	}

	var callErr error
	if res.Up == nil && res.Detail != "" {
		callErr = fmt.Errorf("%s: %s", p.Name(), res.Detail)
	}
	return res, callErr
}

func (v *Verifier) callProvider(ctx context.Context, p Provider, req domain.CheckRequest) domain.ExternalCheckResult {
	if v.PerProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.PerProviderTimeout)
		defer cancel()
	}

	up, detail, err := p.Check(ctx, req.Host)
	res := domain.ExternalCheckResult{
		Provider:  p.Name(),
		Up:        up,
		CheckedAt: time.Now().UTC(),
		Detail:    detail,
	}
	if err != nil {
		res.Up = nil
		res.Detail = err.Error()
	}
	return res
}
