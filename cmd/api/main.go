package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/ApurboBarua17/Website-status-checker/internal/cache"
	cachemem "github.com/ApurboBarua17/Website-status-checker/internal/cache/memory"
	cachepg "github.com/ApurboBarua17/Website-status-checker/internal/cache/postgres"
	"github.com/ApurboBarua17/Website-status-checker/internal/config"
	"github.com/ApurboBarua17/Website-status-checker/internal/httpapi"
	"github.com/ApurboBarua17/Website-status-checker/internal/httpapi/middleware"
	"github.com/ApurboBarua17/Website-status-checker/internal/logging"
	"github.com/ApurboBarua17/Website-status-checker/internal/probe"
	"github.com/ApurboBarua17/Website-status-checker/internal/region"
	"github.com/ApurboBarua17/Website-status-checker/internal/verify"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var store cache.Store
	if cfg.DatabaseURL != "" {
		pg, err := cachepg.New(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("cache_connect_failed", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("cache_schema_failed", zap.Error(err))
		}
		store = pg
		logger.Info("cache_backend", zap.String("kind", "postgres"))
	} else {
		store = cachemem.New()
		logger.Info("cache_backend", zap.String("kind", "memory"))
	}

	verifier := verify.NewVerifier(store, cfg.ExternalProviders,
		cfg.ExternalCacheTTL, cfg.ExternalTimeout, cfg.ExternalOverallTimeout, logger)

	runner := &region.Runner{
		Region:   cfg.Region,
		DNS:      probe.NewDNSChecker(cfg.DNSTimeout),
		Port:     probe.NewPortChecker(cfg.PortTimeout),
		HTTP:     probe.NewHTTPChecker(cfg.HTTPTimeout, cfg.MaxRedirects),
		External: verifier,
		Timeout:  cfg.RegionTimeout,
		Logger:   logger,
	}

	orchestrator := &region.Orchestrator{
		Region:         cfg.Region,
		DefaultRegions: cfg.DefaultRegions,
		Local:          runner,
		Remote:         region.NewHTTPDispatcher(cfg.EndpointTemplate, cfg.RegionAPIKey, cfg.RegionTimeout),
		Deadline:       cfg.MultiTimeout,
		MaxConcurrent:  cfg.MaxConcurrentRegions,
		Logger:         logger,
	}

	api := httpapi.NewServer(logger, runner, orchestrator)
	api.AllowedOrigins = cfg.AllowedOrigins
	api.RateRPM = cfg.PublicRPM
	api.RateBurst = cfg.PublicBurst
	api.Keys = middleware.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("region", cfg.Region),
	)
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		log.Fatal(err)
	}
}
