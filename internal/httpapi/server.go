// Package httpapi is the transport shell around the probing engine: it
// parses check requests, invokes the runner or orchestrator and renders
// their reports as JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
	"github.com/ApurboBarua17/Website-status-checker/internal/httpapi/middleware"
	"github.com/ApurboBarua17/Website-status-checker/internal/metrics"
)

// singleChecker runs one check from the current region.
type singleChecker interface {
	Run(ctx context.Context, req domain.CheckRequest) domain.RegionReport
}

// multiChecker fans one check out across regions.
type multiChecker interface {
	Run(ctx context.Context, req domain.CheckRequest) domain.AggregatedReport
}

type Server struct {
	Logger       *zap.Logger
	Checker      singleChecker
	Orchestrator multiChecker

	AllowedOrigins []string
	RateRPM        int
	RateBurst      int
	Keys           middleware.Keys
}

func NewServer(l *zap.Logger, checker singleChecker, orchestrator multiChecker) *Server {
	return &Server{Logger: l, Checker: checker, Orchestrator: orchestrator}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	if len(s.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}
	r.Use(middleware.RateLimit(s.RateRPM, s.RateBurst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAny(s.Keys))
		r.Post("/check", s.handleCheck)
		r.Post("/check-multi", s.handleCheckMulti)
	})

	r.With(middleware.RequireAdmin(s.Keys)).Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}

type checkPayload struct {
	URL       string   `json:"url"`
	Regions   []string `json:"regions,omitempty"`
	TimeoutMS int      `json:"timeout_ms,omitempty"`
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, withRegions bool) (domain.CheckRequest, bool) {
	var p checkPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return domain.CheckRequest{}, false
	}
	regions := p.Regions
	if !withRegions {
		regions = nil
	}
	req, err := domain.NewCheckRequest(p.URL, regions, p.TimeoutMS)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return domain.CheckRequest{}, false
	}
	return req, true
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r, false)
	if !ok {
		return
	}

	report := s.Checker.Run(r.Context(), req)

	s.Logger.Info("check_served",
		zap.String("check_id", report.CheckID),
		zap.String("url", req.URL),
		zap.String("status", string(report.Status)),
	)
	writeJSON(w, report)
}

func (s *Server) handleCheckMulti(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r, true)
	if !ok {
		return
	}

	report := s.Orchestrator.Run(r.Context(), req)

	s.Logger.Info("check_multi_served",
		zap.String("check_id", report.CheckID),
		zap.String("url", req.URL),
		zap.String("consensus", string(report.Consensus)),
		zap.Int("regions", len(report.RegionReports)),
	)
	writeJSON(w, report)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
