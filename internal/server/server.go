// Package server exposes the screening engine over a local HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twd38/alamo-app-sub003/pkg/analytics"
	"github.com/twd38/alamo-app-sub003/pkg/catalog"
	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/validation"
)

const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Project is screened by GET /api/project with its own assumptions.
	// Optional.
	Project *site.Project
	// Catalog backs GET /api/schemes and scheme selection. Defaults to
	// catalog.Default().
	Catalog     *catalog.Catalog
	Assumptions site.FinanceAssumptions
	Workers     int
	Port        int
	Logger      *zap.Logger
}

// Server is the local API server.
type Server struct {
	project     *site.Project
	catalog     *catalog.Catalog
	assumptions site.FinanceAssumptions
	screener    *pipeline.Screener
	port        int
	logger      *zap.Logger
	metrics     *metrics
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	return &Server{
		project:     opts.Project,
		catalog:     cat,
		assumptions: opts.Assumptions,
		screener:    &pipeline.Screener{Workers: opts.Workers, Logger: logger},
		port:        opts.Port,
		logger:      logger,
		metrics:     newMetrics(),
	}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/schemes", s.handleSchemes)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/project", s.handleProject)
	mux.Handle("GET /metrics", s.metrics.handler())

	return s.logRequests(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.String("addr", "http://localhost"+srv.Addr),
			zap.String("catalog", s.catalog.Version()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.observeRequest(r, rec.status)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.catalog.Version(),
		"schemes": s.catalog.Schemes(),
	})
}

// handleValidate checks a project document. Inline schemes replace the
// server catalog; the catalog file field is ignored.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	p := site.Project{Assumptions: s.assumptions}
	if !decode(w, r, &p) {
		return
	}

	schemes := s.catalog.Schemes()
	if len(p.Schemes) > 0 {
		schemes = p.Schemes
	}
	writeJSON(w, http.StatusOK, validation.ValidateProject(&p, schemes))
}

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	Lot     site.Lot `json:"lot"`
	Schemes []string `json:"schemes,omitempty"`
	// Assumptions are decoded over the server's assumptions: omitted fields
	// keep the server value, explicit values (zero included) replace it.
	Assumptions *site.FinanceAssumptions `json:"assumptions,omitempty"`
}

// EvaluateResponse is the body returned by POST /api/evaluate.
type EvaluateResponse struct {
	LotID     string              `json:"lot_id"`
	Scenarios []pipeline.Scenario `json:"scenarios"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	// Decoded in place, so omitted fields keep the server's values.
	a := s.assumptions
	req := EvaluateRequest{Assumptions: &a}
	if !decode(w, r, &req) {
		return
	}
	if req.Lot.ID == "" {
		req.Lot.ID = uuid.NewString()
	}

	schemes, err := s.catalog.Select(req.Schemes...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report := validation.ValidateLot(req.Lot)
	report.Merge(validation.ValidateAssumptions(a))
	if !report.Valid {
		writeJSON(w, http.StatusBadRequest, report)
		return
	}

	scenarios := pipeline.EvaluateChecked(req.Lot, schemes, a)
	s.metrics.observeScenarios(scenarios)

	writeJSON(w, http.StatusOK, EvaluateResponse{
		LotID:     req.Lot.ID,
		Scenarios: pipeline.Rank(scenarios),
	})
}

// ProjectResponse is the body returned by GET /api/project.
type ProjectResponse struct {
	Summary analytics.Summary    `json:"summary"`
	Results []pipeline.LotResult `json:"results"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	if s.project == nil {
		writeError(w, http.StatusNotFound, errors.New("no project loaded"))
		return
	}

	results, err := s.screener.Screen(r.Context(), s.project.Lots, s.catalog.Schemes(), s.project.Assumptions)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	for _, lr := range results {
		s.metrics.observeScenarios(lr.Scenarios)
	}
	writeJSON(w, http.StatusOK, ProjectResponse{
		Summary: pipeline.Summarize(results),
		Results: results,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
