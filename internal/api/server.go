// Package api exposes the engine over HTTP: research runs streamed as SSE or
// websocket events, stored reports, topic history, health and metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/scribehq/scribe/internal/log"
	"github.com/scribehq/scribe/pkg/engine"
)

// Server serves the HTTP API for one engine.
type Server struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewServer creates a Server around an engine.
func NewServer(e *engine.Engine) *Server {
	return &Server{
		engine: e,
		logger: log.WithComponent("api"),
	}
}

// Router builds the chi router with the full middleware stack and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Research runs call out to paid model and search APIs, so rate
		// limit them harder than the read endpoints.
		r.With(httprate.LimitByIP(10, time.Minute)).Post("/research", s.handleResearch)
		r.Get("/research/ws", s.handleResearchWS)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(120, time.Minute))
			r.Get("/providers", s.handleProviders)
			r.Get("/topics", s.handleTopics)
			r.Get("/reports", s.handleListReports)
			r.Get("/reports/{id}", s.handleGetReport)
			r.Get("/reports/{id}/download", s.handleDownloadReport)
			r.Get("/reports/diff", s.handleDiffReports)
		})
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = engine.DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"providers": s.engine.Providers()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errTopicRequired = errors.New("topic is required")
