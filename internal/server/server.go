package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/pipeline"
	"github.com/trindadeeesx/nexus/internal/ratelimit"
)

// Server is the Nexus HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Config holds all dependencies and settings for creating a Server.
// Limiter is optional; nil disables rate limiting.
type Config struct {
	Pipeline *pipeline.Pipeline
	Oracle   *oracle.Service
	Logger   *slog.Logger
	Limiter  ratelimit.Limiter

	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// New creates a new HTTP server with all routes configured.
func New(cfg Config) *Server {
	h := NewHandlers(HandlersDeps{
		Pipeline: cfg.Pipeline,
		Oracle:   cfg.Oracle,
		Logger:   cfg.Logger,
		Version:  cfg.Version,
	})

	// The oracle endpoints trigger full-history scans, so they are rate
	// limited together with ingestion.
	rl := ratelimit.Middleware(cfg.Limiter, ratelimit.IPKeyFunc)

	mux := http.NewServeMux()

	mux.Handle("POST /event", rl(http.HandlerFunc(h.HandleEvent)))
	mux.Handle("POST /conversation", rl(http.HandlerFunc(h.HandleConversation)))

	mux.Handle("GET /oracle/metrics", rl(http.HandlerFunc(h.HandleMetrics)))
	mux.Handle("GET /oracle/insights", rl(http.HandlerFunc(h.HandleInsights)))
	mux.Handle("GET /oracle/history", rl(http.HandlerFunc(h.HandleHistory)))
	mux.Handle("GET /oracle/feedback", rl(http.HandlerFunc(h.HandleFeedback)))
	mux.Handle("POST /oracle/feedback/approve", rl(http.HandlerFunc(h.HandleApprove)))

	// Health (no rate limit).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
