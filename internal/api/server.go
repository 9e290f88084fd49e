// internal/api/server.go

// Package api assembles the HTTP surface of the news console.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/ai/registry"
	"github.com/newsdesk/stardesk/internal/ai/validate"
	"github.com/newsdesk/stardesk/internal/api/handler"
	"github.com/newsdesk/stardesk/internal/api/middleware"
	"github.com/newsdesk/stardesk/internal/article"
	"github.com/newsdesk/stardesk/internal/article/archive"
	"github.com/newsdesk/stardesk/internal/metrics"
)

// Server is the HTTP server for the news console.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Deps are the wired application components the handlers need.
type Deps struct {
	Invoker      *feature.Invoker
	Orchestrator *validate.Orchestrator
	Registry     *registry.Registry
	Store        *article.Store
	Archiver     *archive.Archiver
	Metrics      *metrics.Registry
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute, // full validation waits on four provider calls
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}
	s.setupRoutes(cfg, deps)
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Deps) {
	aiHandler := handler.NewAIHandler(deps.Invoker, deps.Orchestrator, deps.Registry, deps.Store, s.logger)
	articleHandler := handler.NewArticleHandler(deps.Store, deps.Archiver, s.logger, deps.Metrics)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/ai/full-validation", aiHandler.FullValidation)
	apiMux.HandleFunc("GET /api/ai/status", aiHandler.Status)
	apiMux.HandleFunc("POST /api/ai/{feature}", aiHandler.Feature)

	apiMux.HandleFunc("GET /api/articles", articleHandler.List)
	apiMux.HandleFunc("POST /api/articles", articleHandler.Create)
	apiMux.HandleFunc("GET /api/articles/{id}", articleHandler.Get)
	apiMux.HandleFunc("PUT /api/articles/{id}", articleHandler.Update)
	apiMux.HandleFunc("DELETE /api/articles/{id}", articleHandler.Delete)
	apiMux.HandleFunc("POST /api/articles/{id}/publish", articleHandler.Publish)

	protected := middleware.APIKeyAuth(cfg.APIKey)(apiMux)
	if deps.Metrics != nil {
		protected = metrics.HTTPMiddleware(deps.Metrics)(protected)
	}
	s.mux.Handle("/api/", protected)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
