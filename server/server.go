// Package server serves the playground over a JSON HTTP API.
//
// Routes (all under /api/v1):
//
//	GET  /health
//	GET  /languages
//	POST /execute           {"language": "python", "code": "print(1)"}
//	GET  /tools             optional ?q= search
//	GET  /executions        optional ?language=, ?limit=, ?offset=
//	GET  /executions/{id}
//
// Every response uses the same envelope. Program failures, timeouts and
// engine conditions (busy, not ready) are results and come back as 200.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/config"
	"github.com/jonwraymond/codeplay/history"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// HistoryReader is the read side of a history.Store.
type HistoryReader interface {
	Get(ctx context.Context, id string) (history.Record, error)
	List(ctx context.Context, opts history.ListOptions) ([]history.Record, error)
}

// Server is the playground HTTP API server.
type Server struct {
	router          chi.Router
	logger          *slog.Logger
	config          config.Server
	startTime       time.Time
	agg             *backend.Aggregator
	history         HistoryReader // optional; nil disables /executions
	defaultLanguage string
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithHistory enables the /executions endpoints.
func WithHistory(h HistoryReader) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithDefaultLanguage sets the language used when a request names none.
func WithDefaultLanguage(lang string) Option {
	return func(s *Server) {
		s.defaultLanguage = lang
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.Server, agg *backend.Aggregator, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		agg:       agg,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx ends, then
// shuts down gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.config.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, RequestIDFromContext(r.Context()), http.StatusNotFound, ErrNotFound, "no such route")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/languages", s.handleLanguages)
		r.Post("/execute", s.handleExecute)
		r.Get("/tools", s.handleTools)

		r.Route("/executions", func(r chi.Router) {
			r.Get("/", s.handleListExecutions)
			r.Get("/{id}", s.handleGetExecution)
		})
	})
}
