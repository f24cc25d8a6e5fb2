// Package web serves live previews of the rendered OG images.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/og"
	"github.com/kozaktomas/photo-og/internal/web/middleware"
)

// Server represents the preview server
type Server struct {
	config     *config.Config
	publisher  *og.Publisher
	store      *catalog.Store
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new preview server
func NewServer(cfg *config.Config, publisher *og.Publisher, store *catalog.Store, port int, host string) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:    cfg,
		publisher: publisher,
		store:     store,
		router:    r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(constants.RenderTimeoutSeconds * time.Second))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: (constants.RenderTimeoutSeconds + 10) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting preview server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down preview server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Reload re-reads the manifest and drops cached fonts and site metadata so
// the next render picks up edits.
func (s *Server) Reload() {
	if err := s.store.Reload(); err != nil {
		slog.Error("could not reload manifest, keeping previous items", "path", s.store.Path(), "error", err)
	}
	s.publisher.State().Invalidate()
	slog.Info("preview sources reloaded", "items", len(s.store.All()))
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
