package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/kozaktomas/photo-og/internal/web/handlers"
	"github.com/kozaktomas/photo-og/internal/web/static"
)

func (s *Server) setupRoutes() {
	previewHandler := handlers.NewPreviewHandler(s.store, s.publisher)
	configHandler := handlers.NewConfigHandler(s.config, s.publisher)

	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Get("/api/v1/config", configHandler.Get)
	s.router.Get("/api/v1/items", previewHandler.List)
	s.router.Get("/api/v1/items/{id}", previewHandler.Get)
	s.router.Post("/api/v1/reload", previewHandler.Reload)

	// home.png is a static route and wins over an item with the ID "home",
	// matching the remote key collision.
	s.router.Get("/og/home.png", previewHandler.HomePNG)
	s.router.Get("/og/{file}", previewHandler.Image)

	s.router.Get("/*", s.serveIndex)
}

// serveIndex serves the embedded gallery page for every other path.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if !static.HasIndex() {
		http.NotFound(w, r)
		return
	}
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}
	f, err := static.GetFileSystem().Open("/index.html")
	if err != nil {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f) //nolint:errcheck // client went away
}
