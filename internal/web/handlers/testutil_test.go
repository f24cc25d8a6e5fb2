package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/og"
	"github.com/kozaktomas/photo-og/internal/render"
	"github.com/kozaktomas/photo-og/internal/storage"
)

// testConfig creates a minimal config for testing
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		PhotoPrism: config.PhotoPrismConfig{
			Domain: "https://photos.example.com",
		},
		OG: config.OGConfig{
			SiteName:       "Test Gallery",
			SiteConfigPath: filepath.Join(t.TempDir(), "missing.json"),
		},
	}
}

// nopProvider accepts every upload and serves keys from a fixed base URL.
type nopProvider struct{}

func (nopProvider) Name() string { return "test" }

func (nopProvider) Upload(context.Context, string, []byte, storage.UploadOptions) error { return nil }

func (nopProvider) PublicURL(_ context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func goFonts() (*render.FontBundle, error) {
	return render.ParseFonts(goregular.TTF, gobold.TTF)
}

func noFonts() (*render.FontBundle, error) {
	return nil, errors.New("no fonts installed")
}

// testPublisher creates an enabled publisher with bundled Go fonts.
func testPublisher(t *testing.T, cfg *config.Config, loadFonts func() (*render.FontBundle, error)) *og.Publisher {
	t.Helper()
	return og.NewWithProvider(cfg.OG, nopProvider{}, og.Options{LoadFonts: loadFonts})
}

// testStore writes items to a manifest and opens a store on it.
func testStore(t *testing.T, items ...*catalog.Item) *catalog.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos-manifest.json")
	if err := (&catalog.Manifest{Data: items}).Save(path); err != nil {
		t.Fatalf("failed to save manifest: %v", err)
	}
	store, err := catalog.OpenStore(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
