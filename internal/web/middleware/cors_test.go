package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestParseAllowedOrigins(t *testing.T) {
	got := ParseAllowedOrigins(" https://gallery.example.com/ , ,https://b.example.com")
	if len(got) != 2 {
		t.Fatalf("expected 2 origins, got %v", got)
	}
	if _, ok := got["https://gallery.example.com"]; !ok {
		t.Error("expected trailing slash to be trimmed")
	}
	if len(ParseAllowedOrigins("")) != 0 {
		t.Error("expected empty set for empty list")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := ParseAllowedOrigins("https://gallery.example.com")

	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:8085", true},
		{"http://localhost.evil.com", false},
		{"https://gallery.example.com", true},
		{"https://other.example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.origin, func(t *testing.T) {
			if got := isOriginAllowed(tc.origin, allowed); got != tc.want {
				t.Errorf("isOriginAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Setenv("OG_ALLOWED_ORIGINS", "https://gallery.example.com")
	handler := CORS()(okHandler())

	req := httptest.NewRequest("GET", "/og/p1.png", nil)
	req.Header.Set("Origin", "https://gallery.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusTeapot {
		t.Errorf("expected request to reach the handler, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://gallery.example.com" {
		t.Errorf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest("GET", "/og/p1.png", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow origin, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS()(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected preflight to short-circuit with 204, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allow methods header")
	}
}

func TestSecurityHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	SecurityHeaders()(okHandler()).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	for _, header := range []string{"Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options"} {
		if recorder.Header().Get(header) == "" {
			t.Errorf("expected %s to be set", header)
		}
	}
}
