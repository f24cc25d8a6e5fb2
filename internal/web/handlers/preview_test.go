package handlers

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kozaktomas/photo-og/internal/catalog"
)

func previewItems() []*catalog.Item {
	return []*catalog.Item{
		{ID: "p1", Title: "Harbour", Width: 6000, Height: 4000, Tags: []string{"sea"}},
		{ID: "p2", Title: "Tower", Width: 3000, Height: 4500},
		{ID: "p3", Title: "Dunes", Width: 0, Height: 0},
	}
}

func TestPreviewHandler_List(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/items?limit=2&offset=1", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var resp ItemsResponse
	parseJSONResponse(t, recorder, &resp)

	if resp.Total != 3 || resp.Limit != 2 || resp.Offset != 1 {
		t.Errorf("unexpected paging %+v", resp)
	}
	if len(resp.Items) != 2 || resp.Items[0].ID != "p2" {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
	if resp.Items[0].Key != ".afilmory/og-images/p2.png" {
		t.Errorf("unexpected key %q", resp.Items[0].Key)
	}
	if resp.Items[1].Width != 1 || resp.Items[1].Height != 1 {
		t.Errorf("expected coerced dimensions, got %dx%d", resp.Items[1].Width, resp.Items[1].Height)
	}
	if resp.Items[0].PreviewURL != "/og/p2.png" {
		t.Errorf("unexpected preview url %q", resp.Items[0].PreviewURL)
	}
}

func TestPreviewHandler_ListOffsetPastEnd(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/items?offset=10", nil))

	var resp ItemsResponse
	parseJSONResponse(t, recorder, &resp)
	if len(resp.Items) != 0 || resp.Total != 3 {
		t.Errorf("expected empty page, got %+v", resp)
	}
}

func TestPreviewHandler_Get(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", "p1", http.StatusOK},
		{"not found", "nope", http.StatusNotFound},
		{"empty id", " ", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/items/x", nil), map[string]string{"id": tc.id})
			recorder := httptest.NewRecorder()
			handler.Get(recorder, req)
			assertStatusCode(t, recorder, tc.wantStatus)
		})
	}
}

func TestPreviewHandler_ItemPNG(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	req := requestWithChiParams(httptest.NewRequest("GET", "/og/p1.png", nil), map[string]string{"id": "p1"})
	recorder := httptest.NewRecorder()
	handler.ItemPNG(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if recorder.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected previews not to be cached")
	}
	img, err := png.Decode(bytes.NewReader(recorder.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 628 {
		t.Errorf("expected 1200x628, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreviewHandler_ItemPNGNotFound(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t), testPublisher(t, cfg, goFonts))

	req := requestWithChiParams(httptest.NewRequest("GET", "/og/p1.png", nil), map[string]string{"id": "p1"})
	recorder := httptest.NewRecorder()
	handler.ItemPNG(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "item not found")
}

func TestPreviewHandler_ItemSVG(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	req := requestWithChiParams(httptest.NewRequest("GET", "/og/p1.svg", nil), map[string]string{"id": "p1"})
	recorder := httptest.NewRecorder()
	handler.ItemSVG(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/svg+xml")
	body := recorder.Body.String()
	if !strings.HasPrefix(body, "<svg") || !strings.Contains(body, "Harbour") || !strings.Contains(body, "Test Gallery") {
		t.Errorf("unexpected svg body: %.200s", body)
	}
}

func TestPreviewHandler_FontsUnavailable(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, noFonts))

	req := requestWithChiParams(httptest.NewRequest("GET", "/og/p1.png", nil), map[string]string{"id": "p1"})
	recorder := httptest.NewRecorder()
	handler.ItemPNG(recorder, req)

	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
	assertJSONError(t, recorder, "fonts unavailable")

	recorder = httptest.NewRecorder()
	handler.HomePNG(recorder, httptest.NewRequest("GET", "/og/home.png", nil))
	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
}

func TestPreviewHandler_HomePNG(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	recorder := httptest.NewRecorder()
	handler.HomePNG(recorder, httptest.NewRequest("GET", "/og/home.png", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if _, err := png.Decode(bytes.NewReader(recorder.Body.Bytes())); err != nil {
		t.Errorf("response is not a PNG: %v", err)
	}
}

func TestPreviewHandler_Reload(t *testing.T) {
	cfg := testConfig(t)
	store := testStore(t, previewItems()[0])
	handler := NewPreviewHandler(store, testPublisher(t, cfg, goFonts))

	if err := (&catalog.Manifest{Data: previewItems()}).Save(store.Path()); err != nil {
		t.Fatal(err)
	}

	recorder := httptest.NewRecorder()
	handler.Reload(recorder, httptest.NewRequest("POST", "/api/v1/reload", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]int
	parseJSONResponse(t, recorder, &resp)
	if resp["items"] != 3 {
		t.Errorf("expected 3 items after reload, got %d", resp["items"])
	}

	if err := os.WriteFile(store.Path(), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	recorder = httptest.NewRecorder()
	handler.Reload(recorder, httptest.NewRequest("POST", "/api/v1/reload", nil))
	assertStatusCode(t, recorder, http.StatusInternalServerError)
	if len(store.All()) != 3 {
		t.Error("expected previous manifest to survive a failed reload")
	}
}

func TestPreviewHandler_Image(t *testing.T) {
	cfg := testConfig(t)
	handler := NewPreviewHandler(testStore(t, previewItems()...), testPublisher(t, cfg, goFonts))

	tests := []struct {
		file       string
		wantStatus int
		wantType   string
	}{
		{"p1.png", http.StatusOK, "image/png"},
		{"p1.svg", http.StatusOK, "image/svg+xml"},
		{"p1.gif", http.StatusNotFound, "application/json"},
		{"nope.png", http.StatusNotFound, "application/json"},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest("GET", "/og/"+tc.file, nil), map[string]string{"file": tc.file})
			recorder := httptest.NewRecorder()
			handler.Image(recorder, req)
			assertStatusCode(t, recorder, tc.wantStatus)
			assertContentType(t, recorder, tc.wantType)
		})
	}
}
