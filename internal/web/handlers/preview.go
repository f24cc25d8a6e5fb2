package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/og"
)

// PreviewHandler renders preview images of manifest items on request.
type PreviewHandler struct {
	store     *catalog.Store
	publisher *og.Publisher
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(store *catalog.Store, publisher *og.Publisher) *PreviewHandler {
	return &PreviewHandler{
		store:     store,
		publisher: publisher,
	}
}

// ItemResponse describes one manifest item and where its preview lives.
type ItemResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags,omitempty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Key        string   `json:"key"`
	OGImageURL string   `json:"og_image_url,omitempty"`
	Unchanged  bool     `json:"unchanged"`
	PreviewURL string   `json:"preview_url"`
}

// ItemsResponse is a page of items.
type ItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// List returns manifest items with their remote keys.
func (h *PreviewHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	all := h.store.All()

	page := []*catalog.Item{}
	if offset < len(all) {
		page = all[offset:min(offset+limit, len(all))]
	}

	resp := ItemsResponse{Items: make([]ItemResponse, 0, len(page)), Total: len(all), Limit: limit, Offset: offset}
	for _, it := range page {
		width, height := it.Dimensions()
		resp.Items = append(resp.Items, ItemResponse{
			ID:         it.ID,
			Title:      it.Title,
			Tags:       it.Tags,
			Width:      width,
			Height:     height,
			Key:        h.publisher.Key(it.ID),
			OGImageURL: it.OGImageURL,
			Unchanged:  it.Unchanged(),
			PreviewURL: "/og/" + it.ID + ".png",
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// Get returns a single item.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	item := h.item(w, r)
	if item == nil {
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Image serves /og/{file}, dispatching on the extension of file to the PNG
// or SVG preview of the item named by the base name.
func (h *PreviewHandler) Image(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		rctx.URLParams.Add("id", strings.TrimSuffix(file, ext))
	}

	switch ext {
	case ".png":
		h.ItemPNG(w, r)
	case ".svg":
		h.ItemSVG(w, r)
	default:
		respondError(w, http.StatusNotFound, "unknown preview format")
	}
}

// ItemPNG renders the PNG preview of one item.
func (h *PreviewHandler) ItemPNG(w http.ResponseWriter, r *http.Request) {
	item := h.item(w, r)
	if item == nil {
		return
	}
	data, err := h.publisher.RenderItem(r.Context(), item)
	if err != nil {
		h.renderFailed(w, item.ID, err)
		return
	}
	writeImage(w, "image/png", data)
}

// ItemSVG renders the vector form of one item's preview.
func (h *PreviewHandler) ItemSVG(w http.ResponseWriter, r *http.Request) {
	item := h.item(w, r)
	if item == nil {
		return
	}
	var buf bytes.Buffer
	if err := h.publisher.WriteItemSVG(r.Context(), &buf, item); err != nil {
		h.renderFailed(w, item.ID, err)
		return
	}
	writeImage(w, "image/svg+xml", buf.Bytes())
}

// HomePNG renders the site-level card over all manifest items.
func (h *PreviewHandler) HomePNG(w http.ResponseWriter, r *http.Request) {
	data, err := h.publisher.RenderHome(r.Context(), h.store.All())
	if err != nil {
		h.renderFailed(w, "home", err)
		return
	}
	writeImage(w, "image/png", data)
}

// Reload re-reads the manifest and drops cached fonts and site metadata.
func (h *PreviewHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(); err != nil {
		slog.Error("could not reload manifest", "path", h.store.Path(), "error", err)
		respondError(w, http.StatusInternalServerError, "could not reload manifest")
		return
	}
	h.publisher.State().Invalidate()
	respondJSON(w, http.StatusOK, map[string]int{"items": len(h.store.All())})
}

// item looks up the item named by the id URL parameter, writing a 404 when missing.
func (h *PreviewHandler) item(w http.ResponseWriter, r *http.Request) *catalog.Item {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing item id")
		return nil
	}
	item := h.store.Find(id)
	if item == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return nil
	}
	return item
}

func (h *PreviewHandler) renderFailed(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, og.ErrFontsUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "fonts unavailable")
		return
	}
	slog.Error("could not render preview", "item", sanitizeForLog(id), "error", err)
	respondError(w, http.StatusInternalServerError, "could not render preview")
}

func writeImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client went away
}
