package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/og"
	"github.com/kozaktomas/photo-og/internal/storage"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config    *config.Config
	publisher *og.Publisher
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, publisher *og.Publisher) *ConfigHandler {
	return &ConfigHandler{
		config:    cfg,
		publisher: publisher,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	SiteName         string `json:"site_name"`
	AccentColor      string `json:"accent_color"`
	Provider         string `json:"provider,omitempty"`
	Prefix           string `json:"prefix"`
	Publishing       bool   `json:"publishing"`
	DisabledReason   string `json:"disabled_reason,omitempty"`
	Unsupported      bool   `json:"unsupported_provider,omitempty"`
	PhotoPrismDomain string `json:"photoprism_domain,omitempty"`
}

// Get returns the effective publishing configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	site := h.publisher.Site()
	resolved := h.config.OG.Resolve(h.config.Storage)

	response := ConfigResponse{
		SiteName:         site.SiteName,
		AccentColor:      site.AccentColor,
		Prefix:           h.publisher.Prefix(),
		Publishing:       h.publisher.Enabled(),
		PhotoPrismDomain: h.config.PhotoPrism.Domain,
	}
	if resolved.Storage != nil {
		response.Provider = resolved.Storage.Provider
	}
	if err := h.publisher.Err(); err != nil {
		response.DisabledReason = err.Error()
		response.Unsupported = errors.Is(err, storage.ErrUnsupportedProvider)
	}

	respondJSON(w, http.StatusOK, response)
}
