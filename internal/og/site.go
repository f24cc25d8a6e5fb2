package og

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/constants"
)

// SiteMeta is the branding applied to every card.
type SiteMeta struct {
	SiteName    string
	AccentColor string
	Description string
	Avatar      string
}

// siteFile is the subset of the site config file that is read.
type siteFile struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AccentColor string `json:"accentColor"`
	Author      struct {
		Avatar string `json:"avatar"`
	} `json:"author"`
}

// LoadSiteMeta resolves the site branding: configured values win, then the
// site config file (name before title), then the defaults. An unreadable or
// malformed file is ignored.
func LoadSiteMeta(cfg config.OGConfig) SiteMeta {
	var file siteFile
	if cfg.SiteConfigPath != "" {
		if data, err := os.ReadFile(cfg.SiteConfigPath); err == nil { //nolint:gosec // configured path
			if err := json.Unmarshal(data, &file); err != nil {
				file = siteFile{}
			}
		}
	}

	return SiteMeta{
		SiteName:    firstNonEmpty(cfg.SiteName, file.Name, file.Title, constants.DefaultSiteName),
		AccentColor: firstNonEmpty(cfg.AccentColor, file.AccentColor, constants.DefaultAccentColor),
		Description: strings.TrimSpace(file.Description),
		Avatar:      strings.TrimSpace(file.Author.Avatar),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
