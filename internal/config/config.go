package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/photo-og/internal/constants"
)

type Config struct {
	PhotoPrism PhotoPrismConfig `yaml:"photoprism"`
	Storage    StorageConfig    `yaml:"storage"`
	OG         OGConfig         `yaml:"og"`
	Manifest   string           `yaml:"manifest"` // path of the JSON manifest the run reads and writes back
}

type PhotoPrismConfig struct {
	URL           string `yaml:"url"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	PasswordFile  string `yaml:"passwordFile"`  // file holding the password (docker secrets)
	Token         string `yaml:"token"`         // existing session token, skips login
	DownloadToken string `yaml:"downloadToken"` // required together with Token for thumbnails
	Domain        string `yaml:"domain"`        // public domain for generating photo links (e.g., https://photos.example.com)
	Album         string `yaml:"album"`         // album UID to publish; empty means the whole library
	Query         string `yaml:"query"`         // PhotoPrism search query applied when Album is empty
	Labels        bool   `yaml:"labels"`        // use PhotoPrism labels as tags
	MaxResults    int    `yaml:"maxResults"`
}

// GetPassword returns the configured password, reading PasswordFile when no
// password is set directly.
func (c *PhotoPrismConfig) GetPassword() string {
	if c.Password != "" || c.PasswordFile == "" {
		return c.Password
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Enabled reports whether a PhotoPrism instance is configured as item source.
func (c *PhotoPrismConfig) Enabled() bool {
	return c.URL != "" && (c.Token != "" || c.Username != "")
}

// PhotoURL returns an OSC 8 hyperlink for terminal emulators (iTerm2, etc.)
// Displays the UID but makes it clickable to open the photo in PhotoPrism
// Returns the bare UID if Domain is not set
func (c *PhotoPrismConfig) PhotoURL(uid string) string {
	if c.Domain == "" {
		return uid
	}
	url := strings.TrimRight(c.Domain, "/") + "/library/browse?view=cards&order=oldest&q=uid:" + uid
	// OSC 8 hyperlink format: \e]8;;URL\e\\TEXT\e]8;;\e\\
	return "\x1b]8;;" + url + "\x1b\\" + uid + "\x1b]8;;\x1b\\"
}

// Storage provider names.
const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"
	ProviderOSS   = "oss"
	ProviderCOS   = "cos"
	ProviderQiniu = "qiniu"
	ProviderLocal = "local"
	ProviderEagle = "eagle"
)

// StorageConfig describes the object store rendered images are published to.
type StorageConfig struct {
	Provider   string        `yaml:"provider"`
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	Endpoint   string        `yaml:"endpoint"`
	AccessKey  string        `yaml:"accessKey"`
	SecretKey  string        `yaml:"secretKey"`
	Prefix     string        `yaml:"prefix"`
	PublicURL  string        `yaml:"publicUrl"` // base URL objects are served from (CDN or custom domain)
	Insecure   bool          `yaml:"insecure"`  // plain http for self-hosted endpoints
	Presign    bool          `yaml:"presign"`   // hand out signed GET URLs instead of public ones
	PresignTTL time.Duration `yaml:"presignTTL"`
	Directory  string        `yaml:"directory"` // root directory of the local provider
}

// Validate checks that the fields the provider needs are present.
func (s *StorageConfig) Validate() error {
	var required map[string]string
	switch s.Provider {
	case "":
		return fmt.Errorf("storage provider not configured")
	case ProviderS3:
		required = map[string]string{"bucket": s.Bucket, "region": s.Region}
	case ProviderMinio, ProviderOSS:
		required = map[string]string{"endpoint": s.Endpoint, "bucket": s.Bucket, "accessKey": s.AccessKey, "secretKey": s.SecretKey}
	case ProviderCOS:
		required = map[string]string{"bucket": s.Bucket, "region": s.Region, "accessKey": s.AccessKey, "secretKey": s.SecretKey}
	case ProviderQiniu:
		required = map[string]string{"bucket": s.Bucket, "accessKey": s.AccessKey, "secretKey": s.SecretKey, "publicUrl": s.PublicURL}
	case ProviderLocal:
		required = map[string]string{"directory": s.Directory}
	case ProviderEagle:
		return nil
	default:
		return fmt.Errorf("unknown storage provider %q", s.Provider)
	}

	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("storage provider %s: missing %s", s.Provider, strings.Join(missing, ", "))
	}
	return nil
}

// OGConfig holds the preview image publishing options.
type OGConfig struct {
	Enable         *bool          `yaml:"enable"`
	Directory      string         `yaml:"directory"`
	Storage        *StorageConfig `yaml:"storage"` // overrides the ambient storage when set
	ContentType    string         `yaml:"contentType"`
	SiteName       string         `yaml:"siteName"`
	AccentColor    string         `yaml:"accentColor"`
	SiteConfigPath string         `yaml:"siteConfigPath"`
	FontDirs       []string       `yaml:"fontDirs"`
	PublicRoot     string         `yaml:"publicRoot"` // local root for relative thumbnail URLs
	FontTTL        time.Duration  `yaml:"fontTTL"`
}

// Enabled reports whether publishing is switched on. Unset means enabled.
func (c *OGConfig) Enabled() bool {
	return c.Enable == nil || *c.Enable
}

// Resolve returns a copy with every default applied. The storage override wins
// over the ambient storage; with neither configured Storage stays nil.
// SiteName and AccentColor are left alone since the site metadata file may supply them.
func (c OGConfig) Resolve(ambient StorageConfig) OGConfig {
	out := c
	enabled := c.Enabled()
	out.Enable = &enabled

	if strings.TrimSpace(out.Directory) == "" {
		out.Directory = constants.DefaultOGDirectory
	}
	if out.ContentType == "" {
		out.ContentType = constants.DefaultContentType
	}
	if out.SiteConfigPath == "" {
		out.SiteConfigPath = constants.DefaultSiteConfigPath
	}
	if out.FontTTL <= 0 {
		out.FontTTL = constants.DefaultFontTTLMinutes * time.Minute
	}
	if out.Storage != nil {
		storage := *out.Storage
		out.Storage = &storage
	} else if ambient.Provider != "" {
		storage := ambient
		out.Storage = &storage
	}
	return out
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean.
// Returns the default value if the env var is unset or invalid.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// envList splits a path-list style environment variable (":" or ",").
func envList(key string) []string {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == filepath.ListSeparator }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func Load() *Config {
	cfg := &Config{
		PhotoPrism: PhotoPrismConfig{
			URL:           os.Getenv("PHOTOPRISM_URL"),
			Username:      os.Getenv("PHOTOPRISM_USERNAME"),
			Password:      os.Getenv("PHOTOPRISM_PASSWORD"),
			PasswordFile:  os.Getenv("PHOTOPRISM_PASSWORD_FILE"),
			Token:         os.Getenv("PHOTOPRISM_TOKEN"),
			DownloadToken: os.Getenv("PHOTOPRISM_DOWNLOAD_TOKEN"),
			Domain:        os.Getenv("PHOTOPRISM_DOMAIN"),
			Album:         os.Getenv("PHOTOPRISM_ALBUM"),
			Query:         os.Getenv("PHOTOPRISM_QUERY"),
			Labels:        envBool("PHOTOPRISM_LABELS", false),
			MaxResults:    envInt("PHOTOPRISM_MAX_RESULTS", 0),
		},
		Storage: StorageConfig{
			Provider:   strings.ToLower(os.Getenv("STORAGE_PROVIDER")),
			Bucket:     os.Getenv("STORAGE_BUCKET"),
			Region:     os.Getenv("STORAGE_REGION"),
			Endpoint:   os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:  os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:  os.Getenv("STORAGE_SECRET_KEY"),
			Prefix:     os.Getenv("STORAGE_PREFIX"),
			PublicURL:  os.Getenv("STORAGE_PUBLIC_URL"),
			Insecure:   envBool("STORAGE_INSECURE", false),
			Presign:    envBool("STORAGE_PRESIGN", false),
			PresignTTL: time.Duration(envInt("STORAGE_PRESIGN_TTL_MINUTES", constants.DefaultPresignTTLMinutes)) * time.Minute,
			Directory:  os.Getenv("STORAGE_DIRECTORY"),
		},
		OG: OGConfig{
			Directory:      os.Getenv("OG_DIRECTORY"),
			ContentType:    os.Getenv("OG_CONTENT_TYPE"),
			SiteName:       os.Getenv("OG_SITE_NAME"),
			AccentColor:    os.Getenv("OG_ACCENT_COLOR"),
			SiteConfigPath: os.Getenv("OG_SITE_CONFIG"),
			FontDirs:       envList("OG_FONT_DIRS"),
			PublicRoot:     os.Getenv("OG_PUBLIC_ROOT"),
			FontTTL:        time.Duration(envInt("OG_FONT_TTL_MINUTES", constants.DefaultFontTTLMinutes)) * time.Minute,
		},
		Manifest: os.Getenv("OG_MANIFEST"),
	}
	if s := os.Getenv("OG_ENABLE"); s != "" {
		enabled := envBool("OG_ENABLE", true)
		cfg.OG.Enable = &enabled
	}
	if cfg.Manifest == "" {
		cfg.Manifest = constants.DefaultManifestPath
	}
	return cfg
}

// LoadFile overlays a YAML config file on top of the environment values.
// Keys absent from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the --config flag
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	c.Storage.Provider = strings.ToLower(c.Storage.Provider)
	if c.OG.Storage != nil {
		c.OG.Storage.Provider = strings.ToLower(c.OG.Storage.Provider)
	}
	return nil
}
