// Package storage publishes rendered images to object stores.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/constants"
)

// ErrUnsupportedProvider is returned for providers that cannot host published images.
var ErrUnsupportedProvider = errors.New("unsupported storage provider")

// UploadOptions carries per-object metadata.
type UploadOptions struct {
	ContentType string
}

// Provider is the port every object store implements.
type Provider interface {
	// Name returns the configured provider name.
	Name() string
	// Upload stores data under key, replacing any existing object.
	Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error
	// PublicURL returns the URL the object under key is reachable at.
	PublicURL(ctx context.Context, key string) (string, error)
}

// prefixed lists the providers whose configured prefix is part of every key.
var prefixed = map[string]bool{
	config.ProviderS3:    true,
	config.ProviderMinio: true,
	config.ProviderOSS:   true,
	config.ProviderCOS:   true,
	config.ProviderQiniu: true,
}

// PrefixOf returns the key prefix of the storage config, or "" when the
// provider does not use one.
func PrefixOf(cfg *config.StorageConfig) string {
	if cfg == nil || !prefixed[cfg.Provider] {
		return ""
	}
	return strings.Trim(cfg.Prefix, "/")
}

// New creates the provider described by cfg.
func New(ctx context.Context, cfg *config.StorageConfig) (Provider, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, fmt.Errorf("storage provider not configured")
	}
	switch cfg.Provider {
	case config.ProviderS3, config.ProviderMinio, config.ProviderOSS,
		config.ProviderCOS, config.ProviderQiniu, config.ProviderLocal:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	switch cfg.Provider {
	case config.ProviderS3:
		return NewS3(ctx, *cfg)
	case config.ProviderMinio:
		return NewMinio(*cfg)
	case config.ProviderOSS:
		return NewOSS(*cfg)
	case config.ProviderCOS:
		return NewCOS(*cfg)
	case config.ProviderQiniu:
		return NewQiniu(*cfg)
	default:
		return NewLocal(*cfg)
	}
}

// joinURL appends an object key to a base URL, escaping each key segment.
func joinURL(base, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

// withScheme makes sure an endpoint carries a scheme.
func withScheme(endpoint string, insecure bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if insecure {
		return "http://" + strings.TrimRight(endpoint, "/")
	}
	return "https://" + strings.TrimRight(endpoint, "/")
}

// presignTTL returns the configured signature lifetime.
func presignTTL(cfg config.StorageConfig) time.Duration {
	if cfg.PresignTTL > 0 {
		return cfg.PresignTTL
	}
	return constants.DefaultPresignTTLMinutes * time.Minute
}
