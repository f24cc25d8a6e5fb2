package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/kozaktomas/photo-og/internal/config"
)

// Local writes objects below a directory, typically the public root of a
// statically served site.
type Local struct {
	cfg config.StorageConfig
}

func NewLocal(cfg config.StorageConfig) (*Local, error) {
	if err := os.MkdirAll(cfg.Directory, 0750); err != nil {
		return nil, fmt.Errorf("could not create storage directory: %w", err)
	}
	return &Local{cfg: cfg}, nil
}

func (p *Local) Name() string {
	return p.cfg.Provider
}

// objectPath confines key to the storage directory.
func (p *Local) objectPath(key string) string {
	return filepath.Join(p.cfg.Directory, filepath.FromSlash(path.Clean("/"+key)))
}

func (p *Local) Upload(_ context.Context, key string, data []byte, _ UploadOptions) error {
	target := p.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil { //nolint:gosec // published files are world readable
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the key under PublicURL, or a site-relative path when
// no base URL is configured.
func (p *Local) PublicURL(_ context.Context, key string) (string, error) {
	if p.cfg.PublicURL != "" {
		return joinURL(p.cfg.PublicURL, key), nil
	}
	return joinURL("", key), nil
}
