// Package catalog holds the photo catalog model and the sources items are read from.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestVersion is written into every saved manifest.
const ManifestVersion = "v1"

// Manifest is the JSON document listing all catalog items.
type Manifest struct {
	Version string  `json:"version"`
	Data    []*Item `json:"data"`
}

// Source yields the items of one batch run.
type Source interface {
	Items(ctx context.Context) ([]*Item, error)
}

// ThumbnailSource provides in-memory thumbnail bytes for an item.
// Implementations return (nil, nil) when they have nothing for the item.
type ThumbnailSource interface {
	Thumbnail(ctx context.Context, item *Item) ([]byte, error)
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("could not read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("could not parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadManifestOrEmpty reads a manifest file, returning an empty manifest if it does not exist.
func LoadManifestOrEmpty(path string) (*Manifest, error) {
	m, err := LoadManifest(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{Version: ManifestVersion}, nil
	}
	return m, err
}

// Save writes the manifest atomically (temp file + rename).
func (m *Manifest) Save(path string) error {
	if m.Version == "" {
		m.Version = ManifestVersion
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace manifest: %w", err)
	}
	return nil
}

// Items implements Source.
func (m *Manifest) Items(_ context.Context) ([]*Item, error) {
	return m.Data, nil
}

// Find returns the item with the given ID, or nil.
func (m *Manifest) Find(id string) *Item {
	for _, it := range m.Data {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Merge replaces the manifest items with fresh ones while carrying over the
// publish bookkeeping (OGImageURL, OGDigest) of items that already existed.
func (m *Manifest) Merge(fresh []*Item) {
	previous := make(map[string]*Item, len(m.Data))
	for _, it := range m.Data {
		previous[it.ID] = it
	}
	for _, it := range fresh {
		if old, ok := previous[it.ID]; ok {
			it.OGImageURL = old.OGImageURL
			it.OGDigest = old.OGDigest
		}
	}
	m.Data = fresh
}
