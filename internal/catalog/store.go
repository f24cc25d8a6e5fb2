package catalog

import (
	"sync"
)

// Store keeps a manifest file in memory and re-reads it on demand.
// It is safe for concurrent use.
type Store struct {
	path string

	mu       sync.RWMutex
	manifest *Manifest
}

// OpenStore loads the manifest at path. A missing file yields an empty store.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the manifest. On error the previous content is kept.
func (s *Store) Reload() error {
	m, err := LoadManifestOrEmpty(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.manifest = m
	s.mu.Unlock()
	return nil
}

// Find returns the item with the given ID, or nil.
func (s *Store) Find(id string) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest.Find(id)
}

// All returns the current items.
func (s *Store) All() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest.Data
}
