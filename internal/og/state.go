package og

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/photo-og/internal/render"
)

// RunState is the cache of one batch run: keys uploaded so far, resolved
// public URLs, the font bundle and the site metadata. It is safe for
// concurrent use.
type RunState struct {
	mu sync.Mutex

	id       string
	uploaded map[string]struct{}
	urls     map[string]string

	fonts         *render.FontBundle
	fontsErr      error
	fontsLoadedAt time.Time

	site *SiteMeta
	now  func() time.Time
}

// NewRunState creates an empty state with a fresh run ID.
func NewRunState() *RunState {
	s := &RunState{now: time.Now}
	s.reset()
	return s
}

func (s *RunState) reset() {
	s.id = uuid.NewString()
	s.uploaded = make(map[string]struct{})
	s.urls = make(map[string]string)
	s.dropAssets()
}

func (s *RunState) dropAssets() {
	s.fonts = nil
	s.fontsErr = nil
	s.fontsLoadedAt = time.Time{}
	s.site = nil
}

// ID identifies the current run in logs and reports.
func (s *RunState) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Uploaded reports whether key was uploaded during this run.
func (s *RunState) Uploaded(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.uploaded[key]
	return ok
}

// MarkUploaded records a successful upload of key.
func (s *RunState) MarkUploaded(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded[key] = struct{}{}
}

// URL returns the cached public URL of key.
func (s *RunState) URL(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.urls[key]
	return u, ok
}

// CacheURL stores the public URL of key.
func (s *RunState) CacheURL(key, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[key] = url
}

// Counts returns the number of uploaded keys and cached URLs.
func (s *RunState) Counts() (uploaded, urls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploaded), len(s.urls)
}

// Fonts returns the cached font bundle, or the cached load error, while
// younger than ttl. Otherwise load is called and its result cached,
// including a failure, so a missing font is reported once per ttl.
func (s *RunState) Fonts(ttl time.Duration, load func() (*render.FontBundle, error)) (*render.FontBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.fontsLoadedAt.IsZero() && (ttl <= 0 || now.Sub(s.fontsLoadedAt) < ttl) {
		return s.fonts, s.fontsErr
	}
	s.fonts, s.fontsErr = load()
	s.fontsLoadedAt = now
	return s.fonts, s.fontsErr
}

// Site returns the cached site metadata, loading it on first use.
func (s *RunState) Site(load func() SiteMeta) SiteMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.site == nil {
		meta := load()
		s.site = &meta
	}
	return *s.site
}

// Invalidate drops the fonts and site metadata so they are re-read on next use.
// Uploaded keys and URLs are kept.
func (s *RunState) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropAssets()
}

// Reset starts a new run: every cache is dropped and a new ID assigned.
func (s *RunState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
