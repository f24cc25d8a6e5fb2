// Package assets resolves the images and font files a preview render depends on.
package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
)

// maxImageBytes caps how much of a remote or local image is read.
const maxImageBytes = 32 << 20

// ImageRef is an embeddable image: raw bytes plus their content type.
type ImageRef struct {
	ContentType string
	Data        []byte
}

// DataURI encodes the image as a data: URI.
func (r *ImageRef) DataURI() string {
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// ThumbnailRequest carries what is known about an item's thumbnail.
type ThumbnailRequest struct {
	Item   *catalog.Item
	Memory []byte // in-memory bytes, e.g. from the catalog source
}

// ThumbnailAttempt is one step of the thumbnail fallback chain.
// Resolve returns (nil, nil) when the step does not apply to the request
// and must not mutate shared state when it fails.
type ThumbnailAttempt interface {
	Name() string
	Resolve(ctx context.Context, req ThumbnailRequest) (*ImageRef, error)
}

// MemoryAttempt uses in-memory thumbnail bytes.
type MemoryAttempt struct{}

func (MemoryAttempt) Name() string { return "memory" }

func (MemoryAttempt) Resolve(_ context.Context, req ThumbnailRequest) (*ImageRef, error) {
	if len(req.Memory) == 0 {
		return nil, nil
	}
	return &ImageRef{ContentType: "image/jpeg", Data: req.Memory}, nil
}

// RemoteAttempt downloads absolute http(s) thumbnail URLs.
type RemoteAttempt struct {
	HTTPClient *http.Client
}

func (RemoteAttempt) Name() string { return "remote" }

func (a RemoteAttempt) Resolve(ctx context.Context, req ThumbnailRequest) (*ImageRef, error) {
	if req.Item == nil || !IsRemoteURL(req.Item.ThumbnailURL) {
		return nil, nil
	}
	return a.Fetch(ctx, req.Item.ThumbnailURL)
}

// Fetch downloads rawURL and returns it as an image reference.
func (a RemoteAttempt) Fetch(ctx context.Context, rawURL string) (*ImageRef, error) {
	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	resp, err := client.Do(req) //nolint:gosec // thumbnail URLs come from the catalog
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s failed with status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", rawURL, err)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = GuessContentType(rawURL)
	}
	return &ImageRef{ContentType: contentType, Data: data}, nil
}

// LocalAttempt reads relative thumbnail paths below a public root directory.
type LocalAttempt struct {
	Root string
}

func (LocalAttempt) Name() string { return "local" }

func (a LocalAttempt) Resolve(_ context.Context, req ThumbnailRequest) (*ImageRef, error) {
	if req.Item == nil || req.Item.ThumbnailURL == "" || IsRemoteURL(req.Item.ThumbnailURL) {
		return nil, nil
	}

	// Clean against "/" so the path cannot climb out of the root.
	rel := path.Clean("/" + strings.TrimPrefix(req.Item.ThumbnailURL, "file://"))
	full := filepath.Join(a.Root, filepath.FromSlash(rel))

	f, err := os.Open(full) //nolint:gosec // confined to the public root above
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", full, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", full, err)
	}
	return &ImageRef{ContentType: GuessContentType(rel), Data: data}, nil
}

// Resolver walks an ordered list of thumbnail attempts.
type Resolver struct {
	attempts []ThumbnailAttempt
	remote   RemoteAttempt
}

// NewResolver builds the default chain: memory, remote URL, local file under publicRoot.
func NewResolver(publicRoot string, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: constants.ThumbnailFetchTimeoutSeconds * time.Second}
	}
	remote := RemoteAttempt{HTTPClient: client}
	return &Resolver{
		attempts: []ThumbnailAttempt{MemoryAttempt{}, remote, LocalAttempt{Root: publicRoot}},
		remote:   remote,
	}
}

// NewResolverWith builds a resolver from explicit attempts.
func NewResolverWith(attempts ...ThumbnailAttempt) *Resolver {
	r := &Resolver{attempts: attempts}
	for _, a := range attempts {
		if ra, ok := a.(RemoteAttempt); ok {
			r.remote = ra
		}
	}
	return r
}

// Thumbnail returns the first image any attempt produces, or nil when none does.
// Failures are logged and never returned.
func (r *Resolver) Thumbnail(ctx context.Context, req ThumbnailRequest) *ImageRef {
	for _, attempt := range r.attempts {
		ref, err := attempt.Resolve(ctx, req)
		if err != nil {
			slog.Debug("thumbnail attempt failed", "attempt", attempt.Name(), "item", itemID(req.Item), "error", err)
			continue
		}
		if ref != nil && len(ref.Data) > 0 {
			return ref
		}
	}
	return nil
}

// Fetch downloads an absolute URL, e.g. an avatar. Failures are logged and yield nil.
func (r *Resolver) Fetch(ctx context.Context, rawURL string) *ImageRef {
	if !IsRemoteURL(rawURL) {
		return nil
	}
	ref, err := r.remote.Fetch(ctx, rawURL)
	if err != nil {
		slog.Debug("image fetch failed", "url", rawURL, "error", err)
		return nil
	}
	return ref
}

func itemID(it *catalog.Item) string {
	if it == nil {
		return ""
	}
	return it.ID
}

// IsRemoteURL reports whether s is an absolute http or https URL.
func IsRemoteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// GuessContentType maps a URL or path extension to an image content type, defaulting to JPEG.
func GuessContentType(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.HasPrefix(mt, "image/") {
		return ""
	}
	return mt
}
