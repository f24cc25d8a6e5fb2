// Package og renders preview images for catalog items and publishes them to storage.
package og

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/render"
	"github.com/kozaktomas/photo-og/internal/scene"
	"github.com/kozaktomas/photo-og/internal/storage"
)

var (
	// ErrDisabled is returned by operations of a publisher that is switched
	// off by configuration or has no usable storage.
	ErrDisabled = errors.New("og publishing disabled")
	// ErrFontsUnavailable means the required fonts could not be loaded.
	ErrFontsUnavailable = errors.New("og fonts unavailable")
)

// Options are the optional collaborators of a Publisher.
type Options struct {
	// Thumbnails provides in-memory thumbnail bytes, tried before any URL.
	Thumbnails catalog.ThumbnailSource
	// Resolver overrides the default thumbnail chain.
	Resolver *assets.Resolver
	// LoadFonts overrides how the font bundle is loaded.
	LoadFonts func() (*render.FontBundle, error)
	// State shares a run state, e.g. with the preview server.
	State *RunState
}

// Publisher renders and publishes preview images.
type Publisher struct {
	cfg      config.OGConfig
	provider storage.Provider
	prefix   string
	disabled error

	state      *RunState
	resolver   *assets.Resolver
	thumbnails catalog.ThumbnailSource
	loadFonts  func() (*render.FontBundle, error)
}

// New creates a publisher from configuration. When publishing is switched off,
// or the storage provider is missing or unsupported, the publisher is disabled
// with a warning instead of failing.
func New(ctx context.Context, cfg config.OGConfig, ambient config.StorageConfig, opts Options) *Publisher {
	resolved := cfg.Resolve(ambient)
	p := newPublisher(resolved, opts)

	if !resolved.Enabled() {
		p.disabled = fmt.Errorf("%w: switched off by configuration", ErrDisabled)
		return p
	}
	provider, err := storage.New(ctx, resolved.Storage)
	if err != nil {
		p.disabled = fmt.Errorf("%w: %w", ErrDisabled, err)
		slog.Warn("og image publishing disabled", "error", err)
		return p
	}
	p.provider = provider
	p.prefix = RemotePrefix(storage.PrefixOf(resolved.Storage), resolved.Directory)
	return p
}

// NewWithProvider creates an enabled publisher around an existing provider.
// The storage settings of cfg only contribute the key prefix.
func NewWithProvider(cfg config.OGConfig, provider storage.Provider, opts Options) *Publisher {
	resolved := cfg.Resolve(config.StorageConfig{})
	p := newPublisher(resolved, opts)
	p.provider = provider
	p.prefix = RemotePrefix(storage.PrefixOf(resolved.Storage), resolved.Directory)
	return p
}

func newPublisher(cfg config.OGConfig, opts Options) *Publisher {
	p := &Publisher{
		cfg:        cfg,
		state:      opts.State,
		resolver:   opts.Resolver,
		thumbnails: opts.Thumbnails,
		loadFonts:  opts.LoadFonts,
	}
	if p.state == nil {
		p.state = NewRunState()
	}
	if p.resolver == nil {
		p.resolver = assets.NewResolver(cfg.PublicRoot, nil)
	}
	if p.loadFonts == nil {
		dirs := assets.FontDirs(cfg.FontDirs)
		p.loadFonts = func() (*render.FontBundle, error) { return render.LoadFonts(dirs) }
	}
	return p
}

// Enabled reports whether the publisher can publish.
func (p *Publisher) Enabled() bool {
	return p.disabled == nil
}

// Err explains why the publisher is disabled. It wraps ErrDisabled.
func (p *Publisher) Err() error {
	return p.disabled
}

// State returns the run state.
func (p *Publisher) State() *RunState {
	return p.state
}

// Prefix returns the remote prefix keys are created under.
func (p *Publisher) Prefix() string {
	return p.prefix
}

// Key returns the remote key of the preview image for id.
func (p *Publisher) Key(id string) string {
	return RemoteKey(p.prefix, id)
}

// Site returns the site branding of the current run.
func (p *Publisher) Site() SiteMeta {
	return p.state.Site(func() SiteMeta { return LoadSiteMeta(p.cfg) })
}

// Theme returns the card theme derived from the site branding.
func (p *Publisher) Theme() scene.Theme {
	site := p.Site()
	return scene.NewTheme(site.SiteName, site.AccentColor)
}

// Renderer returns a renderer over the run's font bundle.
func (p *Publisher) Renderer() (*render.Renderer, error) {
	fonts, err := p.state.Fonts(p.cfg.FontTTL, func() (*render.FontBundle, error) {
		fonts, err := p.loadFonts()
		if err != nil {
			slog.Warn("og fonts not found, rendering is skipped", "error", err)
		}
		return fonts, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontsUnavailable, err)
	}
	return render.NewRenderer(fonts), nil
}

// Photo resolves the thumbnail of an item through the fallback chain.
func (p *Publisher) Photo(ctx context.Context, item *catalog.Item) *assets.ImageRef {
	req := assets.ThumbnailRequest{Item: item}
	if p.thumbnails != nil {
		data, err := p.thumbnails.Thumbnail(ctx, item)
		if err != nil {
			slog.Debug("in-memory thumbnail unavailable", "item", item.ID, "error", err)
		}
		req.Memory = data
	}
	return p.resolver.Thumbnail(ctx, req)
}

// RenderItem renders the PNG preview of one item.
func (p *Publisher) RenderItem(ctx context.Context, item *catalog.Item) ([]byte, error) {
	r, err := p.Renderer()
	if err != nil {
		return nil, err
	}
	return r.RenderItem(item, p.Photo(ctx, item), p.Theme())
}

// WriteItemSVG writes the vector form of an item's preview.
func (p *Publisher) WriteItemSVG(ctx context.Context, w io.Writer, item *catalog.Item) error {
	r, err := p.Renderer()
	if err != nil {
		return err
	}
	return r.SVG(w, r.ItemScene(item, p.Photo(ctx, item), p.Theme()))
}

// Signal is the per-item processing input of a run.
type Signal struct {
	// Skipped is set when upstream processing found the item unchanged.
	Skipped       bool
	ForceMode     bool
	ForceManifest bool
}

// Forced reports whether either force flag is set.
func (s Signal) Forced() bool {
	return s.ForceMode || s.ForceManifest
}

// ShouldRender reports whether the item is rendered (and possibly uploaded)
// rather than only having its existing URL resolved.
func (s Signal) ShouldRender() bool {
	return !s.Skipped || s.Forced()
}

// Process runs the publish state machine for one item. On success the public
// URL is written onto the item; on failure the item is left untouched.
func (p *Publisher) Process(ctx context.Context, item *catalog.Item, sig Signal) Outcome {
	key := p.Key(item.ID)
	out := Outcome{ItemID: item.ID, Key: key}

	return p.publish(ctx, out, sig, func(r *render.Renderer) ([]byte, error) {
		return r.RenderItem(item, p.Photo(ctx, item), p.Theme())
	}, func(url string) {
		item.OGImageURL = url
		item.OGDigest = item.Digest()
	})
}

// publish is shared by items and the homepage card.
func (p *Publisher) publish(
	ctx context.Context, out Outcome, sig Signal,
	draw func(*render.Renderer) ([]byte, error), writeBack func(url string),
) Outcome {
	if p.disabled != nil {
		return out.fail(StageConfig, p.disabled)
	}

	r, err := p.Renderer()
	if err != nil {
		out.Status, out.Stage, out.Err = StatusSkipped, StageFonts, err
		return out
	}

	if !sig.ShouldRender() {
		url, err := p.resolveURL(ctx, out.Key)
		if err != nil {
			slog.Warn("could not resolve existing og image url", "key", out.Key, "error", err)
			return out.fail(StageURL, err)
		}
		writeBack(url)
		out.URL, out.Status = url, StatusReused
		return out
	}

	data, err := draw(r)
	if err != nil {
		slog.Error("could not render og image", "key", out.Key, "error", err)
		return out.fail(StageRender, err)
	}
	out.Bytes = len(data)

	if !p.state.Uploaded(out.Key) || sig.Forced() {
		if err := p.provider.Upload(ctx, out.Key, data, storage.UploadOptions{ContentType: p.cfg.ContentType}); err != nil {
			slog.Error("could not upload og image", "key", out.Key, "error", err)
			return out.fail(StageUpload, err)
		}
		p.state.MarkUploaded(out.Key)
		out.Uploaded = true
	}

	url, err := p.resolveURL(ctx, out.Key)
	if err != nil {
		slog.Error("could not resolve og image url", "key", out.Key, "error", err)
		return out.fail(StageURL, err)
	}
	writeBack(url)
	out.URL, out.Status = url, StatusPublished
	return out
}

// resolveURL returns the cached public URL of key, asking the provider on a miss.
func (p *Publisher) resolveURL(ctx context.Context, key string) (string, error) {
	if url, ok := p.state.URL(key); ok {
		return url, nil
	}
	url, err := p.provider.PublicURL(ctx, key)
	if err != nil {
		return "", err
	}
	p.state.CacheURL(key, url)
	return url, nil
}

// SignalFunc derives the processing signal of an item.
type SignalFunc func(item *catalog.Item) Signal

// Run processes items one after another in a fresh run state. Item failures
// are recorded in the report and never stop the run; a cancelled context
// stops it between items.
func (p *Publisher) Run(ctx context.Context, items []*catalog.Item, signals SignalFunc, onItem func(Outcome)) (*RunReport, error) {
	if p.disabled != nil {
		return nil, p.disabled
	}
	p.state.Reset()

	report := &RunReport{RunID: p.state.ID(), Started: time.Now()}
	defer func() { report.Duration = time.Since(report.Started) }()

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run interrupted: %w", err)
		}
		out := p.Process(ctx, item, signals(item))
		report.Add(out)
		if onItem != nil {
			onItem(out)
		}
	}
	return report, nil
}
