package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/og"
	"github.com/kozaktomas/photo-og/internal/photoprism"
)

// openPhotoPrism connects with the configured session token, or logs in.
func openPhotoPrism(ctx context.Context, cfg *config.PhotoPrismConfig) (*photoprism.PhotoPrism, error) {
	if cfg.Token != "" {
		pp, err := photoprism.NewPhotoPrismFromToken(cfg.URL, cfg.Token, cfg.DownloadToken)
		if err != nil {
			return nil, fmt.Errorf("could not create PhotoPrism client: %w", err)
		}
		return pp, nil
	}
	pp, err := photoprism.NewPhotoPrism(ctx, cfg.URL, cfg.Username, cfg.GetPassword())
	if err != nil {
		return nil, fmt.Errorf("could not connect to PhotoPrism: %w", err)
	}
	return pp, nil
}

// syncFromPhotoPrism replaces the manifest items with the PhotoPrism library,
// keeping the publish bookkeeping of known items. The returned source serves
// in-memory thumbnails for the synced items; close logs the session out.
func syncFromPhotoPrism(ctx context.Context, cfg *config.PhotoPrismConfig, manifest *catalog.Manifest) (*photoprism.Source, func(), error) {
	pp, err := openPhotoPrism(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if cfg.Token != "" {
			return
		}
		if err := pp.Logout(context.WithoutCancel(ctx)); err != nil {
			slog.Debug("PhotoPrism logout failed", "error", err)
		}
	}

	if cfg.Album != "" {
		album, err := pp.GetAlbum(ctx, cfg.Album)
		if err != nil {
			closeFn()
			if photoprism.IsNotFoundError(err) {
				return nil, nil, fmt.Errorf("album %s not found in PhotoPrism", cfg.Album)
			}
			return nil, nil, fmt.Errorf("could not load album: %w", err)
		}
		fmt.Printf("Syncing album %q (%d photos)\n", album.Title, album.PhotoCount)
	}

	source := photoprism.NewSource(pp, photoprism.SourceOptions{
		AlbumUID:   cfg.Album,
		Query:      cfg.Query,
		Labels:     cfg.Labels,
		MaxResults: cfg.MaxResults,
	})
	items, err := source.Items(ctx)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("could not list PhotoPrism photos: %w", err)
	}
	manifest.Merge(items)
	fmt.Printf("Synced %d photos from PhotoPrism\n", len(items))
	return source, closeFn, nil
}

// newPublisher builds the publisher for a command. A disabled publisher is
// returned as is; callers decide whether that is fatal. thumbs may be nil.
func newPublisher(ctx context.Context, cfg *config.Config, thumbs catalog.ThumbnailSource) *og.Publisher {
	return og.New(ctx, cfg.OG, cfg.Storage, og.Options{Thumbnails: thumbs})
}

// requireEnabled turns a disabled publisher into a command error.
func requireEnabled(p *og.Publisher) error {
	if p.Enabled() {
		return nil
	}
	err := p.Err()
	if err == nil {
		err = og.ErrDisabled
	}
	return fmt.Errorf("cannot publish: %w", err)
}

// findItem looks up an item, listing the manifest size when it is missing.
func findItem(manifest *catalog.Manifest, id string) (*catalog.Item, error) {
	if item := manifest.Find(id); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("item %q not found in manifest (%d items)", id, len(manifest.Data))
}
