package photoprism

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
)

// SourceOptions selects which PhotoPrism photos become catalog items.
type SourceOptions struct {
	AlbumUID   string // when set, only photos of this album
	Query      string // PhotoPrism search query, ignored when AlbumUID is set
	PageSize   int
	Labels     bool // fetch labels as tags, one extra request per photo
	ThumbSize  string
	MaxResults int // 0 means no limit
}

// Source adapts a PhotoPrism library to the catalog ports.
type Source struct {
	pp   *PhotoPrism
	opts SourceOptions

	mu     sync.RWMutex
	hashes map[string]string // item ID -> thumbnail hash
}

// NewSource creates a catalog source backed by the given client.
func NewSource(pp *PhotoPrism, opts SourceOptions) *Source {
	if opts.PageSize <= 0 {
		opts.PageSize = constants.DefaultPageSize
	}
	if opts.ThumbSize == "" {
		opts.ThumbSize = constants.ThumbnailSize
	}
	return &Source{pp: pp, opts: opts, hashes: make(map[string]string)}
}

// Items pages through PhotoPrism and converts every photo to a catalog item.
func (s *Source) Items(ctx context.Context) ([]*catalog.Item, error) {
	var items []*catalog.Item
	offset := 0
	for {
		var (
			page []Photo
			err  error
		)
		if s.opts.AlbumUID != "" {
			page, err = s.pp.GetAlbumPhotos(ctx, s.opts.AlbumUID, s.opts.PageSize, offset)
		} else {
			page, err = s.pp.GetPhotosWithQuery(ctx, s.opts.PageSize, offset, s.opts.Query)
		}
		if err != nil {
			return nil, fmt.Errorf("could not list photos at offset %d: %w", offset, err)
		}

		for i := range page {
			if page[i].Type != "" && page[i].Type != "image" && page[i].Type != "raw" && page[i].Type != "live" {
				continue
			}
			item := s.toItem(ctx, &page[i])
			items = append(items, item)
			if s.opts.MaxResults > 0 && len(items) >= s.opts.MaxResults {
				return items, nil
			}
		}

		if len(page) < s.opts.PageSize {
			break
		}
		offset += len(page)
	}
	return items, nil
}

func (s *Source) toItem(ctx context.Context, p *Photo) *catalog.Item {
	s.mu.Lock()
	s.hashes[p.UID] = p.Hash
	s.mu.Unlock()

	item := &catalog.Item{
		ID:           p.UID,
		Title:        p.Title,
		Description:  p.Description,
		Width:        p.Width,
		Height:       p.Height,
		DateTaken:    p.TakenAt,
		LastModified: p.UpdatedAt,
		Exif:         photoMetadata(p),
	}

	if s.opts.Labels {
		labels, err := s.pp.GetPhotoLabels(ctx, p.UID)
		if err != nil {
			slog.Debug("could not fetch labels", "photo", p.UID, "error", err)
		} else {
			item.Tags = labels
		}
	}
	return item
}

func photoMetadata(p *Photo) *catalog.Metadata {
	meta := &catalog.Metadata{
		Make:         catalog.Text(p.CameraMake),
		Model:        catalog.Text(p.CameraModel),
		ExposureTime: catalog.Text(p.Exposure),
	}
	if p.FocalLength > 0 {
		meta.FocalLength = catalog.Text(strconv.Itoa(p.FocalLength))
	}
	if p.FNumber > 0 {
		meta.FNumber = catalog.Text(strconv.FormatFloat(p.FNumber, 'f', -1, 64))
	}
	if p.Iso > 0 {
		meta.ISO = catalog.Text(strconv.Itoa(p.Iso))
	}
	if p.TakenAtLocal != "" {
		meta.DateTimeOriginal = catalog.Text(p.TakenAtLocal)
	}
	if *meta == (catalog.Metadata{}) {
		return nil
	}
	return meta
}

// Thumbnail downloads the item thumbnail. Items not listed by this source yield (nil, nil).
func (s *Source) Thumbnail(ctx context.Context, item *catalog.Item) ([]byte, error) {
	s.mu.RLock()
	hash, ok := s.hashes[item.ID]
	s.mu.RUnlock()
	if !ok || hash == "" {
		return nil, nil
	}

	data, _, err := s.pp.GetPhotoThumbnail(ctx, hash, s.opts.ThumbSize)
	if err != nil {
		return nil, fmt.Errorf("could not download thumbnail for %s: %w", item.ID, err)
	}
	return data, nil
}
