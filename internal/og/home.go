package og

import (
	"context"
	"slices"
	"strings"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/exif"
	"github.com/kozaktomas/photo-og/internal/render"
	"github.com/kozaktomas/photo-og/internal/scene"
)

// HomeKey returns the remote key of the homepage card.
func (p *Publisher) HomeKey() string {
	return RemoteKey(p.prefix, constants.HomeImageName)
}

// Stats counts photos, distinct tags, distinct cameras and the latest capture year.
func Stats(items []*catalog.Item) scene.HomeStats {
	tags := make(map[string]struct{})
	cameras := make(map[string]struct{})
	stats := scene.HomeStats{Photos: len(items)}

	for _, it := range items {
		for _, tag := range it.Tags {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
				tags[tag] = struct{}{}
			}
		}
		if summary := exif.Summarize(it.Meta()); summary != nil && summary.Camera != "" {
			cameras[summary.Camera] = struct{}{}
		}
		if t, ok := exif.ParseDate(it.CaptureTime()); ok && t.Year() > stats.LatestYear {
			stats.LatestYear = t.Year()
		}
	}
	stats.Tags = len(tags)
	stats.Cameras = len(cameras)
	return stats
}

// newest returns up to n items ordered by capture time, most recent first.
// Items without a parseable date go last, in their original order.
func newest(items []*catalog.Item, n int) []*catalog.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *catalog.Item) int {
		ta, okA := exif.ParseDate(a.CaptureTime())
		tb, okB := exif.ParseDate(b.CaptureTime())
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return sorted[:min(n, len(sorted))]
}

// HomeData gathers the homepage card input. Missing thumbnails and avatar
// are left out.
func (p *Publisher) HomeData(ctx context.Context, items []*catalog.Item) scene.HomeData {
	site := p.Site()
	data := scene.HomeData{
		SiteName:    site.SiteName,
		Description: site.Description,
		Stats:       Stats(items),
	}
	if site.Avatar != "" {
		data.Avatar = p.resolver.Fetch(ctx, site.Avatar)
	}
	for _, it := range newest(items, scene.CollageSize) {
		if img := p.Photo(ctx, it); img != nil {
			data.Collage = append(data.Collage, img)
		}
	}
	return data
}

// PublishHome renders and publishes the site-level card under the home key,
// following the same dedup and URL cache rules as items.
func (p *Publisher) PublishHome(ctx context.Context, items []*catalog.Item, sig Signal) Outcome {
	out := Outcome{ItemID: constants.HomeImageName, Key: p.HomeKey()}
	return p.publish(ctx, out, sig, func(r *render.Renderer) ([]byte, error) {
		return r.RenderHome(p.HomeData(ctx, items), p.Theme())
	}, func(string) {})
}

// RenderHome renders the homepage card without publishing it.
func (p *Publisher) RenderHome(ctx context.Context, items []*catalog.Item) ([]byte, error) {
	r, err := p.Renderer()
	if err != nil {
		return nil, err
	}
	return r.RenderHome(p.HomeData(ctx, items), p.Theme())
}
