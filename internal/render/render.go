package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/exif"
	"github.com/kozaktomas/photo-og/internal/layout"
	"github.com/kozaktomas/photo-og/internal/scene"
)

// Renderer produces OG images from catalog items. It holds no per-call state
// and is safe for concurrent use.
type Renderer struct {
	fonts *FontBundle
	width int
}

// NewRenderer creates a renderer that outputs images constants.CanvasWidth pixels wide.
func NewRenderer(fonts *FontBundle) *Renderer {
	return &Renderer{fonts: fonts, width: constants.CanvasWidth}
}

// Fonts returns the bundle the renderer measures and draws with.
func (r *Renderer) Fonts() *FontBundle {
	return r.fonts
}

// ItemScene composes the card for one item. photo may be nil, in which case
// the placeholder is drawn.
func (r *Renderer) ItemScene(item *catalog.Item, photo *assets.ImageRef, theme scene.Theme) *scene.Scene {
	w, h := item.Dimensions()
	aspect := layout.AspectOf(w, h)

	data := scene.ItemData{
		Title:  item.Title,
		Tags:   item.Tags,
		Photo:  usable(item.ID, photo),
		Aspect: aspect,
	}
	if summary := exif.Summarize(item.Meta()); summary != nil {
		data.Camera = summary.Camera
		data.Chips = summary.Chips()
	}
	if date, ok := exif.FormatDate(item.CaptureTime()); ok {
		data.Date = date
	}

	return scene.Compose(data, layout.Classify(aspect), theme, r.fonts)
}

// RenderItem renders the PNG card for one item.
func (r *Renderer) RenderItem(item *catalog.Item, photo *assets.ImageRef, theme scene.Theme) ([]byte, error) {
	return r.PNG(r.ItemScene(item, photo, theme))
}

// HomeScene composes the site-level card.
func (r *Renderer) HomeScene(data scene.HomeData, theme scene.Theme) *scene.Scene {
	data.Avatar = usable("avatar", data.Avatar)
	collage := make([]*assets.ImageRef, 0, len(data.Collage))
	for i, img := range data.Collage {
		if img = usable(fmt.Sprintf("collage-%d", i), img); img != nil {
			collage = append(collage, img)
		}
	}
	data.Collage = collage
	return scene.ComposeHome(data, theme, r.fonts)
}

// RenderHome renders the PNG card for the whole site.
func (r *Renderer) RenderHome(data scene.HomeData, theme scene.Theme) ([]byte, error) {
	return r.PNG(r.HomeScene(data, theme))
}

// PNG rasterizes a scene.
func (r *Renderer) PNG(s *scene.Scene) ([]byte, error) {
	data, err := Rasterize(NewDocument(s), r.fonts, r.width)
	if err != nil {
		return nil, fmt.Errorf("could not rasterize: %w", err)
	}
	return data, nil
}

// SVG writes the vector form of a scene.
func (r *Renderer) SVG(w io.Writer, s *scene.Scene) error {
	return NewDocument(s).WriteSVG(w, r.fonts)
}

// usable drops images whose format cannot be decoded so the placeholder is drawn instead.
func usable(id string, ref *assets.ImageRef) *assets.ImageRef {
	if ref == nil || len(ref.Data) == 0 {
		return nil
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(ref.Data)); err != nil {
		slog.Debug("ignoring undecodable image", "item", id, "content_type", ref.ContentType, "error", err)
		return nil
	}
	return ref
}
