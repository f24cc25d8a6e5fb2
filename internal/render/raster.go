package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // thumbnail decoders
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/photo-og/internal/layout"
	"github.com/kozaktomas/photo-og/internal/scene"
)

// kappa places cubic control points so a quarter curve approximates a circle.
const kappa = 0.5522847498

// Rasterize draws the document onto a transparent canvas and encodes it as PNG,
// scaled to the given width (height follows the canvas aspect).
func Rasterize(doc *Document, fonts *FontBundle, width int) ([]byte, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, doc.Width, doc.Height))

	drawGradient(dst, doc.GradientFrom, doc.GradientTo)
	drawGrid(dst, doc.GridSpacing, doc.GridColor)

	faces := fonts.newFaceCache()
	defer faces.close()

	for i, el := range doc.Elements {
		var err error
		switch el.Kind {
		case scene.KindRect:
			drawRect(dst, el)
		case scene.KindImage:
			err = drawImage(dst, el)
		case scene.KindText:
			err = drawText(dst, faces, el)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, el.Kind, err)
		}
	}

	var out image.Image = dst
	if width > 0 && width != doc.Width {
		out = imaging.Resize(dst, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("could not encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGradient fills dst with a top-left to bottom-right linear gradient.
func drawGradient(dst *image.NRGBA, from, to color.NRGBA) {
	b := dst.Bounds()
	w, h := float64(b.Dx()-1), float64(b.Dy()-1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := (float64(x)/w + float64(y)/h) / 2
			dst.SetNRGBA(x, y, lerp(from, to, t))
		}
	}
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func drawGrid(dst *image.NRGBA, spacing int, c color.NRGBA) {
	if spacing <= 0 || c.A == 0 {
		return
	}
	src := image.NewUniform(c)
	b := dst.Bounds()
	for x := b.Min.X; x < b.Max.X; x += spacing {
		draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
	}
	for y := b.Min.Y; y < b.Max.Y; y += spacing {
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}

// roundRect appends a closed rounded-rectangle path. reverse flips the winding,
// which turns the shape into a hole when combined with an enclosing path.
func roundRect(z *vector.Rasterizer, x, y, w, h, r float64, reverse bool) {
	if w <= 0 || h <= 0 {
		return
	}
	r = max(0, min(r, w/2, h/2))
	k := r * kappa
	x0, y0, x1, y1 := float32(x), float32(y), float32(x+w), float32(y+h)
	rf, kf := float32(r), float32(k)

	if !reverse {
		z.MoveTo(x0+rf, y0)
		z.LineTo(x1-rf, y0)
		z.CubeTo(x1-rf+kf, y0, x1, y0+rf-kf, x1, y0+rf)
		z.LineTo(x1, y1-rf)
		z.CubeTo(x1, y1-rf+kf, x1-rf+kf, y1, x1-rf, y1)
		z.LineTo(x0+rf, y1)
		z.CubeTo(x0+rf-kf, y1, x0, y1-rf+kf, x0, y1-rf)
		z.LineTo(x0, y0+rf)
		z.CubeTo(x0, y0+rf-kf, x0+rf-kf, y0, x0+rf, y0)
		z.ClosePath()
		return
	}
	z.MoveTo(x0+rf, y0)
	z.CubeTo(x0+rf-kf, y0, x0, y0+rf-kf, x0, y0+rf)
	z.LineTo(x0, y1-rf)
	z.CubeTo(x0, y1-rf+kf, x0+rf-kf, y1, x0+rf, y1)
	z.LineTo(x1-rf, y1)
	z.CubeTo(x1-rf+kf, y1, x1, y1-rf+kf, x1, y1-rf)
	z.LineTo(x1, y0+rf)
	z.CubeTo(x1, y0+rf-kf, x1-rf+kf, y0, x1-rf, y0)
	z.ClosePath()
}

func newRasterizer(dst image.Image) *vector.Rasterizer {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func drawRect(dst *image.NRGBA, el scene.Element) {
	if el.Fill.A > 0 {
		z := newRasterizer(dst)
		roundRect(z, el.X, el.Y, el.W, el.H, el.Radius, false)
		z.Draw(dst, dst.Bounds(), image.NewUniform(el.Fill), image.Point{})
	}
	if el.StrokeWidth > 0 && el.Stroke.A > 0 {
		half := el.StrokeWidth / 2
		z := newRasterizer(dst)
		roundRect(z, el.X-half, el.Y-half, el.W+el.StrokeWidth, el.H+el.StrokeWidth, el.Radius+half, false)
		roundRect(z, el.X+half, el.Y+half, el.W-el.StrokeWidth, el.H-el.StrokeWidth, max(el.Radius-half, 0), true)
		z.Draw(dst, dst.Bounds(), image.NewUniform(el.Stroke), image.Point{})
	}
}

// decodeImage decodes jpeg, png, webp or bmp bytes, honoring EXIF orientation.
func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return img, nil
}

func drawImage(dst *image.NRGBA, el scene.Element) error {
	if el.Image == nil || el.W < 1 || el.H < 1 {
		return nil
	}
	src, err := decodeImage(el.Image.Data)
	if err != nil {
		return err
	}

	w, h := int(el.W+0.5), int(el.H+0.5)
	var fitted image.Image
	if el.Fit == layout.FitContain {
		fitted = imaging.Fit(src, w, h, imaging.Lanczos)
	} else {
		fitted = imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
	}

	fb := fitted.Bounds()
	ox := int(el.X+0.5) + (w-fb.Dx())/2
	oy := int(el.Y+0.5) + (h-fb.Dy())/2
	target := image.Rect(ox, oy, ox+fb.Dx(), oy+fb.Dy())

	// Clip to the rounded frame and apply opacity through a single mask.
	mask := image.NewAlpha(dst.Bounds())
	z := vector.NewRasterizer(mask.Bounds().Dx(), mask.Bounds().Dy())
	roundRect(z, el.X, el.Y, el.W, el.H, el.Radius, false)
	opacity := 1.0
	if el.Opacity > 0 {
		opacity = el.Opacity
	}
	z.Draw(mask, mask.Bounds(), image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)}), image.Point{})

	draw.DrawMask(dst, target, fitted, fb.Min, mask, target.Min, draw.Over)
	return nil
}

func drawText(dst *image.NRGBA, faces *faceCache, el scene.Element) error {
	if el.Text == "" || el.Size <= 0 {
		return nil
	}
	face, err := faces.get(el.Size, el.Weight)
	if err != nil {
		return err
	}

	x := el.X
	switch el.Anchor {
	case scene.AnchorMiddle:
		x -= float64(font.MeasureString(face, el.Text)) / 64 / 2
	case scene.AnchorEnd:
		x -= float64(font.MeasureString(face, el.Text)) / 64
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(el.Fill),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(el.Y * 64)},
	}
	d.DrawString(el.Text)
	return nil
}
