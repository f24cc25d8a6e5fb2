package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/scene"
)

// FontBundle holds the two parsed typefaces plus their raw bytes for SVG embedding.
type FontBundle struct {
	RegularData []byte
	BoldData    []byte

	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces *faceCache // shared by Measure, guarded by mu
}

// ParseFonts parses regular and bold font bytes.
func ParseFonts(regular, bold []byte) (*FontBundle, error) {
	r, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("could not parse regular font: %w", err)
	}
	b, err := opentype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("could not parse bold font: %w", err)
	}
	fb := &FontBundle{RegularData: regular, BoldData: bold, regular: r, bold: b}
	fb.faces = fb.newFaceCache()
	return fb, nil
}

// LoadFonts searches dirs for the required font files and parses them.
func LoadFonts(dirs []string) (*FontBundle, error) {
	files, err := assets.LoadFontFiles(dirs)
	if err != nil {
		return nil, err
	}
	return ParseFonts(files.Regular, files.Bold)
}

// Measure implements scene.Measurer.
func (b *FontBundle) Measure(text string, size float64, weight scene.Weight) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	face, err := b.faces.get(size, weight)
	if err != nil {
		// Fall back to a rough estimate so layout still works.
		return float64(len([]rune(text))) * size * 0.55
	}
	return float64(font.MeasureString(face, norm.NFC.String(text))) / 64
}

type faceKey struct {
	size   float64
	weight scene.Weight
}

// faceCache creates sized faces lazily. Faces are not safe for concurrent use,
// so every rasterization gets its own cache.
type faceCache struct {
	bundle *FontBundle
	faces  map[faceKey]font.Face
}

func (b *FontBundle) newFaceCache() *faceCache {
	return &faceCache{bundle: b, faces: make(map[faceKey]font.Face)}
}

func (c *faceCache) get(size float64, weight scene.Weight) (font.Face, error) {
	key := faceKey{size: size, weight: weight}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	src := c.bundle.regular
	if weight == scene.Bold {
		src = c.bundle.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create %.1fpx face: %w", size, err)
	}
	c.faces[key] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}
