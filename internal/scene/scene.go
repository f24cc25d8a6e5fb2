// Package scene describes an OG image as absolutely positioned shapes, text and images.
// A Scene is independent of any output format; the render package turns it into SVG or PNG.
package scene

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/layout"
)

// Kind identifies what an Element draws.
type Kind string

const (
	KindRect  Kind = "rect"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Weight selects the typeface.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Anchor is the horizontal alignment of a text element relative to X.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Element is a single drawable. Coordinates are canvas pixels.
// For text, Y is the baseline and W is the measured width.
type Element struct {
	Kind        Kind
	X, Y, W, H  float64
	Radius      float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64

	Text   string
	Size   float64
	Weight Weight
	Anchor Anchor

	Image   *assets.ImageRef
	Fit     layout.Fit
	Opacity float64 // 0 means fully opaque
}

// Scene is the full composition of one canvas.
type Scene struct {
	Width    int
	Height   int
	Theme    Theme
	Elements []Element
}

// Measurer reports the advance width of text at a font size.
type Measurer interface {
	Measure(text string, size float64, weight Weight) float64
}

// Theme carries site-level styling.
type Theme struct {
	SiteName string
	Accent   color.NRGBA
}

// NewTheme builds a theme, falling back to the default accent when hex does not parse.
func NewTheme(siteName, hex string) Theme {
	return Theme{SiteName: siteName, Accent: ParseColor(hex)}
}

// ParseColor parses a #rgb or #rrggbb color. Invalid input yields the default accent.
func ParseColor(hex string) color.NRGBA {
	c, err := colorful.Hex(expandHex(strings.TrimSpace(hex)))
	if err != nil {
		c, _ = colorful.Hex(constants.DefaultAccentColor)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func expandHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}

// Palette.
var (
	colorTitle     = color.NRGBA{R: 245, G: 245, B: 247, A: 255}
	colorSecondary = color.NRGBA{R: 205, G: 205, B: 215, A: 255}
	colorMuted     = color.NRGBA{R: 150, G: 150, B: 165, A: 255}
	colorFrame     = color.NRGBA{R: 28, G: 28, B: 34, A: 255}
	colorBorder    = color.NRGBA{R: 255, G: 255, B: 255, A: 36}
	colorChip      = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	colorChipEdge  = color.NRGBA{R: 255, G: 255, B: 255, A: 34}
	colorDim       = color.NRGBA{R: 8, G: 8, B: 12, A: 150}
)

// withAlpha returns c with its alpha replaced.
func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Truncate shortens text with an ellipsis so it fits in maxWidth.
func Truncate(m Measurer, text string, size float64, weight Weight, maxWidth float64) string {
	text = strings.TrimSpace(text)
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if m.Measure(text, size, weight) <= maxWidth {
		return text
	}

	const ellipsis = "…"
	runes := []rune(text)
	lo, hi := 0, len(runes)
	// Largest prefix that still fits together with the ellipsis.
	for lo < hi {
		mid := (lo + hi + 1) / 2
		candidate := strings.TrimRight(string(runes[:mid]), " ") + ellipsis
		if m.Measure(candidate, size, weight) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 {
		return ""
	}
	return strings.TrimRight(string(runes[:lo]), " ") + ellipsis
}
