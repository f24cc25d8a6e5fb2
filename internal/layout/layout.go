// Package layout picks the composition of an OG image from the photo's aspect ratio
// and fits the photo region into its box.
package layout

import (
	"math"

	"github.com/kozaktomas/photo-og/internal/constants"
)

// Canvas dimensions in pixels.
const (
	CanvasW = float64(constants.CanvasWidth)
	CanvasH = float64(constants.CanvasHeight)
)

// CanvasAspect is the width/height ratio of the canvas (~1.91).
const CanvasAspect = CanvasW / CanvasH

// Classification thresholds.
const (
	portraitMax     = 0.9
	squareMax       = 1.1
	wideMin         = 2.35
	splitRatioLimit = 0.82
)

// Category is the aspect-ratio class of a photo.
type Category string

const (
	CategoryPortrait  Category = "portrait"
	CategorySquare    Category = "square"
	CategoryLandscape Category = "landscape"
	CategoryWide      Category = "wide"
)

// Arrangement is the spatial pattern used to place the photo and the info panel.
type Arrangement string

const (
	ArrangementSplit Arrangement = "split"
	ArrangementStack Arrangement = "stack"
	ArrangementWide  Arrangement = "wide"
)

// Fit controls how the source image fills the photo frame.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
)

// Box is the maximum extent of the photo region.
type Box struct {
	MaxWidth  float64
	MaxHeight float64
}

// Size is a fitted width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Config describes how a single OG image is laid out.
type Config struct {
	Category    Category
	Arrangement Arrangement
	Padding     float64
	Gap         float64
	PhotoBox    Box
	InfoCompact bool
	PhotoFit    Fit
}

// NormalizeAspect clamps non-finite or non-positive aspect ratios to 1.
func NormalizeAspect(aspect float64) float64 {
	if math.IsNaN(aspect) || math.IsInf(aspect, 0) || aspect <= 0 {
		return 1
	}
	return aspect
}

// AspectOf returns width/height with both sides coerced to at least 1.
func AspectOf(width, height int) float64 {
	return float64(max(width, 1)) / float64(max(height, 1))
}

// Classify returns the layout for a photo with the given aspect ratio.
// Boundaries are closed on the square side: 0.9 and 1.1 are both square, 2.35 is wide.
func Classify(aspect float64) Config {
	a := NormalizeAspect(aspect)

	switch {
	case a < portraitMax:
		return splitConfig(CategoryPortrait, 0.44)
	case a <= squareMax:
		return splitConfig(CategorySquare, 0.50)
	case a >= wideMin:
		padding := 50.0
		return Config{
			Category:    CategoryWide,
			Arrangement: ArrangementWide,
			Padding:     padding,
			Gap:         28,
			PhotoBox:    Box{MaxWidth: CanvasW - padding*2, MaxHeight: 340},
			InfoCompact: true,
			PhotoFit:    FitContain,
		}
	default:
		padding := 54.0
		arrangement := ArrangementStack
		if a/CanvasAspect <= splitRatioLimit {
			arrangement = ArrangementSplit
		}
		return Config{
			Category:    CategoryLandscape,
			Arrangement: arrangement,
			Padding:     padding,
			Gap:         26,
			PhotoBox:    Box{MaxWidth: CanvasW - padding*2, MaxHeight: 410},
			InfoCompact: arrangement == ArrangementStack,
			PhotoFit:    FitCover,
		}
	}
}

func splitConfig(category Category, widthShare float64) Config {
	padding := 60.0
	return Config{
		Category:    category,
		Arrangement: ArrangementSplit,
		Padding:     padding,
		Gap:         44,
		PhotoBox:    Box{MaxWidth: CanvasW * widthShare, MaxHeight: CanvasH - padding*2},
		InfoCompact: false,
		PhotoFit:    FitCover,
	}
}

// FitContain returns the largest size with the given aspect that fits inside box.
func FitContain(aspect float64, box Box) Size {
	a := NormalizeAspect(aspect)
	width := box.MaxWidth
	height := width / a
	if height > box.MaxHeight {
		height = box.MaxHeight
		width = height * a
	}
	return Size{Width: width, Height: height}
}

// PhotoSize returns the photo frame size for this layout.
func (c Config) PhotoSize(aspect float64) Size {
	return FitContain(aspect, c.PhotoBox)
}
