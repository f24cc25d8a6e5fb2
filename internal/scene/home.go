package scene

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/layout"
)

// CollageSize is the number of background photos on the homepage card (two rows of three).
const CollageSize = 6

// HomeStats are the site-wide counters shown on the homepage card.
type HomeStats struct {
	Photos     int
	Tags       int
	Cameras    int
	LatestYear int // 0 when unknown
}

// HomeData is the input of the homepage card.
type HomeData struct {
	SiteName    string
	Description string
	Stats       HomeStats
	Avatar      *assets.ImageRef
	Collage     []*assets.ImageRef
}

var printer = message.NewPrinter(language.English)

// StatLabels formats the non-empty counters, photo count always first.
func StatLabels(s HomeStats) []string {
	labels := []string{plural(s.Photos, "photo", "photos")}
	if s.Tags > 0 {
		labels = append(labels, plural(s.Tags, "tag", "tags"))
	}
	if s.Cameras > 0 {
		labels = append(labels, plural(s.Cameras, "camera", "cameras"))
	}
	if s.LatestYear > 0 {
		labels = append(labels, "Latest "+strconv.Itoa(s.LatestYear))
	}
	return labels
}

func plural(n int, one, many string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, one)
	}
	return printer.Sprintf("%d %s", n, many)
}

// ComposeHome lays out the site-level card: optional dimmed collage, optional round avatar,
// site name, description and the stats row.
func ComposeHome(data HomeData, theme Theme, m Measurer) *Scene {
	const (
		w       = layout.CanvasW
		h       = layout.CanvasH
		padding = 80.0
		avatarD = 120.0
		gap     = 22.0
		nameSz  = 64.0
		descSz  = 26.0
		statSz  = 20.0
	)

	s := &Scene{Width: constants.CanvasWidth, Height: constants.CanvasHeight, Theme: theme}

	if collage := nonNil(data.Collage); len(collage) > 0 {
		cellW, cellH := w/3, h/2
		for i := 0; i < CollageSize; i++ {
			img := collage[i%len(collage)]
			s.Elements = append(s.Elements, Element{
				Kind: KindImage, X: float64(i%3) * cellW, Y: float64(i/3) * cellH, W: cellW, H: cellH,
				Image: img, Fit: layout.FitCover, Opacity: 0.45,
			})
		}
		s.Elements = append(s.Elements, Element{Kind: KindRect, W: w, H: h, Fill: colorDim})
	}

	name := data.SiteName
	if name == "" {
		name = theme.SiteName
	}
	contentW := w - 2*padding
	pm := panelMetrics(false)

	rows := []row{}
	if data.Avatar != nil {
		avatar := data.Avatar
		rows = append(rows, row{
			kind: rowAccent, height: avatarD,
			build: func(x, top, _ float64, _ bool) []Element {
				return []Element{
					{Kind: KindImage, X: x, Y: top, W: avatarD, H: avatarD, Radius: avatarD / 2, Image: avatar, Fit: layout.FitCover},
					{Kind: KindRect, X: x, Y: top, W: avatarD, H: avatarD, Radius: avatarD / 2, Fill: withAlpha(colorFrame, 0), Stroke: theme.Accent, StrokeWidth: 4},
				}
			},
		})
	}
	rows = append(rows,
		accentRow(theme, pm),
		textRow(rowTitle, Truncate(m, name, nameSz, Bold, contentW), nameSz, Bold, colorTitle, m),
	)
	if data.Description != "" {
		rows = append(rows, textRow(rowCamera, Truncate(m, data.Description, descSz, Regular, contentW), descSz, Regular, colorSecondary, m))
	}
	rows = append(rows, chipRow(rowTags, StatLabels(data.Stats), statSz, colorSecondary, pm, m))

	rows = fitRows(rows, gap, h-2*padding)
	top := (h - stackHeight(rows, gap)) / 2
	s.Elements = append(s.Elements, placeRows(rows, gap, padding, top, contentW, false)...)
	return s
}

func nonNil(refs []*assets.ImageRef) []*assets.ImageRef {
	var out []*assets.ImageRef
	for _, r := range refs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
