package scene

import (
	"image/color"

	"github.com/kozaktomas/photo-og/internal/assets"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/layout"
)

// PlaceholderText is drawn in the photo frame when no thumbnail could be resolved.
const PlaceholderText = "No Preview"

// ItemData is everything the composer shows for one catalog item.
type ItemData struct {
	Title  string
	Tags   []string
	Camera string
	Chips  []string // exposure values in display order
	Date   string
	Photo  *assets.ImageRef
	Aspect float64
}

// metrics are the panel dimensions before compact scaling.
type metrics struct {
	title, tag, camera, chip, date float64 // font sizes
	chipPadX, chipPadY, chipGap    float64
	rowGap                         float64
	accentW, accentH               float64
	frameRadius                    float64
	maxTags                        int
}

func panelMetrics(compact bool) metrics {
	m := metrics{
		title: 52, tag: 20, camera: 24, chip: 19, date: 20,
		chipPadX: 16, chipPadY: 8, chipGap: 10,
		rowGap:  20,
		accentW: 96, accentH: 6,
		frameRadius: 24,
		maxTags:     3,
	}
	if !compact {
		return m
	}
	const s = 0.8
	m.title *= s
	m.tag *= s
	m.camera *= s
	m.chip *= s
	m.date *= s
	m.chipPadX *= s
	m.chipPadY *= s
	m.chipGap *= s
	m.rowGap = 14
	m.accentW = 64
	m.frameRadius = 20
	m.maxTags = 2
	return m
}

// rowKind identifies an info panel row. Rows overflowing the panel are dropped in dropOrder.
type rowKind int

const (
	rowAccent rowKind = iota
	rowTitle
	rowTags
	rowCamera
	rowExif
	rowDate
)

var dropOrder = []rowKind{rowDate, rowExif, rowCamera, rowTags}

type row struct {
	kind   rowKind
	height float64
	build  func(x, top, width float64, centered bool) []Element
}

// Compose lays out the preview card for one item.
func Compose(data ItemData, cfg layout.Config, theme Theme, m Measurer) *Scene {
	const (
		w = layout.CanvasW
		h = layout.CanvasH
	)
	pm := panelMetrics(cfg.InfoCompact)
	photo := cfg.PhotoSize(data.Aspect)
	p := cfg.Padding

	s := &Scene{Width: constants.CanvasWidth, Height: constants.CanvasHeight, Theme: theme}

	switch cfg.Arrangement {
	case layout.ArrangementSplit:
		px, py := p, (h-photo.Height)/2
		s.Elements = append(s.Elements, photoFrame(data.Photo, cfg.PhotoFit, px, py, photo, pm.frameRadius)...)

		infoX := px + photo.Width + cfg.Gap
		infoW := w - infoX - p
		rows := fitRows(infoRows(data, theme, m, pm, infoW), pm.rowGap, h-2*p)
		top := (h - stackHeight(rows, pm.rowGap)) / 2
		s.Elements = append(s.Elements, placeRows(rows, pm.rowGap, infoX, top, infoW, false)...)

	default: // stack and wide put the info below the photo
		centered := cfg.Arrangement == layout.ArrangementStack
		infoW := w - 2*p
		infoX := p
		if centered {
			infoW = min(photo.Width, infoW)
			infoX = (w - infoW) / 2
		}

		rows := fitRows(infoRows(data, theme, m, pm, infoW), pm.rowGap, h-2*p-photo.Height-cfg.Gap)
		total := photo.Height + cfg.Gap + stackHeight(rows, pm.rowGap)
		top := max((h-total)/2, p)

		px := (w - photo.Width) / 2
		if !centered {
			px = p
		}
		s.Elements = append(s.Elements, photoFrame(data.Photo, cfg.PhotoFit, px, top, photo, pm.frameRadius)...)
		s.Elements = append(s.Elements, placeRows(rows, pm.rowGap, infoX, top+photo.Height+cfg.Gap, infoW, centered)...)
	}
	return s
}

func photoFrame(img *assets.ImageRef, fit layout.Fit, x, y float64, size layout.Size, radius float64) []Element {
	frame := Element{
		Kind: KindRect, X: x, Y: y, W: size.Width, H: size.Height, Radius: radius,
		Fill: colorFrame, Stroke: colorBorder, StrokeWidth: 2,
	}
	if img == nil {
		return []Element{frame, {
			Kind: KindText, X: x + size.Width/2, Y: y + size.Height/2 + 10,
			Text: PlaceholderText, Size: 28, Weight: Bold, Anchor: AnchorMiddle, Fill: colorMuted,
		}}
	}
	border := frame
	border.Fill = withAlpha(colorFrame, 0)
	return []Element{frame, {
		Kind: KindImage, X: x, Y: y, W: size.Width, H: size.Height, Radius: radius,
		Image: img, Fit: fit,
	}, border}
}

func infoRows(data ItemData, theme Theme, m Measurer, pm metrics, width float64) []row {
	rows := []row{accentRow(theme, pm)}

	title := data.Title
	if title == "" {
		title = "Untitled"
	}
	rows = append(rows, textRow(rowTitle, Truncate(m, title, pm.title, Bold, width), pm.title, Bold, colorTitle, m))

	if tags := chipLabels(data.Tags, pm.maxTags, "#"); len(tags) > 0 {
		rows = append(rows, chipRow(rowTags, tags, pm.tag, theme.Accent, pm, m))
	}
	if data.Camera != "" {
		rows = append(rows, textRow(rowCamera, Truncate(m, data.Camera, pm.camera, Regular, width), pm.camera, Regular, colorSecondary, m))
	}
	if len(data.Chips) > 0 {
		rows = append(rows, chipRow(rowExif, data.Chips, pm.chip, colorSecondary, pm, m))
	}
	if data.Date != "" {
		rows = append(rows, textRow(rowDate, data.Date, pm.date, Regular, colorMuted, m))
	}
	return rows
}

func accentRow(theme Theme, pm metrics) row {
	return row{
		kind: rowAccent, height: pm.accentH,
		build: func(x, top, w float64, centered bool) []Element {
			if centered {
				x += (w - pm.accentW) / 2
			}
			return []Element{{Kind: KindRect, X: x, Y: top, W: pm.accentW, H: pm.accentH, Radius: pm.accentH / 2, Fill: theme.Accent}}
		},
	}
}

func lineHeight(size float64) float64 { return size * 1.25 }

func textRow(kind rowKind, text string, size float64, weight Weight, c color.NRGBA, m Measurer) row {
	return row{
		kind: kind, height: lineHeight(size),
		build: func(x, top, w float64, centered bool) []Element {
			el := Element{
				Kind: KindText, X: x, Y: top + size, H: lineHeight(size),
				Text: text, Size: size, Weight: weight, Anchor: AnchorStart, Fill: c,
				W: m.Measure(text, size, weight),
			}
			if centered {
				el.X = x + w/2
				el.Anchor = AnchorMiddle
			}
			return []Element{el}
		},
	}
}

func chipLabels(values []string, limit int, prefix string) []string {
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, prefix+v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// chipRow draws pill-shaped labels, keeping as many as fit the panel width.
func chipRow(kind rowKind, labels []string, size float64, textColor color.NRGBA, pm metrics, m Measurer) row {
	chipH := size + 2*pm.chipPadY
	return row{
		kind: kind, height: chipH,
		build: func(x, top, w float64, centered bool) []Element {
			var widths []float64
			total := 0.0
			for _, label := range labels {
				cw := m.Measure(label, size, Regular) + 2*pm.chipPadX
				next := total + cw
				if len(widths) > 0 {
					next += pm.chipGap
				}
				if next > w {
					break
				}
				widths = append(widths, cw)
				total = next
			}
			if centered {
				x += (w - total) / 2
			}

			var els []Element
			for i, cw := range widths {
				els = append(els,
					Element{Kind: KindRect, X: x, Y: top, W: cw, H: chipH, Radius: chipH / 2, Fill: colorChip, Stroke: colorChipEdge, StrokeWidth: 1},
					Element{Kind: KindText, X: x + cw/2, Y: top + pm.chipPadY + size*0.85, Text: labels[i], Size: size, Weight: Regular, Anchor: AnchorMiddle, Fill: textColor, W: cw - 2*pm.chipPadX},
				)
				x += cw + pm.chipGap
			}
			return els
		},
	}
}

func stackHeight(rows []row, gap float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := gap * float64(len(rows)-1)
	for _, r := range rows {
		total += r.height
	}
	return total
}

// fitRows drops optional rows in dropOrder until the panel fits in avail.
// The accent bar and the title are always kept.
func fitRows(rows []row, gap, avail float64) []row {
	for _, kind := range dropOrder {
		if stackHeight(rows, gap) <= avail {
			break
		}
		for i, r := range rows {
			if r.kind == kind {
				rows = append(rows[:i:i], rows[i+1:]...)
				break
			}
		}
	}
	return rows
}

func placeRows(rows []row, gap, x, top, width float64, centered bool) []Element {
	var els []Element
	for _, r := range rows {
		els = append(els, r.build(x, top, width, centered)...)
		top += r.height + gap
	}
	return els
}
