// Package render turns a composed scene into a vector document and rasterizes it to PNG.
package render

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/photo-og/internal/layout"
	"github.com/kozaktomas/photo-og/internal/scene"
)

// Background styling shared by every document.
var (
	gradientFrom   = color.NRGBA{R: 14, G: 15, B: 22, A: 255}
	gradientTo     = color.NRGBA{R: 34, G: 30, B: 48, A: 255}
	gridColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 10}
	watermarkColor = color.NRGBA{R: 255, G: 255, B: 255, A: 110}
)

const (
	gridSpacing   = 40
	watermarkSize = 18
	fontFamily    = "OG Sans"
)

// Document is the vector description of a rendered card: background, grid,
// scene elements and the watermark, all in canvas coordinates.
type Document struct {
	Width        int
	Height       int
	GradientFrom color.NRGBA
	GradientTo   color.NRGBA
	GridSpacing  int
	GridColor    color.NRGBA
	Elements     []scene.Element
}

// NewDocument wraps a scene with the shared background and a bottom-right site watermark.
func NewDocument(s *scene.Scene) *Document {
	doc := &Document{
		Width:        s.Width,
		Height:       s.Height,
		GradientFrom: gradientFrom,
		GradientTo:   gradientTo,
		GridSpacing:  gridSpacing,
		GridColor:    gridColor,
		Elements:     make([]scene.Element, 0, len(s.Elements)+1),
	}
	for _, el := range s.Elements {
		if el.Kind == scene.KindText {
			el.Text = norm.NFC.String(el.Text)
		}
		doc.Elements = append(doc.Elements, el)
	}
	if name := strings.TrimSpace(s.Theme.SiteName); name != "" {
		doc.Elements = append(doc.Elements, scene.Element{
			Kind: scene.KindText, X: float64(s.Width) - 32, Y: float64(s.Height) - 28,
			Text: norm.NFC.String(name), Size: watermarkSize, Weight: scene.Bold,
			Anchor: scene.AnchorEnd, Fill: watermarkColor,
		})
	}
	return doc
}

type svgData struct {
	*Document
	Regular string
	Bold    string
	Family  string
}

var svgTemplate = template.Must(template.New("og").Funcs(template.FuncMap{
	"num":    num,
	"rgb":    rgb,
	"alpha":  alpha,
	"escape": escape,
	"aspect": preserveAspect,
	"weight": func(w scene.Weight) int {
		if w == scene.Bold {
			return 700
		}
		return 400
	},
	"datauri": func(el scene.Element) string { return el.Image.DataURI() },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<defs>
<style>
@font-face { font-family: "{{.Family}}"; font-weight: 400; src: url(data:font/ttf;base64,{{.Regular}}) format("truetype"); }
@font-face { font-family: "{{.Family}}"; font-weight: 700; src: url(data:font/ttf;base64,{{.Bold}}) format("truetype"); }
text { font-family: "{{.Family}}", sans-serif; }
</style>
<linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">
<stop offset="0" stop-color="{{rgb .GradientFrom}}"/>
<stop offset="1" stop-color="{{rgb .GradientTo}}"/>
</linearGradient>
<pattern id="grid" width="{{.GridSpacing}}" height="{{.GridSpacing}}" patternUnits="userSpaceOnUse">
<path d="M {{.GridSpacing}} 0 L 0 0 0 {{.GridSpacing}}" fill="none" stroke="{{rgb .GridColor}}" stroke-opacity="{{alpha .GridColor}}" stroke-width="1"/>
</pattern>
{{- range $i, $el := .Elements}}{{if and (eq $el.Kind "image") (gt $el.Radius 0.0)}}
<clipPath id="clip{{$i}}"><rect x="{{num $el.X}}" y="{{num $el.Y}}" width="{{num $el.W}}" height="{{num $el.H}}" rx="{{num $el.Radius}}"/></clipPath>
{{- end}}{{end}}
</defs>
<rect width="{{.Width}}" height="{{.Height}}" fill="url(#bg)"/>
<rect width="{{.Width}}" height="{{.Height}}" fill="url(#grid)"/>
{{- range $i, $el := .Elements}}
{{- if eq $el.Kind "rect"}}
<rect x="{{num $el.X}}" y="{{num $el.Y}}" width="{{num $el.W}}" height="{{num $el.H}}" rx="{{num $el.Radius}}" fill="{{rgb $el.Fill}}" fill-opacity="{{alpha $el.Fill}}"{{if gt $el.StrokeWidth 0.0}} stroke="{{rgb $el.Stroke}}" stroke-opacity="{{alpha $el.Stroke}}" stroke-width="{{num $el.StrokeWidth}}"{{end}}/>
{{- else if eq $el.Kind "image"}}
<image x="{{num $el.X}}" y="{{num $el.Y}}" width="{{num $el.W}}" height="{{num $el.H}}" preserveAspectRatio="{{aspect $el.Fit}}" href="{{datauri $el}}"{{if gt $el.Radius 0.0}} clip-path="url(#clip{{$i}})"{{end}}{{if gt $el.Opacity 0.0}} opacity="{{num $el.Opacity}}"{{end}}/>
{{- else if eq $el.Kind "text"}}
<text x="{{num $el.X}}" y="{{num $el.Y}}" font-size="{{num $el.Size}}" font-weight="{{weight $el.Weight}}" text-anchor="{{$el.Anchor}}" fill="{{rgb $el.Fill}}" fill-opacity="{{alpha $el.Fill}}">{{escape $el.Text}}</text>
{{- end}}
{{- end}}
</svg>
`))

// WriteSVG serializes the document with the font bundle embedded as @font-face rules.
func (d *Document) WriteSVG(w io.Writer, fonts *FontBundle) error {
	data := svgData{
		Document: d,
		Regular:  base64.StdEncoding.EncodeToString(fonts.RegularData),
		Bold:     base64.StdEncoding.EncodeToString(fonts.BoldData),
		Family:   fontFamily,
	}
	if err := svgTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("could not write svg: %w", err)
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func rgb(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) string {
	return strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
}

func escape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func preserveAspect(fit layout.Fit) string {
	if fit == layout.FitContain {
		return "xMidYMid meet"
	}
	return "xMidYMid slice"
}
