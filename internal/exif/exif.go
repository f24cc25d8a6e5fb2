// Package exif condenses raw camera metadata into the short strings shown on a preview card.
package exif

import (
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/photo-og/internal/catalog"
)

// Summary holds the display values derived from an item's metadata.
// Empty fields are absent.
type Summary struct {
	FocalLength  string
	Aperture     string
	ISO          string
	ShutterSpeed string
	Camera       string
}

// Chips returns the exposure values in display order, skipping absent ones.
func (s *Summary) Chips() []string {
	if s == nil {
		return nil
	}
	var chips []string
	for _, v := range []string{s.FocalLength, s.Aperture, s.ShutterSpeed, s.ISO} {
		if v != "" {
			chips = append(chips, v)
		}
	}
	return chips
}

// Summarize derives the display summary. It returns nil when no field would be present.
func Summarize(meta catalog.Metadata) *Summary {
	s := Summary{
		FocalLength:  focalLength(meta),
		Aperture:     aperture(meta.FNumber),
		ISO:          meta.ISO.String(),
		ShutterSpeed: shutter(meta.ExposureTime),
		Camera:       camera(meta.Make.String(), meta.Model.String()),
	}
	if s == (Summary{}) {
		return nil
	}
	return &s
}

func focalLength(meta catalog.Metadata) string {
	v := meta.FocalLengthIn35mm
	if v.Empty() {
		v = meta.FocalLength
	}
	if v.Empty() {
		return ""
	}
	if f, ok := v.Float(); ok {
		return formatNumber(f) + "mm"
	}
	s := v.String()
	if strings.HasSuffix(strings.ToLower(s), "mm") {
		return s
	}
	return s + "mm"
}

func aperture(v catalog.Text) string {
	if v.Empty() {
		return ""
	}
	s := v.String()
	if f, ok := v.Float(); ok {
		s = formatNumber(f)
	}
	if strings.HasPrefix(strings.ToLower(s), "f/") {
		return "f/" + s[2:]
	}
	return "f/" + s
}

func shutter(v catalog.Text) string {
	if v.Empty() {
		return ""
	}
	s := v.String()
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

func camera(brand, model string) string {
	switch {
	case brand == "" && model == "":
		return ""
	case brand == "":
		return model
	case model == "":
		return brand
	case strings.HasPrefix(strings.ToLower(model), strings.ToLower(brand)):
		return model
	default:
		return brand + " " + model
	}
}

// formatNumber renders whole numbers without a decimal point.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006:01:02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DisplayDateLayout is the medium date format used on preview cards.
const DisplayDateLayout = "Jan 2, 2006"

// ParseDate parses the timestamp formats found in catalog manifests and EXIF blocks.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders value as "Jan 2, 2006". The second result is false when value does not parse.
func FormatDate(value string) (string, bool) {
	t, ok := ParseDate(value)
	if !ok {
		return "", false
	}
	return t.Format(DisplayDateLayout), true
}
