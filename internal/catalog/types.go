package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text is a metadata value that may be encoded as a JSON string or number.
// Camera exports disagree on this (FNumber: 2.8 vs "2.8"), so both are accepted
// and kept in their textual form.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal text value: %w", err)
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal numeric value: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// String returns the trimmed textual value.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Empty reports whether the value carries no information.
func (t Text) Empty() bool {
	return t.String() == ""
}

// Float parses the value as a number.
func (t Text) Float() (float64, bool) {
	f, err := strconv.ParseFloat(t.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Metadata is the raw camera/exposure block of a catalog item.
type Metadata struct {
	Make              Text `json:"Make,omitempty"`
	Model             Text `json:"Model,omitempty"`
	FocalLength       Text `json:"FocalLength,omitempty"`
	FocalLengthIn35mm Text `json:"FocalLengthIn35mmFormat,omitempty"`
	FNumber           Text `json:"FNumber,omitempty"`
	ISO               Text `json:"ISO,omitempty"`
	ExposureTime      Text `json:"ExposureTime,omitempty"`
	DateTimeOriginal  Text `json:"DateTimeOriginal,omitempty"`
}

// Item is one photo of the catalog.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	DateTaken    string    `json:"dateTaken,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Exif         *Metadata `json:"exif,omitempty"`

	// OGImageURL is the public URL of the published preview image.
	OGImageURL string `json:"ogImageUrl,omitempty"`
	// OGDigest is the Digest of the item when OGImageURL was last written.
	OGDigest string `json:"ogDigest,omitempty"`
}

// Dimensions returns width and height, both coerced to at least 1.
func (it *Item) Dimensions() (int, int) {
	return max(it.Width, 1), max(it.Height, 1)
}

// Meta returns the metadata block, never nil.
func (it *Item) Meta() Metadata {
	if it.Exif == nil {
		return Metadata{}
	}
	return *it.Exif
}

// CaptureTime returns the best available timestamp for display.
func (it *Item) CaptureTime() string {
	meta := it.Meta()
	if !meta.DateTimeOriginal.Empty() {
		return meta.DateTimeOriginal.String()
	}
	if strings.TrimSpace(it.DateTaken) != "" {
		return it.DateTaken
	}
	return it.LastModified
}

// Digest fingerprints every field that influences the rendered image.
// Items whose digest matches OGDigest were already published and can be skipped.
func (it *Item) Digest() string {
	w, h := it.Dimensions()
	payload := struct {
		ID        string
		Title     string
		Tags      []string
		W, H      int
		Date      string
		Thumbnail string
		Meta      Metadata
	}{it.ID, it.Title, it.Tags, w, h, it.CaptureTime(), it.ThumbnailURL, it.Meta()}

	data, _ := json.Marshal(payload) //nolint:errchkjson // plain struct, cannot fail
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}

// Unchanged reports whether the item was already published in its current state.
func (it *Item) Unchanged() bool {
	return it.OGImageURL != "" && it.OGDigest == it.Digest()
}
