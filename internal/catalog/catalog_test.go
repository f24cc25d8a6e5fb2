package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Text
	}{
		{"string", `{"FNumber": "2.8"}`, "2.8"},
		{"number", `{"FNumber": 2.8}`, "2.8"},
		{"integer", `{"FNumber": 4}`, "4"},
		{"null", `{"FNumber": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metadata
			if err := json.Unmarshal([]byte(tt.json), &m); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if m.FNumber != tt.want {
				t.Errorf("expected %q, got %q", tt.want, m.FNumber)
			}
		})
	}

	var m Metadata
	if err := json.Unmarshal([]byte(`{"ISO": true}`), &m); err == nil {
		t.Error("expected error for boolean value")
	}
}

func TestTextHelpers(t *testing.T) {
	if !Text("  ").Empty() {
		t.Error("expected whitespace to be empty")
	}
	if f, ok := Text(" 1.5 ").Float(); !ok || f != 1.5 {
		t.Errorf("expected 1.5, got %v", f)
	}
	if _, ok := Text("1/250").Float(); ok {
		t.Error("expected fraction not to parse as float")
	}
}

func TestItemDimensions(t *testing.T) {
	it := &Item{Width: 0, Height: -5}
	w, h := it.Dimensions()
	if w != 1 || h != 1 {
		t.Errorf("expected dimensions coerced to 1x1, got %dx%d", w, h)
	}
}

func TestCaptureTimePreference(t *testing.T) {
	it := &Item{LastModified: "2020-01-01"}
	if got := it.CaptureTime(); got != "2020-01-01" {
		t.Errorf("expected last modified fallback, got %s", got)
	}
	it.DateTaken = "2021-01-01"
	if got := it.CaptureTime(); got != "2021-01-01" {
		t.Errorf("expected date taken, got %s", got)
	}
	it.Exif = &Metadata{DateTimeOriginal: "2022:01:01 10:00:00"}
	if got := it.CaptureTime(); got != "2022:01:01 10:00:00" {
		t.Errorf("expected exif original date, got %s", got)
	}
}

func TestDigest(t *testing.T) {
	a := &Item{ID: "p1", Title: "Harbour", Width: 10, Height: 10}
	b := &Item{ID: "p1", Title: "Harbour", Width: 10, Height: 10, OGImageURL: "https://x/p1.png"}
	if a.Digest() != b.Digest() {
		t.Error("publish bookkeeping must not affect the digest")
	}

	b.Title = "Harbour at night"
	if a.Digest() == b.Digest() {
		t.Error("expected title change to change the digest")
	}
}

func TestUnchanged(t *testing.T) {
	it := &Item{ID: "p1", Title: "Harbour"}
	if it.Unchanged() {
		t.Error("never published item cannot be unchanged")
	}
	it.OGImageURL = "https://x/p1.png"
	it.OGDigest = it.Digest()
	if !it.Unchanged() {
		t.Error("expected published item to be unchanged")
	}
	it.Tags = []string{"night"}
	if it.Unchanged() {
		t.Error("expected tag change to be detected")
	}
}

func TestManifestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.json")
	m := &Manifest{Data: []*Item{{ID: "p1", Title: "Harbour", Exif: &Metadata{ISO: "400"}}}}

	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.Version != ManifestVersion {
		t.Errorf("expected version %s, got %s", ManifestVersion, loaded.Version)
	}
	if it := loaded.Find("p1"); it == nil || it.Exif.ISO != "400" {
		t.Errorf("unexpected item %+v", it)
	}
	if loaded.Find("missing") != nil {
		t.Error("expected nil for unknown id")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadManifestOrEmpty(filepath.Join(dir, "missing.json"))
	if err != nil || m == nil || len(m.Data) != 0 {
		t.Errorf("expected empty manifest for missing file, got %v, %v", m, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifestOrEmpty(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestManifestMerge(t *testing.T) {
	m := &Manifest{Data: []*Item{
		{ID: "p1", OGImageURL: "https://x/p1.png", OGDigest: "abc"},
		{ID: "gone", OGImageURL: "https://x/gone.png"},
	}}
	m.Merge([]*Item{{ID: "p1", Title: "new"}, {ID: "p2"}})

	if len(m.Data) != 2 {
		t.Fatalf("expected fresh items to replace the list, got %d", len(m.Data))
	}
	if p1 := m.Find("p1"); p1.Title != "new" || p1.OGImageURL != "https://x/p1.png" || p1.OGDigest != "abc" {
		t.Errorf("expected bookkeeping to carry over, got %+v", p1)
	}
	if m.Find("gone") != nil {
		t.Error("expected removed items to be dropped")
	}

	items, _ := m.Items(context.Background())
	if len(items) != 2 {
		t.Errorf("expected Items to return the data, got %d", len(items))
	}
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if len(s.All()) != 0 {
		t.Error("expected empty store for missing manifest")
	}

	if err := (&Manifest{Data: []*Item{{ID: "p1"}}}).Save(path); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if s.Find("p1") == nil {
		t.Error("expected item after reload")
	}

	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err == nil {
		t.Error("expected reload error for broken manifest")
	}
	if s.Find("p1") == nil {
		t.Error("expected previous content to survive a failed reload")
	}
}
