package static

import (
	"io"
	"strings"
	"testing"
)

func TestHasIndex(t *testing.T) {
	if !HasIndex() {
		t.Fatal("expected embedded index.html")
	}
}

func TestIndexLoadsItems(t *testing.T) {
	f, err := GetFileSystem().Open("/index.html")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"/api/v1/items", "/api/v1/config", "/og/home.png"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected index to reference %s", want)
		}
	}
}
