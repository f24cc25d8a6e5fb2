package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
)

type fixedAttempt struct {
	name  string
	ref   *ImageRef
	err   error
	calls *[]string
}

func (f fixedAttempt) Name() string { return f.name }

func (f fixedAttempt) Resolve(_ context.Context, _ ThumbnailRequest) (*ImageRef, error) {
	*f.calls = append(*f.calls, f.name)
	return f.ref, f.err
}

func TestResolverOrder(t *testing.T) {
	var calls []string
	r := NewResolverWith(
		fixedAttempt{name: "a", calls: &calls},
		fixedAttempt{name: "b", err: errors.New("boom"), calls: &calls},
		fixedAttempt{name: "c", ref: &ImageRef{ContentType: "image/png", Data: []byte("c")}, calls: &calls},
		fixedAttempt{name: "d", ref: &ImageRef{ContentType: "image/png", Data: []byte("d")}, calls: &calls},
	)

	ref := r.Thumbnail(context.Background(), ThumbnailRequest{})
	if ref == nil || string(ref.Data) != "c" {
		t.Fatalf("expected third attempt to win, got %+v", ref)
	}
	if strings.Join(calls, ",") != "a,b,c" {
		t.Errorf("expected attempts a,b,c to run, got %v", calls)
	}
}

func TestResolverNoMatch(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	item := &catalog.Item{ID: "x", ThumbnailURL: "/missing.jpg"}
	if ref := r.Thumbnail(context.Background(), ThumbnailRequest{Item: item}); ref != nil {
		t.Errorf("expected nil, got %+v", ref)
	}
}

func TestResolverMemoryFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote should not be called when memory bytes exist")
	}))
	defer server.Close()

	r := NewResolver(t.TempDir(), server.Client())
	item := &catalog.Item{ID: "x", ThumbnailURL: server.URL + "/a.png"}
	ref := r.Thumbnail(context.Background(), ThumbnailRequest{Item: item, Memory: []byte("mem")})
	if ref == nil || string(ref.Data) != "mem" || ref.ContentType != "image/jpeg" {
		t.Errorf("expected memory jpeg, got %+v", ref)
	}
}

func TestRemoteContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/declared.jpg":
			w.Header().Set("Content-Type", "image/webp; charset=binary")
		case "/missing.png":
			http.NotFound(w, r)
			return
		default:
			// Force an empty content type so the extension guess is used.
			w.Header()["Content-Type"] = nil
		}
		w.Write([]byte("img"))
	}))
	defer server.Close()

	tests := []struct {
		path string
		want string
	}{
		{"/declared.jpg", "image/webp"},
		{"/guess.png", "image/png"},
		{"/guess.webp?v=2", "image/webp"},
		{"/guess.jpeg", "image/jpeg"},
	}

	attempt := RemoteAttempt{HTTPClient: server.Client()}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			item := &catalog.Item{ThumbnailURL: server.URL + tt.path}
			ref, err := attempt.Resolve(context.Background(), ThumbnailRequest{Item: item})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if ref.ContentType != tt.want {
				t.Errorf("expected %s, got %s", tt.want, ref.ContentType)
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		item := &catalog.Item{ThumbnailURL: server.URL + "/missing.png"}
		if _, err := attempt.Resolve(context.Background(), ThumbnailRequest{Item: item}); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("relative url not applicable", func(t *testing.T) {
		item := &catalog.Item{ThumbnailURL: "/thumbs/a.jpg"}
		ref, err := attempt.Resolve(context.Background(), ThumbnailRequest{Item: item})
		if ref != nil || err != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", ref, err)
		}
	})
}

func TestRemoteFallsThroughToLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "thumbs"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "thumbs", "a.png"), []byte("local"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(root, server.Client())

	remote := &catalog.Item{ID: "r", ThumbnailURL: server.URL + "/thumbs/a.png"}
	if ref := r.Thumbnail(context.Background(), ThumbnailRequest{Item: remote}); ref != nil {
		t.Errorf("expected nil when remote fails, got %+v", ref)
	}

	local := &catalog.Item{ID: "l", ThumbnailURL: "/thumbs/a.png"}
	ref := r.Thumbnail(context.Background(), ThumbnailRequest{Item: local})
	if ref == nil || string(ref.Data) != "local" || ref.ContentType != "image/png" {
		t.Errorf("expected local png, got %+v", ref)
	}
}

func TestLocalAttemptStaysInRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	if err := os.MkdirAll(root, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, "secret.jpg"), []byte("secret"), 0o600); err != nil {
		t.Fatal(err)
	}

	attempt := LocalAttempt{Root: root}
	item := &catalog.Item{ThumbnailURL: "../secret.jpg"}
	if ref, err := attempt.Resolve(context.Background(), ThumbnailRequest{Item: item}); err == nil {
		t.Errorf("expected error, got %+v", ref)
	}
}

func TestDataURI(t *testing.T) {
	ref := &ImageRef{ContentType: "image/png", Data: []byte("hi")}
	if got := ref.DataURI(); got != "data:image/png;base64,aGk=" {
		t.Errorf("unexpected data uri %s", got)
	}
}

func TestFindFontFirstMatchWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	for _, dir := range []string{first, second} {
		if err := os.WriteFile(filepath.Join(dir, constants.FontRegularFile), []byte(dir), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(second, constants.FontBoldFile), []byte("bold"), 0o600); err != nil {
		t.Fatal(err)
	}

	dirs := []string{filepath.Join(first, "nope"), first, second}
	p, err := FindFont(constants.FontRegularFile, dirs)
	if err != nil {
		t.Fatalf("FindFont failed: %v", err)
	}
	if filepath.Dir(p) != first {
		t.Errorf("expected match in %s, got %s", first, p)
	}

	files, err := LoadFontFiles(dirs)
	if err != nil {
		t.Fatalf("LoadFontFiles failed: %v", err)
	}
	if string(files.Regular) != first || string(files.Bold) != "bold" {
		t.Errorf("unexpected font bytes %q / %q", files.Regular, files.Bold)
	}
}

func TestLoadFontFilesMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, constants.FontRegularFile), []byte("r"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFontFiles([]string{dir})
	if !errors.Is(err, ErrFontNotFound) {
		t.Errorf("expected ErrFontNotFound, got %v", err)
	}
}

func TestFontDirsOrder(t *testing.T) {
	dirs := FontDirs([]string{"/custom"})
	if dirs[0] != "/custom" {
		t.Errorf("expected configured dir first, got %v", dirs)
	}
	if dirs[1] != "fonts" {
		t.Errorf("expected ./fonts second, got %v", dirs)
	}
	if dirs[len(dirs)-1] != "/usr/share/fonts/truetype/geist" {
		t.Errorf("expected system dir last, got %v", dirs)
	}
}
