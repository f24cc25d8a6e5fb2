package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/photo-og/internal/config"
)

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.StorageConfig
		want string
	}{
		{"nil config", nil, ""},
		{"s3 prefix", &config.StorageConfig{Provider: config.ProviderS3, Prefix: "/site/"}, "site"},
		{"minio prefix", &config.StorageConfig{Provider: config.ProviderMinio, Prefix: "a/b"}, "a/b"},
		{"oss prefix", &config.StorageConfig{Provider: config.ProviderOSS, Prefix: "x"}, "x"},
		{"cos prefix", &config.StorageConfig{Provider: config.ProviderCOS, Prefix: "x"}, "x"},
		{"qiniu prefix", &config.StorageConfig{Provider: config.ProviderQiniu, Prefix: "x"}, "x"},
		{"local ignores prefix", &config.StorageConfig{Provider: config.ProviderLocal, Prefix: "x"}, ""},
		{"eagle ignores prefix", &config.StorageConfig{Provider: config.ProviderEagle, Prefix: "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrefixOf(tt.cfg); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	ctx := context.Background()

	for _, provider := range []string{config.ProviderEagle, "dropbox"} {
		_, err := New(ctx, &config.StorageConfig{Provider: provider})
		if !errors.Is(err, ErrUnsupportedProvider) {
			t.Errorf("%s: expected ErrUnsupportedProvider, got %v", provider, err)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, nil); err == nil {
		t.Error("expected error for nil config")
	}
	_, err := New(ctx, &config.StorageConfig{Provider: config.ProviderMinio, Bucket: "b"})
	if err == nil || errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewProviders(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"s3", config.StorageConfig{Provider: config.ProviderS3, Bucket: "b", Region: "eu-central-1", AccessKey: "a", SecretKey: "s"}},
		{"minio", config.StorageConfig{Provider: config.ProviderMinio, Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"}},
		{"oss", config.StorageConfig{Provider: config.ProviderOSS, Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "b", AccessKey: "a", SecretKey: "s"}},
		{"cos", config.StorageConfig{Provider: config.ProviderCOS, Bucket: "b-1250000000", Region: "ap-guangzhou", AccessKey: "a", SecretKey: "s"}},
		{"qiniu", config.StorageConfig{Provider: config.ProviderQiniu, Bucket: "b", AccessKey: "a", SecretKey: "s", PublicURL: "cdn.example.com"}},
		{"local", config.StorageConfig{Provider: config.ProviderLocal, Directory: t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(ctx, &tt.cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if p.Name() != tt.cfg.Provider {
				t.Errorf("expected name %s, got %s", tt.cfg.Provider, p.Name())
			}
		})
	}
}

func TestLocalUpload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p, err := NewLocal(config.StorageConfig{Provider: config.ProviderLocal, Directory: dir})
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}

	if err := p.Upload(ctx, "og/p1.png", []byte("png"), UploadOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "og", "p1.png"))
	if err != nil {
		t.Fatalf("expected uploaded file: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("unexpected content %q", data)
	}

	// Keys cannot escape the storage directory.
	if err := p.Upload(ctx, "../../escape.png", []byte("x"), UploadOptions{}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.png")); err != nil {
		t.Errorf("expected traversal key to be confined to the directory: %v", err)
	}
}

func TestLocalPublicURL(t *testing.T) {
	ctx := context.Background()

	p, _ := NewLocal(config.StorageConfig{Provider: config.ProviderLocal, Directory: t.TempDir()})
	if got, _ := p.PublicURL(ctx, "og/p 1.png"); got != "/og/p%201.png" {
		t.Errorf("unexpected relative url %s", got)
	}

	p, _ = NewLocal(config.StorageConfig{Provider: config.ProviderLocal, Directory: t.TempDir(), PublicURL: "https://example.com/static/"})
	if got, _ := p.PublicURL(ctx, "og/p1.png"); got != "https://example.com/static/og/p1.png" {
		t.Errorf("unexpected absolute url %s", got)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "og/p1.png", "https://cdn.example.com/og/p1.png"},
		{"https://cdn.example.com/", "/og/p1.png", "https://cdn.example.com/og/p1.png"},
		{"https://cdn.example.com", "og/a b#c.png", "https://cdn.example.com/og/a%20b%23c.png"},
		{"", "home.png", "/home.png"},
	}

	for _, tt := range tests {
		if got := joinURL(tt.base, tt.key); got != tt.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestS3URL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"aws virtual host", config.StorageConfig{Bucket: "gallery", Region: "eu-west-1"}, "https://gallery.s3.eu-west-1.amazonaws.com/og/p1.png"},
		{"custom endpoint path style", config.StorageConfig{Bucket: "gallery", Endpoint: "s3.example.com"}, "https://s3.example.com/gallery/og/p1.png"},
		{"insecure endpoint", config.StorageConfig{Bucket: "gallery", Endpoint: "localhost:9000", Insecure: true}, "http://localhost:9000/gallery/og/p1.png"},
		{"public url wins", config.StorageConfig{Bucket: "gallery", Endpoint: "s3.example.com", PublicURL: "https://img.example.com"}, "https://img.example.com/og/p1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s3URL(tt.cfg, "og/p1.png"); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestS3Presign(t *testing.T) {
	ctx := context.Background()
	p, err := NewS3(ctx, config.StorageConfig{
		Provider: config.ProviderS3, Bucket: "gallery", Region: "eu-west-1",
		AccessKey: "AKIDEXAMPLE", SecretKey: "secret", Presign: true, PresignTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewS3 failed: %v", err)
	}

	u, err := p.PublicURL(ctx, "og/p1.png")
	if err != nil {
		t.Fatalf("PublicURL failed: %v", err)
	}
	if !strings.Contains(u, "og/p1.png") || !strings.Contains(u, "X-Amz-Signature=") || !strings.Contains(u, "X-Amz-Expires=3600") {
		t.Errorf("expected signed url, got %s", u)
	}
}

func TestOSSURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"virtual host", config.StorageConfig{Bucket: "gallery", Endpoint: "oss-cn-hangzhou.aliyuncs.com"}, "https://gallery.oss-cn-hangzhou.aliyuncs.com/og/p1.png"},
		{"endpoint with scheme", config.StorageConfig{Bucket: "gallery", Endpoint: "http://oss-cn-hangzhou.aliyuncs.com"}, "http://gallery.oss-cn-hangzhou.aliyuncs.com/og/p1.png"},
		{"bucket already in host", config.StorageConfig{Bucket: "gallery", Endpoint: "gallery.oss-cn-hangzhou.aliyuncs.com"}, "https://gallery.oss-cn-hangzhou.aliyuncs.com/og/p1.png"},
		{"public url", config.StorageConfig{Bucket: "gallery", PublicURL: "https://img.example.com"}, "https://img.example.com/og/p1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ossURL(tt.cfg, "og/p1.png"); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCOSPublicURL(t *testing.T) {
	ctx := context.Background()
	p, err := NewCOS(config.StorageConfig{Provider: config.ProviderCOS, Bucket: "gallery-1250000000", Region: "ap-guangzhou", AccessKey: "a", SecretKey: "s"})
	if err != nil {
		t.Fatalf("NewCOS failed: %v", err)
	}

	got, err := p.PublicURL(ctx, "og/p1.png")
	if err != nil {
		t.Fatalf("PublicURL failed: %v", err)
	}
	if want := "https://gallery-1250000000.cos.ap-guangzhou.myqcloud.com/og/p1.png"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestQiniuPublicURL(t *testing.T) {
	ctx := context.Background()
	p, err := NewQiniu(config.StorageConfig{Provider: config.ProviderQiniu, Bucket: "b", AccessKey: "a", SecretKey: "s", PublicURL: "cdn.example.com", Region: "z0"})
	if err != nil {
		t.Fatalf("NewQiniu failed: %v", err)
	}

	got, err := p.PublicURL(ctx, "og/p1.png")
	if err != nil {
		t.Fatalf("PublicURL failed: %v", err)
	}
	if got != "https://cdn.example.com/og/p1.png" {
		t.Errorf("unexpected url %s", got)
	}

	p.cfg.Presign = true
	signed, _ := p.PublicURL(ctx, "og/p1.png")
	if !strings.Contains(signed, "e=") || !strings.Contains(signed, "token=") {
		t.Errorf("expected private url with deadline and token, got %s", signed)
	}
}

func TestQiniuRegion(t *testing.T) {
	if qiniuRegion("HUADONG") == nil || qiniuRegion("na0") == nil {
		t.Error("expected known regions to resolve")
	}
	if qiniuRegion("mars") != nil {
		t.Error("expected unknown region to be nil")
	}
}

func TestMinioPublicURL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"insecure host", config.StorageConfig{Endpoint: "localhost:9000", Insecure: true}, "http://localhost:9000/gallery/og/p1.png"},
		{"scheme decides tls", config.StorageConfig{Endpoint: "https://minio.example.com"}, "https://minio.example.com/gallery/og/p1.png"},
		{"public url", config.StorageConfig{Endpoint: "localhost:9000", PublicURL: "https://img.example.com"}, "https://img.example.com/og/p1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Provider, cfg.Bucket, cfg.AccessKey, cfg.SecretKey = config.ProviderMinio, "gallery", "a", "s"
			p, err := NewMinio(cfg)
			if err != nil {
				t.Fatalf("NewMinio failed: %v", err)
			}
			got, err := p.PublicURL(ctx, "og/p1.png")
			if err != nil {
				t.Fatalf("PublicURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
