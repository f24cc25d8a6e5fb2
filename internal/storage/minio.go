package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kozaktomas/photo-og/internal/config"
)

// Minio publishes to a MinIO server.
type Minio struct {
	cfg    config.StorageConfig
	client *minio.Client
}

// NewMinio creates a MinIO provider. The endpoint may be given as host:port
// or as a URL whose scheme decides TLS.
func NewMinio(cfg config.StorageConfig) (*Minio, error) {
	host, secure := cfg.Endpoint, !cfg.Insecure
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid minio endpoint: %w", err)
		}
		host, secure = u.Host, u.Scheme == "https"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}
	return &Minio{cfg: cfg, client: client}, nil
}

func (p *Minio) Name() string {
	return p.cfg.Provider
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (p *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("could not check bucket %s: %w", p.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.cfg.Bucket, minio.MakeBucketOptions{Region: p.cfg.Region}); err != nil {
		return fmt.Errorf("could not create bucket %s: %w", p.cfg.Bucket, err)
	}
	return nil
}

func (p *Minio) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	_, err := p.client.PutObject(ctx, p.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: opts.ContentType})
	if err != nil {
		return fmt.Errorf("could not put minio object %s: %w", key, err)
	}
	return nil
}

func (p *Minio) PublicURL(ctx context.Context, key string) (string, error) {
	if p.cfg.Presign {
		u, err := p.client.PresignedGetObject(ctx, p.cfg.Bucket, key, presignTTL(p.cfg), url.Values{})
		if err != nil {
			return "", fmt.Errorf("could not presign minio object %s: %w", key, err)
		}
		return u.String(), nil
	}
	if p.cfg.PublicURL != "" {
		return joinURL(p.cfg.PublicURL, key), nil
	}
	return joinURL(p.client.EndpointURL().String()+"/"+p.cfg.Bucket, key), nil
}
