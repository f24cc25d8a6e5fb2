package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/kozaktomas/photo-og/internal/config"
)

// COS publishes to Tencent Cloud Object Storage.
type COS struct {
	cfg    config.StorageConfig
	client *cos.Client
}

// NewCOS creates a COS provider. The bucket URL is derived from bucket and
// region unless an endpoint is configured.
func NewCOS(cfg config.StorageConfig) (*COS, error) {
	u, err := url.Parse(cosBucketURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid cos bucket url: %w", err)
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Timeout: 60 * time.Second,
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})
	return &COS{cfg: cfg, client: client}, nil
}

func cosBucketURL(cfg config.StorageConfig) string {
	if cfg.Endpoint != "" {
		return withScheme(cfg.Endpoint, cfg.Insecure)
	}
	return fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
}

func (p *COS) Name() string {
	return p.cfg.Provider
}

func (p *COS) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	_, err := p.client.Object.Put(ctx, key, bytes.NewReader(data), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: opts.ContentType},
	})
	if err != nil {
		return fmt.Errorf("could not put cos object %s: %w", key, err)
	}
	return nil
}

func (p *COS) PublicURL(ctx context.Context, key string) (string, error) {
	if p.cfg.Presign {
		u, err := p.client.Object.GetPresignedURL(ctx, http.MethodGet, key,
			p.cfg.AccessKey, p.cfg.SecretKey, presignTTL(p.cfg), nil)
		if err != nil {
			return "", fmt.Errorf("could not presign cos object %s: %w", key, err)
		}
		return u.String(), nil
	}
	if p.cfg.PublicURL != "" {
		return joinURL(p.cfg.PublicURL, key), nil
	}
	return p.client.Object.GetObjectURL(key).String(), nil
}
