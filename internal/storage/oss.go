package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/kozaktomas/photo-og/internal/config"
)

// OSS publishes to Aliyun Object Storage Service.
type OSS struct {
	cfg    config.StorageConfig
	bucket *oss.Bucket
}

func NewOSS(cfg config.StorageConfig) (*OSS, error) {
	var opts []oss.ClientOption
	if cfg.Region != "" {
		opts = append(opts, oss.Region(cfg.Region))
	}
	client, err := oss.New(withScheme(cfg.Endpoint, cfg.Insecure), cfg.AccessKey, cfg.SecretKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not open oss bucket %s: %w", cfg.Bucket, err)
	}
	return &OSS{cfg: cfg, bucket: bucket}, nil
}

func (p *OSS) Name() string {
	return p.cfg.Provider
}

func (p *OSS) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	err := p.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(opts.ContentType), oss.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("could not put oss object %s: %w", key, err)
	}
	return nil
}

func (p *OSS) PublicURL(_ context.Context, key string) (string, error) {
	if p.cfg.Presign {
		signed, err := p.bucket.SignURL(key, oss.HTTPGet, int64(presignTTL(p.cfg).Seconds()))
		if err != nil {
			return "", fmt.Errorf("could not sign oss object %s: %w", key, err)
		}
		return signed, nil
	}
	return ossURL(p.cfg, key), nil
}

// ossURL builds the virtual-hosted URL of an object: https://{bucket}.{endpoint host}/{key}.
func ossURL(cfg config.StorageConfig, key string) string {
	if cfg.PublicURL != "" {
		return joinURL(cfg.PublicURL, key)
	}
	endpoint := withScheme(cfg.Endpoint, cfg.Insecure)
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return joinURL(endpoint+"/"+cfg.Bucket, key)
	}
	host := u.Host
	if !strings.HasPrefix(host, cfg.Bucket+".") {
		host = cfg.Bucket + "." + host
	}
	return joinURL(u.Scheme+"://"+host, key)
}
