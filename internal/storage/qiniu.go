package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/qiniu/go-sdk/v7/auth"
	qiniu "github.com/qiniu/go-sdk/v7/storage"

	"github.com/kozaktomas/photo-og/internal/config"
)

// Qiniu publishes to Qiniu Kodo. Kodo has no bucket URL of its own, objects
// are served from the bound domain in PublicURL.
type Qiniu struct {
	cfg      config.StorageConfig
	mac      *auth.Credentials
	uploader *qiniu.FormUploader
}

func NewQiniu(cfg config.StorageConfig) (*Qiniu, error) {
	uploadCfg := &qiniu.Config{UseHTTPS: !cfg.Insecure}
	if region := qiniuRegion(cfg.Region); region != nil {
		uploadCfg.Region = region
	}
	return &Qiniu{
		cfg:      cfg,
		mac:      auth.New(cfg.AccessKey, cfg.SecretKey),
		uploader: qiniu.NewFormUploader(uploadCfg),
	}, nil
}

// qiniuRegion maps region ids and names to Kodo regions. Unknown values
// leave the region to be detected from the upload token.
func qiniuRegion(name string) *qiniu.Region {
	switch strings.ToLower(name) {
	case "z0", "huadong":
		return &qiniu.ZoneHuadong
	case "z1", "huabei":
		return &qiniu.ZoneHuabei
	case "z2", "huanan":
		return &qiniu.ZoneHuanan
	case "na0", "beimei":
		return &qiniu.ZoneBeimei
	case "as0", "xinjiapo":
		return &qiniu.ZoneXinjiapo
	default:
		return nil
	}
}

func (p *Qiniu) Name() string {
	return p.cfg.Provider
}

func (p *Qiniu) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	// bucket:key scope allows overwriting an existing object.
	policy := qiniu.PutPolicy{Scope: p.cfg.Bucket + ":" + key}
	token := policy.UploadToken(p.mac)

	ret := qiniu.PutRet{}
	extra := qiniu.PutExtra{MimeType: opts.ContentType}
	if err := p.uploader.Put(ctx, &ret, token, key, bytes.NewReader(data), int64(len(data)), &extra); err != nil {
		return fmt.Errorf("could not put qiniu object %s: %w", key, err)
	}
	return nil
}

func (p *Qiniu) PublicURL(_ context.Context, key string) (string, error) {
	domain := withScheme(p.cfg.PublicURL, p.cfg.Insecure)
	if p.cfg.Presign {
		deadline := time.Now().Add(presignTTL(p.cfg)).Unix()
		return qiniu.MakePrivateURL(p.mac, domain, key, deadline), nil
	}
	return qiniu.MakePublicURLv2(domain, key), nil
}
