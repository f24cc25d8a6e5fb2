package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kozaktomas/photo-og/internal/config"
)

// S3 publishes to AWS S3 or an S3 compatible endpoint.
type S3 struct {
	cfg     config.StorageConfig
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3 creates an S3 provider. Static credentials are used when configured,
// otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(withScheme(cfg.Endpoint, cfg.Insecure))
			o.UsePathStyle = true
		}
	})
	return &S3{cfg: cfg, client: client, presign: s3.NewPresignClient(client)}, nil
}

func (p *S3) Name() string {
	return p.cfg.Provider
}

func (p *S3) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(opts.ContentType),
	})
	if err != nil {
		return fmt.Errorf("could not put s3 object %s: %w", key, err)
	}
	return nil
}

func (p *S3) PublicURL(ctx context.Context, key string) (string, error) {
	if p.cfg.Presign {
		req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(p.cfg.Bucket),
			Key:    aws.String(key),
		}, func(o *s3.PresignOptions) {
			o.Expires = presignTTL(p.cfg)
		})
		if err != nil {
			return "", fmt.Errorf("could not presign s3 object %s: %w", key, err)
		}
		return req.URL, nil
	}
	return s3URL(p.cfg, key), nil
}

// s3URL builds the unsigned URL of an object.
func s3URL(cfg config.StorageConfig, key string) string {
	switch {
	case cfg.PublicURL != "":
		return joinURL(cfg.PublicURL, key)
	case cfg.Endpoint != "":
		return joinURL(withScheme(cfg.Endpoint, cfg.Insecure)+"/"+cfg.Bucket, key)
	default:
		return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region), key)
	}
}
