package oss

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioAdapter implements the Interface on a MinIO server.
type MinioAdapter struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioAdapter connects to cfg.Endpoint and creates the bucket when it is missing.
func NewMinioAdapter(ctx context.Context, cfg *Config) (*MinioAdapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ID, cfg.Secret, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = joinURL(client.EndpointURL().String(), cfg.Bucket)
	}

	return &MinioAdapter{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (a *MinioAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}
	return &Object{Key: key, URL: a.URL(key), Size: info.Size, ContentType: contentType}, nil
}

func (a *MinioAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (a *MinioAdapter) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	_, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func (a *MinioAdapter) URL(key string) string { return joinURL(a.baseURL, key) }

type minioDriver struct{}

func (minioDriver) Name() []string { return []string{"minio"} }

func (minioDriver) Connect(ctx context.Context, cfg *Config) (Interface, error) {
	return NewMinioAdapter(ctx, cfg)
}

func init() {
	RegisterDriver(minioDriver{})
}
