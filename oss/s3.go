package oss

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Adapter implements the Interface for AWS S3 storage.
// Supports both AWS S3 and S3-compatible services with custom endpoints.
type S3Adapter struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	baseURL  string
}

// NewS3Adapter creates a new S3 storage adapter.
// For S3-compatible services, set cfg.Endpoint.
func NewS3Adapter(ctx context.Context, cfg *Config) (*S3Adapter, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.ID, cfg.Secret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	a := &S3Adapter{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
		baseURL:  cfg.BaseURL,
	}
	if a.baseURL == "" {
		a.baseURL = a.defaultBaseURL()
	}
	return a, nil
}

func (a *S3Adapter) defaultBaseURL() string {
	if a.endpoint != "" {
		return joinURL(a.endpoint, a.bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", a.bucket, a.region)
}

// Put uploads an object to S3 from the given reader.
func (a *S3Adapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}
	return &Object{Key: key, URL: a.URL(key), Size: size, ContentType: contentType}, nil
}

// Delete removes an object from the bucket. S3 treats missing keys as deleted.
func (a *S3Adapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks if an object exists in the S3 bucket.
func (a *S3Adapter) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func (a *S3Adapter) URL(key string) string { return joinURL(a.baseURL, key) }

type s3Driver struct{}

func (s3Driver) Name() []string { return []string{"s3", "aws-s3", "aws"} }

func (s3Driver) Connect(ctx context.Context, cfg *Config) (Interface, error) {
	return NewS3Adapter(ctx, cfg)
}

func init() {
	RegisterDriver(s3Driver{})
}
