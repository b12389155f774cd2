package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/recipebox/recipebox/internal/config"
)

// Storage holds uploaded recipe images.
type Storage interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
	// KeyFromURL reverses URL for addresses served by this storage.
	KeyFromURL(rawURL string) (string, bool)
}

// S3Storage works with AWS S3 and S3-compatible services (MinIO, R2, Spaces).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

func New(ctx context.Context, c *cfg.Config) (*S3Storage, error) {
	slog.Info("initializing S3 storage", "bucket", c.S3Bucket, "region", c.S3Region, "endpoint", c.S3Endpoint)
	return NewS3Storage(ctx, S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
	})
}

func NewS3Storage(ctx context.Context, c S3Config) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if c.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	storage := &S3Storage{
		client:    client,
		bucket:    c.Bucket,
		publicURL: PublicBaseURL(c),
	}

	err = storage.ensureBucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return storage, nil
}

// PublicBaseURL is the address objects of the bucket are served from.
func PublicBaseURL(c S3Config) string {
	if c.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
	}
	return strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + key
}

func (s *S3Storage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, prefix), true
}
