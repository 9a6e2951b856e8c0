package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"omekan/internal/domain"
)

// S3Config locates the bucket uploads are written to.
type S3Config struct {
	Bucket string
	// PublicBaseURL prefixes object keys in returned URLs, e.g. a CDN host.
	// Empty means the virtual-hosted S3 URL of the bucket.
	PublicBaseURL string
	Region        string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Storage struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

// NewS3Storage returns a domain.ObjectStorage writing to cfg.Bucket.
func NewS3Storage(awsCfg aws.Config, cfg S3Config) domain.ObjectStorage {
	return newS3Storage(s3.NewFromConfig(awsCfg), cfg)
}

func newS3Storage(client putObjectAPI, cfg S3Config) *s3Storage {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &s3Storage{client: client, bucket: cfg.Bucket, baseURL: base}
}

func (s *s3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
