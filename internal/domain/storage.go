package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ObjectStorage stores uploaded files and returns their public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Cache is a JSON value cache. Get returns ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// UploadedImage describes a stored event image.
// swagger:model UploadedImage
type UploadedImage struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// UploadService validates and stores event images.
type UploadService interface {
	UploadEventImage(ctx context.Context, body io.Reader, size int64) (*UploadedImage, error)
}
