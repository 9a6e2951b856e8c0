package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"omekan/internal/domain"
)

// DefaultMaxImageBytes is the upload limit when none is configured.
const DefaultMaxImageBytes = 5 << 20

// imageExtensions maps the accepted sniffed content types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type uploadService struct {
	storage        domain.ObjectStorage
	maxBytes       int64
	contextTimeout time.Duration
}

func NewUploadService(storage domain.ObjectStorage, maxBytes int64, timeout time.Duration) domain.UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &uploadService{storage: storage, maxBytes: maxBytes, contextTimeout: timeout}
}

// UploadEventImage stores a JPEG, PNG, GIF or WebP image under
// events/event_<uuid>.<ext>. The type is sniffed from the content, not taken
// from the client.
func (s *uploadService) UploadEventImage(ctx context.Context, body io.Reader, size int64) (*domain.UploadedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if size > s.maxBytes {
		return nil, s.tooLarge()
	}
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.tooLarge()
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("image is required")
	}

	mimeType := http.DetectContentType(data)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return nil, domain.NewValidationError("image must be JPG, PNG, GIF or WEBP")
	}

	filename := fmt.Sprintf("event_%s.%s", uuid.NewString(), ext)
	path, err := s.storage.Put(ctx, "events/"+filename, mimeType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	return &domain.UploadedImage{
		Filename: filename,
		Path:     path,
		Size:     int64(len(data)),
		MimeType: mimeType,
	}, nil
}

func (s *uploadService) tooLarge() error {
	return domain.NewValidationError(fmt.Sprintf("image must not exceed %d bytes", s.maxBytes))
}
