package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "omekan/internal/delivery/http/helpers"
	"omekan/internal/domain"
)

const (
	// uploadField is the multipart field carrying the image.
	uploadField = "image"
	// defaultUploadBytes applies when no limit is configured.
	defaultUploadBytes = 5 << 20
)

type UploadController struct {
	Logger   *slog.Logger
	Service  domain.UploadService
	MaxBytes int64
}

func NewUploadController(logger *slog.Logger, svc domain.UploadService, maxBytes int64) *UploadController {
	if maxBytes <= 0 {
		maxBytes = defaultUploadBytes
	}
	return &UploadController{Logger: logger, Service: svc, MaxBytes: maxBytes}
}

// UploadEventImage godoc
// @Summary Upload an event image
// @Description Accepts a JPG, PNG, GIF or WEBP file in the "image" field. The type is detected from the content.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} helpers.APIResponse "data contains path and filename"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 413 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/upload/event-image [post]
func (c *UploadController) UploadEventImage(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxBytes+1<<20)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.WriteJSONError(w, http.StatusRequestEntityTooLarge, "upload too large")
		case errors.Is(err, http.ErrMissingFile):
			h.WriteJSONError(w, http.StatusBadRequest, "image is required")
		default:
			h.WriteJSONError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return
	}
	defer file.Close()

	img, err := c.Service.UploadEventImage(r.Context(), file, header.Size)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, img)
}
