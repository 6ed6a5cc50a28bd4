package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"devevents/internal/domain"
)

type ingestionService struct {
	uploader domain.ImageUploader
	events   domain.EventService
}

// NewIngestionService creates the pipeline that turns a multipart submission
// into a validated event with an externally-hosted image.
func NewIngestionService(uploader domain.ImageUploader, events domain.EventService) domain.IngestionService {
	return &ingestionService{
		uploader: uploader,
		events:   events,
	}
}

func (s *ingestionService) CreateEventFromSubmission(ctx context.Context, input *domain.CreateEventInput, image *domain.EventImage) (*domain.Event, error) {
	// The image is checked before any network call to the image store.
	if image == nil || len(image.Data) == 0 {
		return nil, fmt.Errorf("%w: image file is required", domain.ErrValidation)
	}
	if len(image.Data) > domain.MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds the %d MB size limit", domain.ErrValidation, domain.MaxImageBytes>>20)
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(image.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: file must be an image, got %s", domain.ErrValidation, contentType)
	}

	url, err := s.uploader.Upload(ctx, image.Data, image.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpload, err)
	}
	input.Image = url

	return s.events.CreateEvent(ctx, input)
}
