package domain

import "context"

// MaxImageBytes is the size ceiling for uploaded event images.
const MaxImageBytes = 5 << 20

// EventImage is a raw image file from a multipart submission.
type EventImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageUploader uploads an image buffer to an external image store and
// returns the durable public URL of the hosted image.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// IngestionService turns a multipart submission into a persisted event with a
// hosted image. The pipeline has no partial-success state: either the event is
// fully created with its image, or nothing is persisted.
type IngestionService interface {
	CreateEventFromSubmission(ctx context.Context, input *CreateEventInput, image *EventImage) (*Event, error)
}
