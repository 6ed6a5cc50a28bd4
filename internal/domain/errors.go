package domain

import "errors"

// Sentinel errors for the whole application. Store and adapter failures are
// translated into one of these at the boundary; callers match with errors.Is.
var (
	// ErrNotFound signals a missing entity on a read path.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals malformed or missing input. Wrapped errors carry
	// the user-facing detail.
	ErrValidation = errors.New("validation failed")

	// ErrSlugTaken signals that an event's computed slug collides with an
	// existing event.
	ErrSlugTaken = errors.New("an event with this slug already exists")

	// ErrEventNotFound signals that a booking references an event that does
	// not exist.
	ErrEventNotFound = errors.New("referenced event does not exist")

	// ErrDuplicateBooking signals a second booking for the same event and
	// email.
	ErrDuplicateBooking = errors.New("a booking for this event and email already exists")

	// ErrUpload signals that the external image store rejected an upload.
	ErrUpload = errors.New("image upload failed")
)
