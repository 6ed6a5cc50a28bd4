package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records one attendee's intent to attend one event. Email is stored
// lowercase and trimmed; at most one booking exists per (event, email) pair.
// swagger:model Booking
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewBooking creates a new Booking. ID is set by the repository on create.
func NewBooking(eventID primitive.ObjectID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByEventAndEmail(ctx context.Context, eventID primitive.ObjectID, email string) (*Booking, error)
}

// BookingService defines attendee-facing booking operations.
type BookingService interface {
	// CreateBooking books a spot for email on the event with the given id.
	// The event must exist (ErrEventNotFound), the email must be RFC-shaped
	// (ErrValidation), and the pair must not already be booked
	// (ErrDuplicateBooking).
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
}
