package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

// ValidMode reports whether mode is one of the allowed event modes.
// Callers are expected to lowercase the input first.
func ValidMode(mode string) bool {
	return mode == ModeOnline || mode == ModeOffline || mode == ModeHybrid
}

// Event represents a listed event (conference, meetup, hackathon).
// Date is stored normalized to YYYY-MM-DD; Slug is derived from Title and
// unique across all events.
// swagger:model Event
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Overview    string             `bson:"overview" json:"overview"`
	Image       string             `bson:"image" json:"image"`
	Venue       string             `bson:"venue" json:"venue"`
	Location    string             `bson:"location" json:"location"`
	Date        string             `bson:"date" json:"date"`
	Time        string             `bson:"time" json:"time"`
	Mode        string             `bson:"mode" json:"mode"`
	Audience    string             `bson:"audience" json:"audience"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Tags        []string           `bson:"tags" json:"tags"`
	Agenda      []string           `bson:"agenda" json:"agenda"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CreateEventInput carries the raw field set for creating an event. The
// service normalizes and validates it; Image must already be a hosted URL.
type CreateEventInput struct {
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Organizer   string
	Tags        []string
	Agenda      []string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// List returns all events ordered by date ascending.
	List(ctx context.Context) ([]*Event, error)
	// ListByTag returns all events whose tags contain tag, excluding the
	// event with the given id.
	ListByTag(ctx context.Context, tag string, exclude primitive.ObjectID) ([]*Event, error)
}

// EventService defines event-facing operations.
type EventService interface {
	CreateEvent(ctx context.Context, input *CreateEventInput) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	// SimilarEvents returns events sharing the source event's first tag,
	// excluding the source event itself. It is fail-soft: an unknown slug or
	// any internal failure yields an empty slice, never an error.
	SimilarEvents(ctx context.Context, slug string) []*Event
}
