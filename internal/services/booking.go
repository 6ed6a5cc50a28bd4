package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevents/internal/domain"
)

// emailRegex matches a basic email shape: no whitespace or extra @, and at
// least one dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type bookingService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	emails         domain.EmailService
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. The email service may be nil, in
// which case no confirmation emails are sent.
func NewBookingService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	emails domain.EmailService,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		emails:         emails,
		contextTimeout: timeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(eventID))
	if err != nil {
		return nil, fmt.Errorf("%w: event id must be a valid object id", domain.ErrValidation)
	}

	// The referenced event must exist before anything is persisted.
	event, err := s.eventRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: please provide a valid email address", domain.ErrValidation)
	}

	if _, err := s.bookingRepo.GetByEventAndEmail(ctx, oid, email); err == nil {
		return nil, domain.ErrDuplicateBooking
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	now := time.Now()
	booking := domain.NewBooking(oid, email, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) {
			return nil, domain.ErrDuplicateBooking
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// Confirmation is best effort: the booking stands even if the email fails.
	if s.emails != nil {
		data := &domain.BookingConfirmationEmailData{
			Email:      email,
			EventTitle: event.Title,
			EventDate:  event.Date,
			EventTime:  event.Time,
			Venue:      event.Venue,
			Location:   event.Location,
		}
		if err := s.emails.SendBookingConfirmation(ctx, data); err != nil {
			log.Printf("[BOOKING] confirmation email to %s failed: %v", email, err)
		}
	}

	return booking, nil
}
