package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devevents/internal/domain"
)

type bookingRepository struct {
	conn *Conn
}

func NewBookingRepository(conn *Conn) domain.BookingRepository {
	return &bookingRepository{conn: conn}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return err
	}
	res, err := db.Collection(bookingsCollection).InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateBooking
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = id
	}
	return nil
}

func (r *bookingRepository) GetByEventAndEmail(ctx context.Context, eventID primitive.ObjectID, email string) (*domain.Booking, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	booking := &domain.Booking{}
	err = db.Collection(bookingsCollection).
		FindOne(ctx, bson.M{"event_id": eventID, "email": email}).
		Decode(booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}
