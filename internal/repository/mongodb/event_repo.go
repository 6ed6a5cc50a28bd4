package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevents/internal/domain"
)

type eventRepository struct {
	conn *Conn
}

func NewEventRepository(conn *Conn) domain.EventRepository {
	return &eventRepository{conn: conn}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return err
	}
	res, err := db.Collection(eventsCollection).InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = id
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Event, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{}
	err = db.Collection(eventsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{}
	err = db.Collection(eventsCollection).FindOne(ctx, bson.M{"slug": slug}).Decode(event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	// Dates are normalized to YYYY-MM-DD, so a lexicographic sort is
	// chronological.
	cursor, err := db.Collection(eventsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var events []*domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) ListByTag(ctx context.Context, tag string, exclude primitive.ObjectID) ([]*domain.Event, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":  bson.M{"$ne": exclude},
		"tags": tag,
	}
	cursor, err := db.Collection(eventsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var events []*domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
