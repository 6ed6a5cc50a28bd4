package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// Collection names.
const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

const (
	maxPoolSize            = 10
	serverSelectionTimeout = 5 * time.Second
	socketTimeout          = 45 * time.Second
)

// Conn is a process-wide, lazily-established MongoDB connection handle.
// The first caller that needs the database triggers the connection attempt;
// concurrent callers awaiting a not-yet-ready connection are coalesced onto
// that single attempt. A failed attempt is not cached, so the next caller
// retries cleanly.
type Conn struct {
	uri      string
	database string

	// dial performs one connection attempt. Replaceable in tests.
	dial func(ctx context.Context) (*mongo.Database, error)

	group singleflight.Group
	mu    sync.RWMutex
	db    *mongo.Database
}

// NewConn returns an unconnected handle for the given URI and database name.
// No I/O happens until Database is first called.
func NewConn(uri, database string) *Conn {
	c := &Conn{uri: uri, database: database}
	c.dial = c.connect
	return c
}

// Database returns the shared database handle, establishing the connection on
// first use. Safe for concurrent use.
func (c *Conn) Database(ctx context.Context) (*mongo.Database, error) {
	if db := c.cached(); db != nil {
		return db, nil
	}

	v, err, _ := c.group.Do("connect", func() (any, error) {
		return c.establish(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Database), nil
}

func (c *Conn) cached() *mongo.Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// establish runs inside the singleflight. A caller that read a nil handle but
// enters the flight after a previous one stored it must get the stored handle
// back rather than dial a second client, so the cache is re-checked here.
func (c *Conn) establish(ctx context.Context) (*mongo.Database, error) {
	if db := c.cached(); db != nil {
		return db, nil
	}
	db, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	return db, nil
}

func (c *Conn) connect(ctx context.Context) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(c.uri).
		SetMaxPoolSize(maxPoolSize).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(c.database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return db, nil
}

// ensureIndexes creates the indexes that back the storage-layer uniqueness
// constraints: unique event slugs and one booking per (event, email) pair.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("events slug index: %w", err)
	}
	_, err = db.Collection(bookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("bookings event_id+email index: %w", err)
	}
	return nil
}

// Disconnect closes the underlying client if a connection was established.
func (c *Conn) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Client().Disconnect(ctx)
	c.db = nil
	return err
}
