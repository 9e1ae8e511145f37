// Package mongo implements store.CredentialStore on MongoDB. A unique index on
// username, created when the store is opened, provides create atomicity.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/MrEthical07/authcore/store"
)

const (
	adapterName       = "mongo"
	DefaultDatabase   = "authcore"
	DefaultCollection = "credentials"
)

// collection is the slice of driver behaviour Store relies on.
type collection interface {
	insert(ctx context.Context, rec store.Record) error
	findByUsername(ctx context.Context, username string) (store.Record, error)
}

type driverCollection struct {
	coll *mongo.Collection
}

func (d driverCollection) insert(ctx context.Context, rec store.Record) error {
	_, err := d.coll.InsertOne(ctx, rec)
	return err
}

func (d driverCollection) findByUsername(ctx context.Context, username string) (store.Record, error) {
	var rec store.Record
	err := d.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&rec)
	return rec, err
}

// Options selects where credentials are kept. Empty fields fall back to
// DefaultDatabase and DefaultCollection.
type Options struct {
	Database   string
	Collection string
}

// Store is a MongoDB-backed credential store.
type Store struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// Open connects to uri, pings the primary and ensures the username index.
func Open(ctx context.Context, uri string, opts Options) (*Store, error) {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, oops.In(adapterName).Code("STORE_CONNECT_FAILED").With("operation", "connect").Wrap(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, store.Unavailable(adapterName, "ping", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, store.Unavailable(adapterName, "ensure index", err)
	}

	return &Store{client: client, coll: driverCollection{coll: coll}, now: time.Now}, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (store.Record, error) {
	rec, err := s.coll.findByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, store.Unavailable(adapterName, "find by username", err)
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, username, passwordHash string) (store.Record, error) {
	rec := store.NewRecord(username, passwordHash, s.now())
	if err := s.coll.insert(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.Record{}, store.Duplicate(adapterName, username)
		}
		return store.Record{}, store.Unavailable(adapterName, "create", err)
	}
	return rec, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return store.Unavailable(adapterName, "ping", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
