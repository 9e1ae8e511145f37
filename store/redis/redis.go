// Package redis implements store.CredentialStore on Redis. Each credential is
// a JSON document under <prefix>:user:<username>; SETNX makes creation atomic.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/MrEthical07/authcore/store"
)

const (
	adapterName   = "redis"
	DefaultPrefix = "authcore"
)

// Store is a Redis-backed credential store.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// New wraps an existing client. An empty prefix selects DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix, now: time.Now}
}

// Open parses a redis:// URL, connects, and verifies the connection.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, oops.In(adapterName).Code("STORE_CONNECT_FAILED").With("operation", "parse url").Wrap(err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, store.Unavailable(adapterName, "ping", err)
	}
	return New(client, prefix), nil
}

func (s *Store) key(username string) string {
	return s.prefix + ":user:" + username
}

func (s *Store) FindByUsername(ctx context.Context, username string) (store.Record, error) {
	raw, err := s.redis.Get(ctx, s.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, store.Unavailable(adapterName, "find by username", err)
	}

	var rec store.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return store.Record{}, oops.In(adapterName).Code("STORE_CORRUPT_RECORD").With("username", username).Wrap(err)
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, username, passwordHash string) (store.Record, error) {
	rec := store.NewRecord(username, passwordHash, s.now())
	raw, err := json.Marshal(rec)
	if err != nil {
		return store.Record{}, oops.In(adapterName).With("operation", "encode record").Wrap(err)
	}

	ok, err := s.redis.SetNX(ctx, s.key(username), raw, 0).Result()
	if err != nil {
		return store.Record{}, store.Unavailable(adapterName, "create", err)
	}
	if !ok {
		return store.Record{}, store.Duplicate(adapterName, username)
	}
	return rec, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return store.Unavailable(adapterName, "ping", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.redis.Close()
}
