package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Record is a persisted credential. PasswordHash is the opaque hasher output;
// plaintext never reaches a store.
type Record struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CredentialStore persists credential records keyed by username.
//
// FindByUsername returns ErrNotFound when no record exists. Create returns
// ErrDuplicate when the username is taken and must be atomic with respect to
// that check. Connectivity and driver failures are reported wrapped with
// ErrUnavailable.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (Record, error)
	Create(ctx context.Context, username, passwordHash string) (Record, error)
}

// Pinger is implemented by adapters that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by adapters that hold connections.
type Closer interface {
	Close(ctx context.Context) error
}

var (
	ErrNotFound    = errors.New("store: credential not found")
	ErrDuplicate   = errors.New("store: username already exists")
	ErrUnavailable = errors.New("store: backend unavailable")
)

// NewRecord builds a record with a fresh ULID and the given creation time.
func NewRecord(username, passwordHash string, createdAt time.Time) Record {
	return Record{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.UTC(),
	}
}

// Unavailable wraps a backend failure so that errors.Is(err, ErrUnavailable)
// holds while keeping the adapter and operation as context.
func Unavailable(adapter, operation string, err error) error {
	return oops.
		In(adapter).
		Code("STORE_UNAVAILABLE").
		With("operation", operation).
		Wrap(fmt.Errorf("%w: %w", ErrUnavailable, err))
}

// Duplicate reports a username collision detected by adapter.
func Duplicate(adapter, username string) error {
	return oops.
		In(adapter).
		Code("STORE_DUPLICATE").
		With("username", username).
		Wrap(ErrDuplicate)
}
