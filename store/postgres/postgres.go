// Package postgres implements store.CredentialStore on PostgreSQL through a
// pgx connection pool. Username uniqueness is enforced by a UNIQUE constraint
// created by the embedded migrations.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/MrEthical07/authcore/store"
)

const adapterName = "postgres"

// poolIface is the subset of *pgxpool.Pool used by Store. pgxmock satisfies it
// in unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store is a PostgreSQL-backed credential store.
type Store struct {
	pool poolIface
	now  func() time.Time
}

// Open connects to databaseURL and verifies the connection with a ping.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.In(adapterName).Code("STORE_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, store.Unavailable(adapterName, "ping", err)
	}
	return newStore(pool), nil
}

func newStore(pool poolIface) *Store {
	return &Store{pool: pool, now: time.Now}
}

func (s *Store) FindByUsername(ctx context.Context, username string) (store.Record, error) {
	var rec store.Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM credentials WHERE username = $1`,
		username,
	).Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, store.Unavailable(adapterName, "find by username", err)
	}
	return rec, nil
}

// Create inserts a record. A concurrent insert of the same username loses on
// the UNIQUE constraint and reports store.ErrDuplicate.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (store.Record, error) {
	rec := store.NewRecord(username, passwordHash, s.now())
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credentials (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Username, rec.PasswordHash, rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return store.Record{}, store.Duplicate(adapterName, username)
		}
		return store.Record{}, store.Unavailable(adapterName, "create", err)
	}
	return rec, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return store.Unavailable(adapterName, "ping", err)
	}
	return nil
}

// Close releases the pool. It never fails.
func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
