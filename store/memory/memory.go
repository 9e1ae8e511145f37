// Package memory provides a process-local credential store backed by a map.
// Records do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/authcore/store"
)

const adapterName = "memory"

// Store is an in-memory store.CredentialStore. The zero value is not usable;
// call New.
type Store struct {
	mu      sync.RWMutex
	records map[string]store.Record
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]store.Record),
		now:     time.Now,
	}
}

func (s *Store) FindByUsername(_ context.Context, username string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[username]
	if !ok {
		return store.Record{}, store.ErrNotFound
	}
	return rec, nil
}

// Create inserts a record. The existence check and the insert happen under one
// write lock, so concurrent creates for the same username yield one winner.
func (s *Store) Create(_ context.Context, username, passwordHash string) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[username]; exists {
		return store.Record{}, store.Duplicate(adapterName, username)
	}

	rec := store.NewRecord(username, passwordHash, s.now())
	s.records[username] = rec
	return rec, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
