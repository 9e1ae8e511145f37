package authcore

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/authcore/store"
	"github.com/MrEthical07/authcore/store/memory"
)

const testSecret = "test-secret-0123456789-abcdefghijkl"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Secret = testSecret
	cfg.StorageType = StorageMemory
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, s CredentialStore) *Engine {
	t.Helper()

	if s == nil {
		s = memory.New()
	}
	engine, err := New().WithConfig(cfg).WithStore(s).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close(context.Background()) })
	return engine
}

type countingStore struct {
	CredentialStore
	finds   atomic.Int64
	creates atomic.Int64
}

func (s *countingStore) FindByUsername(ctx context.Context, username string) (UserRecord, error) {
	s.finds.Add(1)
	return s.CredentialStore.FindByUsername(ctx, username)
}

func (s *countingStore) Create(ctx context.Context, username, passwordHash string) (UserRecord, error) {
	s.creates.Add(1)
	return s.CredentialStore.Create(ctx, username, passwordHash)
}

func (s *countingStore) reset() {
	s.finds.Store(0)
	s.creates.Store(0)
}

// failingStore simulates an unreachable backend.
type failingStore struct {
	pingErr error
	closed  atomic.Bool
}

func (s *failingStore) FindByUsername(context.Context, string) (UserRecord, error) {
	return UserRecord{}, store.Unavailable("failing", "find", context.DeadlineExceeded)
}

func (s *failingStore) Create(context.Context, string, string) (UserRecord, error) {
	return UserRecord{}, store.Unavailable("failing", "create", context.DeadlineExceeded)
}

func (s *failingStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *failingStore) Close(context.Context) error {
	s.closed.Store(true)
	return nil
}

// fixedStore returns one record regardless of username.
type fixedStore struct {
	rec UserRecord
}

func (s fixedStore) FindByUsername(_ context.Context, username string) (UserRecord, error) {
	if username != s.rec.Username {
		return UserRecord{}, store.ErrNotFound
	}
	return s.rec, nil
}

func (s fixedStore) Create(context.Context, string, string) (UserRecord, error) {
	return UserRecord{}, store.ErrDuplicate
}

type manualClock struct {
	now atomic.Int64
}

func newManualClock(start time.Time) *manualClock {
	c := &manualClock{}
	c.now.Store(start.UnixNano())
	return c
}

func (c *manualClock) Now() time.Time {
	return time.Unix(0, c.now.Load())
}

func (c *manualClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}
