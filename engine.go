package authcore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	internalaudit "github.com/MrEthical07/authcore/internal/audit"
	"github.com/MrEthical07/authcore/jwt"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/store"
)

// Engine registers users, checks credentials and issues and verifies session
// tokens. It is safe for concurrent use.
type Engine struct {
	config    Config
	store     CredentialStore
	hasher    password.Hasher
	tokens    tokenManager
	dummyHash string

	logger  zerolog.Logger
	metrics *Metrics
	audit   *internalaudit.Dispatcher
	tracer  trace.Tracer
	now     func() time.Time

	ownsStore bool
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// tokenManager is the part of *jwt.Manager the engine depends on.
type tokenManager interface {
	Issue(subject string, issuedAt time.Time) (string, error)
	Parse(token string) (*jwt.SessionClaims, error)
	Algorithm() string
}

// Close flushes pending audit events and, for engines created by CreateAuth,
// closes the store connection. Calls after the first return the first result.
func (e *Engine) Close(ctx context.Context) error {
	if e == nil {
		return nil
	}
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		e.audit.Close()
		if !e.ownsStore {
			return
		}
		if closer, ok := e.store.(store.Closer); ok {
			if err := closer.Close(ctx); err != nil {
				e.logger.Error().Err(err).Msg("closing credential store")
				e.closeErr = fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
			}
		}
	})
	return e.closeErr
}

// Health reports whether the credential store is reachable. Stores without a
// Ping method are assumed healthy.
func (e *Engine) Health(ctx context.Context) error {
	if err := e.ready(); err != nil {
		return err
	}
	pinger, ok := e.store.(store.Pinger)
	if !ok {
		return nil
	}
	if err := pinger.Ping(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("credential store health check failed")
		return ErrStoreUnavailable
	}
	return nil
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.tokens == nil || e.closed.Load() {
		return ErrEngineNotReady
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
