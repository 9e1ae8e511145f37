package middleware

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/authcore"
)

// Request is the inbound side of a gated call.
type Request interface {
	Context() context.Context
	// Token returns the presented bearer token, if any.
	Token() (string, bool)
}

// Responder writes the rejection for a gated call.
type Responder interface {
	Unauthorized()
}

// Verifier checks a session token. *authcore.Engine satisfies it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*authcore.Claims, error)
}

// Recorder receives gate outcomes for metrics and auditing. A Verifier that
// also implements Recorder is used as one automatically.
type Recorder interface {
	RecordGateAllowed()
	RecordGateRejection(ctx context.Context, err error)
}

// State is the gate's position for one request.
type State uint8

const (
	StateUnauthenticated State = iota
	StateTokenPresent
	StateVerified
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateTokenPresent:
		return "token_present"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Option configures a Gate.
type Option func(*Gate)

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithRecorder overrides the Recorder detected from the Verifier.
func WithRecorder(r Recorder) Option {
	return func(g *Gate) {
		g.recorder = r
	}
}

// Gate admits requests carrying a valid token.
type Gate struct {
	verifier Verifier
	recorder Recorder
	logger   zerolog.Logger
}

func NewGate(v Verifier, opts ...Option) *Gate {
	g := &Gate{
		verifier: v,
		logger:   zerolog.Nop(),
	}
	if r, ok := v.(Recorder); ok {
		g.recorder = r
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "gate").Logger()
	return g
}

// Handle runs one request through the gate and returns its final state. next
// is called once with the claims-bearing context when the state is
// StateVerified and never otherwise.
func (g *Gate) Handle(req Request, res Responder, next func(context.Context)) State {
	ctx := req.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	token, ok := req.Token()
	if !ok || token == "" {
		return g.reject(ctx, res, nil)
	}

	if g == nil || g.verifier == nil {
		return g.reject(ctx, res, authcore.ErrEngineNotReady)
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err == nil && claims == nil {
		err = authcore.ErrInvalidToken
	}
	if err != nil {
		return g.reject(ctx, res, err)
	}

	if g.recorder != nil {
		g.recorder.RecordGateAllowed()
	}
	next(authcore.WithClaims(ctx, claims))
	return StateVerified
}

func (g *Gate) reject(ctx context.Context, res Responder, err error) State {
	if g != nil {
		g.logger.Debug().Str("reason", rejectionReason(err)).Msg("request rejected")
		if g.recorder != nil {
			g.recorder.RecordGateRejection(ctx, err)
		}
	}
	res.Unauthorized()
	return StateRejected
}

func rejectionReason(err error) string {
	switch {
	case err == nil:
		return "missing_token"
	case errors.Is(err, authcore.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, authcore.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, authcore.ErrEngineNotReady):
		return "engine_not_ready"
	default:
		return "verify_failed"
	}
}
