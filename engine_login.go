package authcore

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MrEthical07/authcore/store"
)

// Login checks username and pass against the stored credential and returns a
// signed session token.
//
// An unknown username and a wrong password both return ErrInvalidCredentials
// after the same hashing work. A store outage returns ErrStoreUnavailable and a
// signing failure after a correct password returns ErrTokenIssue.
func (e *Engine) Login(ctx context.Context, username, pass string) (token string, err error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	ctx, span := e.tracer.Start(ctx, "authcore.Login")
	span.SetAttributes(attribute.String("authcore.username", username))
	defer func() {
		e.emitAudit(ctx, AuditEventLogin, username, "", err)
		endSpan(span, err)
	}()

	targetHash := e.dummyHash
	userExists := false

	if username != "" {
		rec, lookupErr := e.store.FindByUsername(ctx, username)
		switch {
		case lookupErr == nil:
			targetHash = rec.PasswordHash
			userExists = true
		case errors.Is(lookupErr, store.ErrNotFound):
		default:
			e.metrics.Inc(MetricLoginUnavailable)
			e.logger.Error().Str("username", username).Err(lookupErr).Msg("credential store lookup failed")
			return "", ErrStoreUnavailable
		}
	}

	// Always verify so that unknown users cost the same as known ones.
	valid, verifyErr := e.hasher.Verify(pass, targetHash)
	if verifyErr != nil && userExists {
		e.logger.Error().Str("username", username).Err(verifyErr).Msg("stored password hash is unreadable")
	}

	if !userExists || verifyErr != nil || !valid || pass == "" {
		e.metrics.Inc(MetricLoginFailure)
		e.logger.Info().Str("username", username).Msg("login rejected")
		return "", ErrInvalidCredentials
	}

	token, err = e.tokens.Issue(username, e.now())
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.logger.Error().Str("username", username).Err(err).Msg("token signing failed")
		return "", ErrTokenIssue
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.logger.Info().Str("username", username).Msg("login succeeded")
	return token, nil
}
