package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/jwt"
)

// Verify checks a session token's signature and time bounds and returns its
// claims. It never consults the credential store.
//
// Failures are ErrExpiredToken for an authentic but expired token and
// ErrInvalidToken for everything else.
func (e *Engine) Verify(ctx context.Context, token string) (claims *Claims, err error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	start := e.now()
	ctx, span := e.tracer.Start(ctx, "authcore.Verify")
	defer func() {
		e.metrics.Observe(MetricVerifyLatency, e.now().Sub(start))
		tokenID := ""
		if claims != nil {
			tokenID = claims.TokenID
		}
		e.emitAudit(ctx, AuditEventVerify, claims.Username(), tokenID, err)
		endSpan(span, err)
	}()

	parsed, parseErr := e.tokens.Parse(token)
	if parseErr != nil {
		if errors.Is(parseErr, jwt.ErrExpired) {
			e.metrics.Inc(MetricVerifyExpired)
			e.logger.Debug().Err(parseErr).Msg("token expired")
			return nil, ErrExpiredToken
		}
		e.metrics.Inc(MetricVerifyInvalid)
		e.logger.Debug().Err(parseErr).Msg("token rejected")
		return nil, ErrInvalidToken
	}

	claims = &Claims{
		Subject: parsed.Subject,
		TokenID: parsed.ID,
		Issuer:  parsed.Issuer,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}

	e.metrics.Inc(MetricVerifySuccess)
	return claims, nil
}
