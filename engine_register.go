package authcore

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MrEthical07/authcore/internal/validation"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/store"
)

const maxUsernameLength = 256

// Register hashes password and stores a new credential for username.
//
// It returns ErrInvalidInput when either value violates the input policy,
// ErrDuplicateUser when the username is taken, ErrStoreUnavailable when the
// store cannot be reached and ErrHashFailure when hashing fails.
func (e *Engine) Register(ctx context.Context, username, pass string) (err error) {
	if err := e.ready(); err != nil {
		return err
	}

	ctx, span := e.tracer.Start(ctx, "authcore.Register")
	span.SetAttributes(attribute.String("authcore.username", username))
	defer func() {
		e.emitAudit(ctx, AuditEventRegister, username, "", err)
		endSpan(span, err)
	}()

	if err := e.validateRegistration(username, pass); err != nil {
		e.metrics.Inc(MetricRegisterInvalidInput)
		e.logger.Debug().Str("username", username).Err(err).Msg("register rejected")
		return ErrInvalidInput
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			e.metrics.Inc(MetricRegisterInvalidInput)
			return ErrInvalidInput
		}
		e.metrics.Inc(MetricRegisterFailure)
		e.logger.Error().Str("username", username).Err(err).Msg("password hashing failed")
		return ErrHashFailure
	}

	if _, err := e.store.Create(ctx, username, hash); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			e.metrics.Inc(MetricRegisterDuplicate)
			e.logger.Info().Str("username", username).Msg("register duplicate")
			return ErrDuplicateUser
		}
		e.metrics.Inc(MetricRegisterFailure)
		e.logger.Error().Str("username", username).Err(err).Msg("credential store create failed")
		return ErrStoreUnavailable
	}

	e.metrics.Inc(MetricRegisterSuccess)
	e.logger.Info().Str("username", username).Msg("user registered")
	return nil
}

func (e *Engine) validateRegistration(username, pass string) error {
	if err := validation.Var(username, fmt.Sprintf("required,notblank,max=%d", maxUsernameLength)); err != nil {
		return fmt.Errorf("username %w", err)
	}
	rules := fmt.Sprintf("required,min=%d,max=%d", e.config.Password.MinLength, e.config.Password.MaxLength)
	if err := validation.Var(pass, rules); err != nil {
		return fmt.Errorf("password %w", err)
	}
	return nil
}
