package authcore

import (
	"context"
	"errors"
)

// AuditErrorCode is the coarse failure reason recorded in audit events.
type AuditErrorCode string

const (
	auditErrInvalidInput       AuditErrorCode = "invalid_input"
	auditErrDuplicateUser      AuditErrorCode = "duplicate_user"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrExpiredToken       AuditErrorCode = "expired_token"
	auditErrStoreUnavailable   AuditErrorCode = "store_unavailable"
	auditErrHashFailure        AuditErrorCode = "hash_failure"
	auditErrTokenIssue         AuditErrorCode = "token_issue_failure"
	auditErrMissingToken       AuditErrorCode = "missing_token"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func auditCodeFor(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return auditErrInvalidInput
	case errors.Is(err, ErrDuplicateUser):
		return auditErrDuplicateUser
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrExpiredToken):
		return auditErrExpiredToken
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	case errors.Is(err, ErrHashFailure):
		return auditErrHashFailure
	case errors.Is(err, ErrTokenIssue):
		return auditErrTokenIssue
	default:
		return auditErrInternal
	}
}

func (e *Engine) emitAudit(ctx context.Context, eventType, username, tokenID string, err error) {
	if e == nil || e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Username:  username,
		TokenID:   tokenID,
		Success:   err == nil,
		Error:     string(auditCodeFor(err)),
	})
}

// RecordGateRejection records a request rejected by the gate. reason is the
// internal failure class; it never reaches the client.
func (e *Engine) RecordGateRejection(ctx context.Context, err error) {
	if e == nil {
		return
	}
	code := auditCodeFor(err)
	if err == nil {
		code = auditErrMissingToken
		e.metrics.Inc(MetricGateMissingToken)
	} else {
		e.metrics.Inc(MetricGateRejected)
	}
	if e.audit == nil {
		return
	}
	e.audit.Emit(ctx, AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: AuditEventGateReject,
		Success:   false,
		Error:     string(code),
	})
}

// RecordGateAllowed counts a request the gate let through.
func (e *Engine) RecordGateAllowed() {
	if e == nil {
		return
	}
	e.metrics.Inc(MetricGateAllowed)
}
