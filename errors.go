package authcore

import "errors"

var (
	// ErrInvalidInput is returned by Register when the username or password
	// violates the input policy.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUser is returned by Register when the username is taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Login for an unknown user and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned by Verify for forged, tampered or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned by Verify when an authentic token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrStoreUnavailable is returned when the credential store cannot be reached.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrHashFailure is returned when the password hasher fails for reasons
	// other than a mismatch.
	ErrHashFailure = errors.New("password hashing failed")
	// ErrTokenIssue is returned by Login when credentials were accepted but the
	// session token could not be signed.
	ErrTokenIssue = errors.New("token issuance failed")
	// ErrInvalidConfig is returned by CreateAuth and Build for unusable configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrEngineNotReady is returned when a method is called on a nil or closed Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
