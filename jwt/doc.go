// Package jwt issues and verifies stateless session tokens signed with a shared
// HMAC secret.
//
// Tokens are compact JWS strings (three base64url segments). Validity depends
// only on the signature and the time-bound claims; nothing is persisted.
//
// Parse maps every failure onto two sentinels: [ErrExpired] when the token is
// authentic but outside its validity window, and [ErrInvalid] for everything
// else (bad signature, wrong secret, tampering, malformed input, unexpected
// algorithm, issuer or audience mismatch).
package jwt
