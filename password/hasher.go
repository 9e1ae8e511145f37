package password

import "errors"

// Hasher turns a plaintext password into an opaque, salted hash and checks a
// plaintext against a previously produced hash.
//
// Verify reports a mismatch as (false, nil). A non-nil error means the
// stored hash could not be interpreted at all.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password string, encodedHash string) (bool, error)
}

var (
	// ErrMalformedHash is returned by Verify when the encoded hash cannot be parsed.
	ErrMalformedHash = errors.New("password: malformed hash")
	// ErrPasswordTooLong is returned when a password exceeds the hasher's byte limit.
	ErrPasswordTooLong = errors.New("password: exceeds maximum length")
)

var (
	_ Hasher = (*Argon2)(nil)
	_ Hasher = (*Bcrypt)(nil)
)
