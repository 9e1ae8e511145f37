// Package password implements credential hashing and verification.
//
// # Output format
//
// [Argon2] hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Bcrypt] hashes use the standard modular crypt format produced by
// golang.org/x/crypto/bcrypt.
//
// A stored hash produced with weaker parameters is reported by
// [Argon2.NeedsUpgrade]. Records are immutable inside authcore, so the
// report is informational only.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length
// bounds) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
