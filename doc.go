// Package authcore provides a minimal authentication core: user registration,
// credential verification, stateless signed session tokens and a request gate.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after construction through
// [CreateAuth] or [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the error taxonomy and context helpers. Persistence lives behind
// [CredentialStore] (adapters under store/), hashing behind password.Hasher,
// token signing in jwt/, and framework glue in middleware/.
//
// # What this package must NOT do
//
//   - Return adapter or driver errors to callers; everything is translated into
//     the sentinels in errors.go.
//   - Log or persist plaintext passwords.
//   - Touch the credential store on the token verification path.
//   - Import any sub-package that re-imports authcore (no import cycles).
package authcore
