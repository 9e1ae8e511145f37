// Package store defines the credential persistence contract consumed by the
// authentication engine and the sentinel errors every adapter reports.
//
// Adapters live in sub-packages (memory, postgres, mongo, redis). Each one
// guarantees that at most one record exists per username, including under
// concurrent Create calls for the same name.
package store
