package authcore

import (
	"time"

	"github.com/MrEthical07/authcore/store"
)

// UserRecord is a persisted credential as returned by a [CredentialStore].
type UserRecord = store.Record

// CredentialStore is the persistence capability the Engine depends on.
type CredentialStore = store.CredentialStore

// Claims is the verified identity carried by a session token.
//
// ExpiresAt is zero when tokens are issued without a lifetime.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
	Issuer    string
}

// Username returns the authenticated username.
func (c *Claims) Username() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
