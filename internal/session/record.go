package session

import (
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
)

// Record is the durable unit of truth for authentication state: the LoggedIn
// flag and the user profile, with the credential denormalized onto the user.
type Record struct {
	LoggedIn bool `json:"logged_in"`
	User     User `json:"user"`
}

// Clone returns a deep copy that shares no slice or map backing storage with
// the receiver. Persistence layers use it to decouple stored records from
// caller-held ones.
func (r Record) Clone() Record {
	return Record{LoggedIn: r.LoggedIn, User: r.User.clone()}
}

// Credential returns the token+expiry projection the remote client consumes,
// or nil unless the record is logged in with a token that has not expired.
// The projection is always derived here; it is never stored separately.
func (r Record) Credential(now time.Time) *identity.Credential {
	if !r.LoggedIn || r.User.Token == "" {
		return nil
	}
	cred := identity.Credential{AccessToken: r.User.Token}
	if r.User.Expires > 0 {
		cred.ExpiresAt = time.UnixMilli(r.User.Expires)
	}
	if cred.Expired(now) {
		return nil
	}
	return &cred
}

// Consistent reports whether the record satisfies the core invariant:
// LoggedIn is true exactly when the user is non-empty and a non-expired
// credential is present.
func (r Record) Consistent(now time.Time) bool {
	if !r.LoggedIn {
		return r.User.IsEmpty()
	}
	return !r.User.IsEmpty() && r.Credential(now) != nil
}
