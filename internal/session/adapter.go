package session

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// CredentialStorage adapts the session store to the remote client's
// identity.TokenStorage contract. It holds a reference to the store, not
// ownership, and only ever touches the credential-bearing fields.
type CredentialStorage struct {
	store *Store
	log   logging.Logger
}

func NewCredentialStorage(store *Store, opts ...CredentialStorageOption) *CredentialStorage {
	cs := &CredentialStorage{store: store, log: logging.NewNop()}
	for _, o := range opts {
		o(cs)
	}
	return cs
}

type CredentialStorageOption func(*CredentialStorage)

func WithCredentialStorageLogger(l logging.Logger) CredentialStorageOption {
	return func(cs *CredentialStorage) { cs.log = l }
}

// Get returns the credential projection, or nil unless the record is logged
// in and holds a non-expired token. Returning nil forces the remote client
// to treat the session as anonymous instead of surfacing stale credentials.
func (cs *CredentialStorage) Get() *identity.Credential {
	return cs.store.Snapshot().Credential(now())
}

// Set writes a credential the remote client obtained on its own (e.g. after
// a transparent refresh). It updates the credential-bearing fields without
// discarding the rest of the user, and it never flips LoggedIn: a bare token
// write does not imply login. Promotion to logged-in is the reconciler's job.
func (cs *CredentialStorage) Set(cred identity.Credential) error {
	// The TokenStorage contract carries no context; the write is still a
	// mutation of shared persisted state and must not be lost.
	ctx := context.Background()

	err := cs.store.apply(ctx, func(r *Record) {
		r.User.Token = cred.AccessToken
		if !cred.ExpiresAt.IsZero() {
			r.User.Expires = cred.ExpiresAt.UnixMilli()
		} else {
			// Unknown expiry must not inherit the previous token's instant;
			// a stale past expiry would keep projecting the fresh token as
			// unusable.
			r.User.Expires = 0
		}
	})
	if err != nil {
		cs.log.Error(ctx, "failed to store refreshed credential", "error", err)
		return err
	}
	return nil
}
