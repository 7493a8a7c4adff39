package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// Persister saves and restores a Record across reloads. Implementations live
// outside this package; a nil persister keeps the record in memory only.
type Persister interface {
	// Load returns the persisted record, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Clear(ctx context.Context) error
}

// Store holds the session record for one execution context. Every server
// render or client process gets its own instance; a Store must never be
// shared across concurrently handled contexts for different users.
//
// Reads go through IsLoggedIn/UserData/Snapshot. Writes are package-private:
// Actions, CredentialStorage and Reconciler are the only writers.
type Store struct {
	id        string
	persister Persister
	log       logging.Logger

	mu  sync.RWMutex
	rec Record
}

type StoreOption func(*Store)

// WithPersister backs the store with a durable record store.
func WithPersister(p Persister) StoreOption {
	return func(s *Store) { s.persister = p }
}

func WithStoreLogger(l logging.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty store tagged with a fresh context id, used to
// correlate log lines from the same render/request context.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{id: uuid.NewString(), log: logging.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("store_id", s.id)
	return s
}

// ID returns the store's context id.
func (s *Store) ID() string { return s.id }

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.LoggedIn
}

// UserData returns a copy of the current user profile.
func (s *Store) UserData() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.User.clone()
}

// Snapshot returns a copy of the whole record.
func (s *Store) Snapshot() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Clone()
}

// Hydrate loads the persisted record into the store. A record that claims
// login with an empty user violates the core invariant and is discarded with
// a warning; the context then starts anonymous and the reconciler takes over.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	rec, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if rec == nil {
		return nil
	}

	if rec.LoggedIn && rec.User.IsEmpty() {
		s.log.Warn(ctx, "discarding persisted session record", "error", ErrStateInconsistent)
		return nil
	}

	s.mu.Lock()
	s.rec = *rec
	s.mu.Unlock()

	s.log.Debug(ctx, "session hydrated", "logged_in", rec.LoggedIn)
	return nil
}

// apply runs a mutation under the lock and persists the result.
func (s *Store) apply(ctx context.Context, mutate func(*Record)) error {
	s.mu.Lock()
	mutate(&s.rec)
	rec := s.rec.Clone()
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Save(ctx, &rec); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}
	return nil
}

// reset restores the empty initial record and clears the persisted copy.
func (s *Store) reset(ctx context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Clear(ctx); err != nil {
			return fmt.Errorf("clear persisted session: %w", err)
		}
	}
	return nil
}

// now is a test seam for expiry checks.
var now = time.Now
