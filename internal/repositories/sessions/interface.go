// Package sessions persists session records across reloads, keyed by a fixed
// store identifier. Three implementations are provided: sqlite (durable,
// local), redis (durable, shared), and in-memory (tests and embedders that
// do not need durability).
package sessions

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

type Repository interface {
	// Load returns the record for storeID, or (nil, nil) when none exists.
	Load(ctx context.Context, storeID string) (*session.Record, error)
	Save(ctx context.Context, storeID string, rec *session.Record) error
	Clear(ctx context.Context, storeID string) error
}

// ForStore binds a repository to a fixed store identifier, yielding the
// Persister a session.Store consumes.
func ForStore(repo Repository, storeID string) session.Persister {
	return &boundPersister{repo: repo, storeID: storeID}
}

type boundPersister struct {
	repo    Repository
	storeID string
}

func (b *boundPersister) Load(ctx context.Context) (*session.Record, error) {
	return b.repo.Load(ctx, b.storeID)
}

func (b *boundPersister) Save(ctx context.Context, rec *session.Record) error {
	return b.repo.Save(ctx, b.storeID, rec)
}

func (b *boundPersister) Clear(ctx context.Context) error {
	return b.repo.Clear(ctx, b.storeID)
}
