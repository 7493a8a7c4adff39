package sessions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

// MemoryRepository keeps records in process memory. Useful for tests and for
// running without a persistence backend; everything vanishes on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]session.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]session.Record)}
}

func (r *MemoryRepository) Load(_ context.Context, storeID string) (*session.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[storeID]
	if !ok {
		return nil, nil
	}
	out := rec.Clone()
	return &out, nil
}

func (r *MemoryRepository) Save(_ context.Context, storeID string, rec *session.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stored records share no backing storage with the caller's copy.
	r.records[storeID] = rec.Clone()
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context, storeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, storeID)
	return nil
}
