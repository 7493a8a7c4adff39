package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Records are stored as JSON, one row per store identifier.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, storeID string) (*session.Record, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM sessions WHERE store_id = ?`, storeID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session[%s]: %w", storeID, err)
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session[%s]: %w", storeID, err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, storeID string, rec *session.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session[%s]: %w", storeID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (store_id, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(store_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at
	`, storeID, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save session[%s]: %w", storeID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, storeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE store_id = ?`, storeID)
	if err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", storeID, err)
	}
	return nil
}
