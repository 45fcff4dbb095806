package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SQLiteStore persists each collection as one row in the kv_entries table,
// created by the repository migrations. SQLite is the durable local medium
// that survives process restarts.
type SQLiteStore struct {
	db *sql.DB
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM kv_entries WHERE key = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kv entry: %w", err)
	}
	return payload, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO kv_entries (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write kv entry: %w", err)
	}
	return nil
}
