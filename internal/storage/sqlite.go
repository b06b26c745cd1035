package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Register sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS storefront_kv (
	session    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (session, key)
)`

// SQLiteStore keeps the key-value table in a single local file.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return NewSQLStore(db), nil
}

// NewSQLStore wraps an already initialized database holding the storefront_kv table.
func NewSQLStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, session, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM storefront_kv WHERE session = ? AND key = ?`, session, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", session, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO storefront_kv (session, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (session, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, session, key, value)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", session, key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, session, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM storefront_kv WHERE session = ? AND key = ?`, session, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", session, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
