package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, session, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM storefront_kv WHERE session=$1 AND key=$2`, session, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", session, key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO storefront_kv(session, key, value)
		VALUES($1, $2, $3)
		ON CONFLICT (session, key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
	`, session, key, value)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", session, key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, session, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM storefront_kv WHERE session=$1 AND key=$2`, session, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", session, key, err)
	}
	return nil
}
