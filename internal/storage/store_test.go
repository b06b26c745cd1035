package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
)

// exerciseStore runs the behavior every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "s1", KeyCart)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "s1", KeyCart, []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "s1", KeyCart, []byte(`[{"productId":"flan"}]`)))
	require.NoError(t, s.Set(ctx, "s2", KeyCart, []byte(`other`)))

	v, err := s.Get(ctx, "s1", KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"flan"}]`, string(v))

	v, err = s.Get(ctx, "s2", KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "other", string(v))

	require.NoError(t, s.Delete(ctx, "s1", KeyCart))
	_, err = s.Get(ctx, "s1", KeyCart)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is not an error
	require.NoError(t, s.Delete(ctx, "s1", KeyCart))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "s", "k", buf))
	buf[0] = 'x'

	v, err := s.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLStoreErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewSQLStore(db)

	mock.ExpectQuery(`SELECT value FROM storefront_kv`).
		WithArgs("s1", KeyCart).
		WillReturnError(sql.ErrNoRows)
	_, err = s.Get(ctx, "s1", KeyCart)
	require.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("disk I/O error")
	mock.ExpectExec(`INSERT INTO storefront_kv`).
		WithArgs("s1", KeyCart, []byte(`[]`)).
		WillReturnError(boom)
	err = s.Set(ctx, "s1", KeyCart, []byte(`[]`))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "set s1/cart")

	mock.ExpectExec(`DELETE FROM storefront_kv`).
		WithArgs("s1", KeyCart).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(ctx, "s1", KeyCart))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT value FROM storefront_kv`).
			WithArgs("s1", KeyCart).
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

		v, err := NewPostgresStore(mock).Get(ctx, "s1", KeyCart)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(v))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT value FROM storefront_kv`).
			WithArgs("s1", KeyCart).
			WillReturnError(pgx.ErrNoRows)

		_, err = NewPostgresStore(mock).Get(ctx, "s1", KeyCart)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get failure is wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		boom := errors.New("conn reset")
		mock.ExpectQuery(`SELECT value FROM storefront_kv`).WillReturnError(boom)

		_, err = NewPostgresStore(mock).Get(ctx, "s1", KeyCart)
		require.ErrorIs(t, err, boom)
		require.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("set upserts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO storefront_kv`).
			WithArgs("s1", KeyCart, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewPostgresStore(mock).Set(ctx, "s1", KeyCart, []byte(`[]`)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM storefront_kv`).
			WithArgs("s1", KeyCart).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.NoError(t, NewPostgresStore(mock).Delete(ctx, "s1", KeyCart))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

type failingStore struct{ Store }

func (failingStore) Set(ctx context.Context, session, key string, value []byte) error {
	return errors.New("disk full")
}

func TestNotifyingStore(t *testing.T) {
	ctx := context.Background()
	bus := events.NewLocalBus("instance-a")

	var got []events.Event
	bus.Subscribe(events.EventStorageChanged, func(ctx context.Context, ev events.Event) { got = append(got, ev) })

	s := NewNotifyingStore(NewMemoryStore(), bus, zap.NewNop())
	require.NoError(t, s.Set(ctx, "s1", KeyCart, []byte(`[]`)))
	require.NoError(t, s.Delete(ctx, "s1", KeyCart))

	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].Session)
	assert.Equal(t, KeyCart, got[0].Key)

	got = nil
	failing := NewNotifyingStore(failingStore{NewMemoryStore()}, bus, zap.NewNop())
	require.Error(t, failing.Set(ctx, "s1", KeyCart, []byte(`[]`)))
	assert.Empty(t, got)
}
