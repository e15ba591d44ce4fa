package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indicatorn/smartmemo/internal/model"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newPostgresTestStore(t *testing.T) Store {
	t.Helper()
	dsn := os.Getenv("TEST_SMARTMEMO_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_SMARTMEMO_POSTGRES_DSN not set")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// start every test from empty collections
	for _, key := range []string{KeyMemos, KeyDeletedMemos, KeyGenres, KeyFilter} {
		_, err := s.db.Exec(`DELETE FROM collections WHERE key = $1`, key)
		require.NoError(t, err)
	}
	return s
}

func runStoreTest(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("empty store loads nothing", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		memos, err := s.LoadMemos(ctx, KeyMemos)
		require.NoError(t, err)
		assert.Nil(t, memos)

		genres, err := s.LoadGenres(ctx)
		require.NoError(t, err)
		assert.Nil(t, genres, "unsaved genres must be nil so callers can seed defaults")

		filter, err := s.LoadFilter(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", filter)
	})

	t.Run("memos round trip keeps order and optional fields", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		at := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
		in := []model.Memo{
			{ID: "b", Title: "second", CreatedAt: at, Genre: "Memo"},
			{ID: "a", Title: "first", CreatedAt: at, NotificationAt: &at,
				RepeatRule: model.RepeatMonthly, SnoozeRule: model.Snooze5Min, SnoozeCount: 1, Genre: "Work"},
		}
		require.NoError(t, s.SaveMemos(ctx, KeyMemos, in))

		out, err := s.LoadMemos(ctx, KeyMemos)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "b", out[0].ID)
		assert.Nil(t, out[0].NotificationAt)
		require.NotNil(t, out[1].NotificationAt)
		assert.True(t, at.Equal(*out[1].NotificationAt))
		assert.Equal(t, model.RepeatMonthly, out[1].RepeatRule)
		assert.Equal(t, model.Snooze5Min, out[1].SnoozeRule)
	})

	t.Run("collections are independent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveMemos(ctx, KeyMemos, []model.Memo{{ID: "a"}}))
		require.NoError(t, s.SaveMemos(ctx, KeyDeletedMemos, []model.Memo{{ID: "b", Deleted: true}, {ID: "c", Deleted: true}}))

		active, _ := s.LoadMemos(ctx, KeyMemos)
		deleted, _ := s.LoadMemos(ctx, KeyDeletedMemos)
		assert.Len(t, active, 1)
		assert.Len(t, deleted, 2)
	})

	t.Run("save replaces the whole collection", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveMemos(ctx, KeyMemos, []model.Memo{{ID: "a"}, {ID: "b"}}))
		require.NoError(t, s.SaveMemos(ctx, KeyMemos, nil))

		out, err := s.LoadMemos(ctx, KeyMemos)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("genres and filter round trip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveGenres(ctx, model.DefaultGenres()))
		require.NoError(t, s.SaveFilter(ctx, "Work"))

		genres, err := s.LoadGenres(ctx)
		require.NoError(t, err)
		assert.Len(t, genres, len(model.DefaultGenreNames()))

		filter, err := s.LoadFilter(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Work", filter)
	})

	t.Run("saving no genres is not a first run", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveGenres(ctx, nil))
		genres, err := s.LoadGenres(ctx)
		require.NoError(t, err)
		assert.NotNil(t, genres)
	})

	t.Run("export reads every collection", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveMemos(ctx, KeyMemos, []model.Memo{{ID: "a"}}))
		d, err := ExportAll(ctx, s)
		require.NoError(t, err)
		assert.Len(t, d.Memos, 1)
		assert.NotNil(t, d.Deleted)
		assert.NotNil(t, d.Genres)
	})

	t.Run("stats lists written collections", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.SaveMemos(ctx, KeyMemos, []model.Memo{{ID: "a"}}))
		require.NoError(t, s.SaveFilter(ctx, "Work"))

		st, err := s.Stats(ctx)
		require.NoError(t, err)
		require.Len(t, st.Collections, 2)
		assert.Equal(t, KeyMemos, st.Collections[0].Key)
		assert.Greater(t, st.Collections[0].Bytes, 0)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTest(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	runStoreTest(t, func(t *testing.T) Store { return newTestStore(t) })
}

func TestPostgresStore(t *testing.T) {
	runStoreTest(t, newPostgresTestStore)
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveMemos(ctx, KeyMemos, []model.Memo{{ID: "a", Title: "keep"}}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	memos, err := s.LoadMemos(ctx, KeyMemos)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, "keep", memos[0].Title)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestRebind(t *testing.T) {
	q := `SELECT a FROM t WHERE b = ? AND c = ?`
	assert.Equal(t, q, Rebind(DriverSQLite, q))
	assert.Equal(t, `SELECT a FROM t WHERE b = $1 AND c = $2`, Rebind(DriverPostgres, q))
}
