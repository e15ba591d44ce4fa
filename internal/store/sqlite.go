package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/indicatorn/smartmemo/internal/model"
)

// SQLStore implements Store on a SQL database. The same schema serves
// SQLite and PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
	path   string
}

var _ Store = (*SQLStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLStore{db: db, driver: DriverSQLite, path: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS collections (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// DB exposes the connection so other components can share the database.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *SQLStore) Driver() string {
	return s.driver
}

func (s *SQLStore) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		Rebind(s.driver, `SELECT value FROM collections WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLStore) put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, Rebind(s.driver,
		`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(value), now)
	return err
}

func (s *SQLStore) LoadMemos(ctx context.Context, key string) ([]model.Memo, error) {
	return loadMemos(ctx, s, key)
}

func (s *SQLStore) SaveMemos(ctx context.Context, key string, memos []model.Memo) error {
	return saveMemos(ctx, s, key, memos)
}

func (s *SQLStore) LoadGenres(ctx context.Context) ([]model.Genre, error) {
	return loadGenres(ctx, s)
}

func (s *SQLStore) SaveGenres(ctx context.Context, genres []model.Genre) error {
	return saveGenres(ctx, s, genres)
}

func (s *SQLStore) LoadFilter(ctx context.Context) (string, error) {
	return loadFilter(ctx, s)
}

func (s *SQLStore) SaveFilter(ctx context.Context, genre string) error {
	return saveJSON(ctx, s, KeyFilter, genre)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
