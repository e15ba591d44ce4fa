// Package store provides whole-collection persistence for memos and genres.
package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/indicatorn/smartmemo/internal/model"
)

// Collection keys. Each key holds one JSON-encoded ordered sequence.
const (
	KeyMemos        = "SavedMemos"
	KeyDeletedMemos = "DeletedMemos"
	KeyGenres       = "SavedGenres"
	KeyFilter       = "SelectedGenre"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store persists the memo and genre collections. Every save replaces the
// whole collection.
type Store interface {
	// LoadMemos returns the memos stored under key, or nil if none were saved.
	LoadMemos(ctx context.Context, key string) ([]model.Memo, error)

	// SaveMemos replaces the memos stored under key.
	SaveMemos(ctx context.Context, key string, memos []model.Memo) error

	// LoadGenres returns nil when genres were never saved, which callers
	// treat as a first run.
	LoadGenres(ctx context.Context) ([]model.Genre, error)

	// SaveGenres replaces the genre collection.
	SaveGenres(ctx context.Context, genres []model.Genre) error

	// LoadFilter returns the selected genre filter, or "" if unset.
	LoadFilter(ctx context.Context) (string, error)

	// SaveFilter stores the selected genre filter.
	SaveFilter(ctx context.Context, genre string) error

	// Stats describes the stored collections.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the underlying resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	Path   string // sqlite file
	DSN    string // postgres connection string
}

// Open returns the backend selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return NewSQLiteStore(opts.Path)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.DSN)
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, ErrUnknownDriver
}

// Rebind rewrites '?' placeholders into the driver's native form.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
