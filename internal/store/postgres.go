package store

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/m-mizutani/goerr/v2"
)

// NewPostgresStore connects to PostgreSQL and creates the schema if needed.
// dsn looks like postgresql://localhost:5432/smartmemo?user=memo&password=secret
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, goerr.New("postgres dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "ping postgres")
	}

	s := &SQLStore{db: db, driver: DriverPostgres}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "migrate postgres")
	}
	return s, nil
}
