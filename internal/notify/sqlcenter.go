package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/indicatorn/smartmemo/internal/store"
)

// SQLCenter keeps pending requests in a table so they survive restarts and
// can be drained by a separate `run` process.
type SQLCenter struct {
	db     *sql.DB
	driver string
}

var _ Center = (*SQLCenter)(nil)

// NewSQLCenter creates the triggers table on db if needed.
func NewSQLCenter(ctx context.Context, db *sql.DB, driver string) (*SQLCenter, error) {
	c := &SQLCenter{db: db, driver: driver}
	if err := c.migrate(ctx); err != nil {
		return nil, goerr.Wrap(err, "migrate triggers")
	}
	return c, nil
}

func (c *SQLCenter) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS triggers (
		id          TEXT PRIMARY KEY,
		fire_at_ms  BIGINT NOT NULL,
		repeats     BOOLEAN NOT NULL DEFAULT FALSE,
		interval_ns BIGINT NOT NULL DEFAULT 0,
		title       TEXT NOT NULL,
		body        TEXT NOT NULL,
		metadata    TEXT
	)`)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_triggers_fire_at ON triggers(fire_at_ms)`)
	return err
}

func (c *SQLCenter) q(query string) string {
	return store.Rebind(c.driver, query)
}

func (c *SQLCenter) Schedule(ctx context.Context, r Request) error {
	var meta *string
	if len(r.Payload.Metadata) > 0 {
		b, err := json.Marshal(r.Payload.Metadata)
		if err != nil {
			return goerr.Wrap(err, "encode metadata", goerr.V("id", r.ID))
		}
		s := string(b)
		meta = &s
	}

	_, err := c.db.ExecContext(ctx, c.q(
		`INSERT INTO triggers (id, fire_at_ms, repeats, interval_ns, title, body, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   fire_at_ms = excluded.fire_at_ms, repeats = excluded.repeats,
		   interval_ns = excluded.interval_ns, title = excluded.title,
		   body = excluded.body, metadata = excluded.metadata`),
		r.ID, r.FireAt.UnixMilli(), r.Repeats, int64(r.Interval),
		r.Payload.Title, r.Payload.Body, meta)
	if err != nil {
		return goerr.Wrap(err, "insert trigger", goerr.V("id", r.ID))
	}
	return nil
}

func (c *SQLCenter) Cancel(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := c.db.ExecContext(ctx, c.q(`DELETE FROM triggers WHERE id IN (`+placeholders+`)`), args...)
	if err != nil {
		return goerr.Wrap(err, "delete triggers", goerr.V("count", len(ids)))
	}
	return nil
}

func (c *SQLCenter) Pending(ctx context.Context) ([]Request, error) {
	return c.query(ctx, `SELECT id, fire_at_ms, repeats, interval_ns, title, body, metadata
		FROM triggers ORDER BY fire_at_ms, id`)
}

func (c *SQLCenter) Due(ctx context.Context, now time.Time) ([]Request, error) {
	return c.query(ctx, `SELECT id, fire_at_ms, repeats, interval_ns, title, body, metadata
		FROM triggers WHERE fire_at_ms <= ? ORDER BY fire_at_ms, id`, now.UnixMilli())
}

func (c *SQLCenter) Ack(ctx context.Context, r Request, now time.Time) error {
	if r.Repeats && r.Interval > 0 {
		next := NextFire(r.FireAt, r.Interval, now)
		_, err := c.db.ExecContext(ctx,
			c.q(`UPDATE triggers SET fire_at_ms = ? WHERE id = ? AND fire_at_ms = ?`),
			next.UnixMilli(), r.ID, r.FireAt.UnixMilli())
		if err != nil {
			return goerr.Wrap(err, "advance trigger", goerr.V("id", r.ID))
		}
		return nil
	}

	// the fire time guard skips requests rescheduled since they were read
	_, err := c.db.ExecContext(ctx,
		c.q(`DELETE FROM triggers WHERE id = ? AND fire_at_ms = ?`), r.ID, r.FireAt.UnixMilli())
	if err != nil {
		return goerr.Wrap(err, "ack trigger", goerr.V("id", r.ID))
	}
	return nil
}

func (c *SQLCenter) query(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := c.db.QueryContext(ctx, c.q(query), args...)
	if err != nil {
		return nil, goerr.Wrap(err, "query triggers")
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row scanner) (Request, error) {
	var r Request
	var fireAt, interval int64
	var meta sql.NullString

	if err := row.Scan(&r.ID, &fireAt, &r.Repeats, &interval, &r.Payload.Title, &r.Payload.Body, &meta); err != nil {
		return r, goerr.Wrap(err, "scan trigger")
	}
	r.FireAt = time.UnixMilli(fireAt)
	r.Interval = time.Duration(interval)
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &r.Payload.Metadata); err != nil {
			return r, goerr.Wrap(err, "decode metadata", goerr.V("id", r.ID))
		}
	}
	return r, nil
}

// ErrNoSQL is returned when the sql center is requested on a store that has
// no database behind it.
var ErrNoSQL = errors.New("sql center needs a sql store")
