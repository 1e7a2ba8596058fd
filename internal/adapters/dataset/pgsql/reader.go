// Package pgsql reads text/label rows from a Postgres table with keyset pagination
package pgsql

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"
	"hashjudge/internal/platform/store"
	"hashjudge/internal/services/evaluate/domain"

	"github.com/jackc/pgx/v5"
)

const (
	// DefaultTable is read when no table is configured
	DefaultTable = "text_label"
	defaultBatch = 2048
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Config selects the table and page size
type Config struct {
	Table string // "name" or "schema.name"
	Batch int
}

// Reader pages through (id, text, label) ordered by id; implements domain.Source
type Reader struct {
	q      store.Querier
	closer func()
	sql    string
	count  string
	batch  int
	after  int64
	done   bool
	read   int64
}

// QuoteTable validates a possibly schema-qualified table name and returns it quoted
func QuoteTable(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTable
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", perr.WithField(perr.InvalidArgf("invalid table name %q", name), "table")
	}
	for _, p := range parts {
		if !identRe.MatchString(p) {
			return "", perr.WithField(perr.InvalidArgf("invalid table name %q", name), "table")
		}
	}
	return pgx.Identifier(parts).Sanitize(), nil
}

// New reads through q; the caller owns q
func New(q store.Querier, cfg Config) (*Reader, error) {
	table, err := QuoteTable(cfg.Table)
	if err != nil {
		return nil, err
	}
	batch := cfg.Batch
	if batch <= 0 {
		batch = defaultBatch
	}
	return &Reader{
		q: q,
		sql: fmt.Sprintf(
			`SELECT id, COALESCE(text, ''), COALESCE(label, '') FROM %s WHERE id > $1 ORDER BY id LIMIT $2`,
			table,
		),
		count: fmt.Sprintf(`SELECT count(*) FROM %s`, table),
		batch: batch,
	}, nil
}

// Open connects to dsn and returns a Reader that owns the pool
func Open(ctx context.Context, dsn string, cfg Config, log logger.Logger) (*Reader, error) {
	db, err := store.Open(ctx, store.Config{
		URL:       dsn,
		AppName:   "hashjudge-eval",
		MaxConns:  2,
		SlowQuery: 2 * time.Second,
	}, log)
	if err != nil {
		return nil, perr.WithOp(err, "pgsql.open")
	}
	r, err := New(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.closer = db.Close
	if n, err := r.Count(ctx); err == nil {
		log.Info().Int64("rows", n).Str("table", cfg.Table).Msg("dataset table opened")
	}
	return r, nil
}

// Count returns the total number of rows in the table
func (r *Reader) Count(ctx context.Context) (int64, error) {
	n, err := store.Scalar[int64](ctx, r.q, r.count)
	if err != nil {
		return 0, perr.FromPostgres(err, "count dataset rows")
	}
	return n, nil
}

type idRow struct {
	id  int64
	row domain.Row
}

func scanRow(r store.Row) (idRow, error) {
	var x idRow
	err := r.Scan(&x.id, &x.row.Text, &x.row.Label)
	return x, err
}

// Next returns the next page, io.EOF once a short or empty page has been seen
func (r *Reader) Next(ctx context.Context) ([]domain.Row, error) {
	if r.done {
		return nil, io.EOF
	}
	page, err := store.Many(ctx, r.q, scanRow, r.sql, r.after, r.batch)
	if err != nil {
		return nil, perr.FromPostgres(err, "read dataset page")
	}
	if len(page) < r.batch {
		r.done = true
	}
	if len(page) == 0 {
		return nil, io.EOF
	}
	out := make([]domain.Row, len(page))
	for i := range page {
		out[i] = page[i].row
	}
	r.after = page[len(page)-1].id
	r.read += int64(len(page))
	return out, nil
}

// Close releases the connection when the Reader opened it
func (r *Reader) Close() error {
	if r.closer != nil {
		r.closer()
		r.closer = nil
	}
	return nil
}

// Rows returns how many rows have been read so far
func (r *Reader) Rows() int64 { return r.read }
