// Package store is the read side of Postgres: a pooled connection, a slow
// query tracer, and generic scan helpers over a two-method querier seam.
package store

import (
	"context"
	"time"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; pgx.Rows satisfies it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is all a dataset reader needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Config shapes the pool
type Config struct {
	URL       string
	AppName   string // reported as application_name
	MaxConns  int32
	SlowQuery time.Duration // queries at or above this log at warn; 0 disables

	ConnectRetries int           // default 5
	PingTimeout    time.Duration // default 3s
}

const (
	defaultConnectRetries = 5
	defaultPingTimeout    = 3 * time.Second
	backoffStart          = 150 * time.Millisecond
	backoffCeiling        = 2 * time.Second
)

// DB is a pgx pool behind Querier
type DB struct {
	pool *pgxpool.Pool
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, builds the pool and pings it with backoff until it answers
func Open(ctx context.Context, cfg Config, log logger.Logger) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres dsn"), "input")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pc.ConnConfig.Tracer = &queryTracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: cfg.SlowQuery,
	}

	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create postgres pool")
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	backoff := backoffStart
	for i := 1; ; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = pool.Ping(pctx)
		cancel()
		if err == nil {
			return &DB{pool: pool}, nil
		}
		if ctx.Err() != nil {
			pool.Close()
			return nil, ctx.Err()
		}
		if i == attempts {
			break
		}
		log.Debug().Err(err).Int("attempt", i).Dur("backoff", backoff).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	pool.Close()
	return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "postgres ping failed after %d attempts", attempts)
}

// Query runs sql and returns the open result set
func (d *DB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return d.pool.Query(ctx, sql, args...)
}

// QueryRow runs sql for a single row
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return d.pool.QueryRow(ctx, sql, args...)
}

// Close drains the pool
func (d *DB) Close() {
	if d != nil && d.pool != nil {
		d.pool.Close()
	}
}

var _ pgx.QueryTracer = (*queryTracer)(nil)
