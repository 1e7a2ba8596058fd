package store

import (
	"context"
	"strings"
	"time"

	"hashjudge/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// queryTracer logs every query at debug, slow or failed ones at warn
type queryTracer struct {
	log  logger.Logger
	slow time.Duration
}

type traceKey struct{}

type traceStart struct {
	sql string
	at  time.Time
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: d.SQL, at: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := time.Since(st.at)
	slow := t.slow > 0 && elapsed >= t.slow

	ev := t.log.Debug()
	if slow || d.Err != nil {
		ev = t.log.Warn()
	}
	ev.Str("sql", squash(st.sql)).
		Dur("elapsed", elapsed).
		Bool("slow", slow).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

// squash folds whitespace runs to one space
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }
