package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values a read-only dataset scan can hit
const (
	sqlUndefinedTable    = "42P01"
	sqlUndefinedColumn   = "42703"
	sqlInsufficientPriv  = "42501"
	sqlInvalidPassword   = "28P01"
	sqlCannotConnectNow  = "57P03"
	sqlAdminShutdown     = "57P01"
	sqlQueryCanceled     = "57014"
	sqlConnectionFailure = "08"
)

// DBErrorCode classifies a Postgres server error; ok is false when err carries none
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	switch {
	case pgErr.Code == sqlUndefinedTable, pgErr.Code == sqlUndefinedColumn:
		// the table or its text/label columns do not exist
		return ErrorCodeInvalidArgument, true
	case pgErr.Code == sqlInsufficientPriv, pgErr.Code == sqlInvalidPassword:
		return ErrorCodeUnauthorized, true
	case pgErr.Code == sqlCannotConnectNow, pgErr.Code == sqlAdminShutdown,
		strings.HasPrefix(pgErr.Code, sqlConnectionFailure):
		return ErrorCodeUnavailable, true
	case pgErr.Code == sqlQueryCanceled:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a database error with its mapped code; plain errors become ErrorCodeDB
// Context cancellation is passed through untouched so callers can still match it.
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return err
	}
	if code, ok := DBErrorCode(err); ok {
		if pgErr := new(pgconn.PgError); stderrs.As(err, &pgErr) && pgErr.ColumnName != "" {
			return WithField(Wrap(err, code, msg), pgErr.ColumnName)
		}
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}
