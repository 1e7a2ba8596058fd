// Package dataset picks a row source from an input locator
package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"hashjudge/internal/adapters/dataset/jsonl"
	"hashjudge/internal/adapters/dataset/parquet"
	"hashjudge/internal/adapters/dataset/pgsql"
	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"
	"hashjudge/internal/services/evaluate/domain"
)

// Kind names a source family
type Kind string

// Source families
const (
	KindParquet  Kind = "parquet"
	KindJSONL    Kind = "jsonl"
	KindPostgres Kind = "postgres"
)

// Options apply to every source
type Options struct {
	Batch int
	Table string // postgres only
	Log   logger.Logger
}

// Detect maps an input to its source kind
func Detect(input string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch {
	case lower == "":
		return "", perr.WithField(perr.InvalidArgf("input is required"), "input")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres, nil
	}
	lower = strings.TrimSuffix(lower, ".gz")
	switch filepath.Ext(lower) {
	case ".parquet":
		return KindParquet, nil
	case ".jsonl", ".ndjson":
		return KindJSONL, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unsupported input %q (want .parquet, .jsonl[.gz] or a postgres:// url)", input), "input")
}

// Open returns the source for input
func Open(ctx context.Context, input string, opt Options) (domain.Source, error) {
	kind, err := Detect(input)
	if err != nil {
		return nil, err
	}
	var src domain.Source
	switch kind {
	case KindPostgres:
		r, err := pgsql.Open(ctx, input, pgsql.Config{Table: opt.Table, Batch: opt.Batch}, opt.Log)
		if err != nil {
			return nil, err
		}
		src = r
	case KindJSONL:
		r, err := jsonl.Open(input, opt.Batch)
		if err != nil {
			return nil, err
		}
		src = r
	default:
		if strings.HasSuffix(strings.ToLower(input), ".gz") {
			return nil, perr.WithField(perr.InvalidArgf("compressed parquet is not supported: %q", input), "input")
		}
		r, err := parquet.Open(input, opt.Batch)
		if err != nil {
			return nil, err
		}
		src = r
	}
	return src, nil
}

// Redact hides credentials in a postgres url so it can be logged or echoed
func Redact(input string) string {
	if k, err := Detect(input); err != nil || k != KindPostgres {
		return input
	}
	scheme, rest, ok := strings.Cut(input, "://")
	if !ok {
		return input
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return input
	}
	user, _, _ := strings.Cut(rest[:at], ":")
	return scheme + "://" + user + ":xxxxx@" + rest[at+1:]
}
