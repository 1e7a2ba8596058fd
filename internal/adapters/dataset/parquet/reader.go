// Package parquet reads text/label rows from a parquet file in fixed-size batches
package parquet

import (
	"context"
	"errors"
	"io"
	"os"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"
	"hashjudge/internal/services/evaluate/domain"

	"github.com/parquet-go/parquet-go"
)

const defaultBatch = 2048

// Record is the projected column pair; both columns may be null
type Record struct {
	Text  *string `parquet:"text,optional"`
	Label *string `parquet:"label,optional"`
}

// Reader streams batches of rows; implements domain.Source
type Reader struct {
	f    *os.File
	pr   *parquet.GenericReader[Record]
	buf  []Record
	err  error
	read int64
}

// Open opens a parquet file; only the text and label columns are decoded
func Open(path string, batch int) (*Reader, error) {
	if batch <= 0 {
		batch = defaultBatch
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open dataset %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "stat dataset %s", path)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open parquet %s", path)
	}
	pr := parquet.NewGenericReader[Record](pf)
	logger.Named("parquet").Debug().
		Str("path", path).
		Int64("rows", pf.NumRows()).
		Msg("parquet dataset opened")
	return &Reader{f: f, pr: pr, buf: make([]Record, batch)}, nil
}

// Next returns up to one batch of rows, io.EOF when the file is exhausted
func (r *Reader) Next(ctx context.Context) ([]domain.Row, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := r.pr.Read(r.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = perr.Wrap(err, perr.ErrorCodeUnavailable, "read parquet batch")
			return nil, r.err
		}
		r.err = io.EOF
	}
	if n == 0 {
		return nil, io.EOF
	}
	out := make([]domain.Row, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Row{Text: deref(r.buf[i].Text), Label: deref(r.buf[i].Label)}
		r.buf[i] = Record{}
	}
	r.read += int64(n)
	return out, nil
}

// Close releases the reader and the file
func (r *Reader) Close() error {
	first := r.pr.Close()
	if err := r.f.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Rows returns how many rows have been read so far
func (r *Reader) Rows() int64 { return r.read }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
