// Package jsonl reads text/label rows from newline-delimited JSON, optionally gzip compressed
package jsonl

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/logger"
	"hashjudge/internal/services/evaluate/domain"
)

const (
	defaultBatch     = 2048
	maxScanTokenSize = 32 * 1024 * 1024
)

type record struct {
	Text  *string `json:"text"`
	Label *string `json:"label"`
}

// Reader streams batches of rows; implements domain.Source
type Reader struct {
	r     io.ReadCloser
	gz    *gzip.Reader
	sc    *bufio.Scanner
	batch int
	err   error

	lines     int64
	malformed int64
}

// Open opens path; a .gz suffix selects gzip decoding
func Open(path string, batch int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open dataset %s", path)
	}
	return NewReader(f, strings.HasSuffix(strings.ToLower(path), ".gz"), batch)
}

// NewReader wraps r; the Reader owns r and closes it
func NewReader(r io.ReadCloser, gzipped bool, batch int) (*Reader, error) {
	if batch <= 0 {
		batch = defaultBatch
	}
	rd := &Reader{r: r, batch: batch}
	var src io.Reader = r
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			if cerr := r.Close(); cerr != nil {
				return nil, cerr
			}
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "open gzip dataset")
		}
		rd.gz = gz
		src = gz
	}
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 512*1024), maxScanTokenSize)
	rd.sc = sc
	return rd, nil
}

// Next returns up to batch rows, io.EOF when the input is exhausted
// Malformed lines become rows with an empty label so the caller counts them as skipped.
func (rd *Reader) Next(ctx context.Context) ([]domain.Row, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Row, 0, rd.batch)
	for len(out) < rd.batch {
		if !rd.sc.Scan() {
			if err := rd.sc.Err(); err != nil {
				rd.err = perr.Wrap(err, perr.ErrorCodeUnavailable, "read jsonl dataset")
				return nil, rd.err
			}
			rd.err = io.EOF
			break
		}
		line := rd.sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		rd.lines++

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			rd.malformed++
			out = append(out, domain.Row{})
			continue
		}
		out = append(out, domain.Row{Text: deref(rec.Text), Label: deref(rec.Label)})
	}
	if len(out) == 0 {
		return nil, io.EOF
	}
	return out, nil
}

// Close closes the underlying reader and logs line totals
func (rd *Reader) Close() error {
	logger.Named("jsonl").Debug().
		Int64("lines", rd.lines).
		Int64("malformed", rd.malformed).
		Msg("jsonl dataset closed")

	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
	}
	if rd.r != nil {
		if err := rd.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns non-blank lines read and how many failed to parse
func (rd *Reader) Stats() (lines, malformed int64) { return rd.lines, rd.malformed }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
