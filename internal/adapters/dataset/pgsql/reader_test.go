package pgsql

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/store"
	"hashjudge/internal/services/evaluate/domain"
)

type fakeRow struct {
	id          int64
	text, label string
}

// fakeQ serves keyset pages from an in-memory table ordered by id
type fakeQ struct {
	table   []fakeRow
	queries []string
	args    [][]any
	err     error
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, _ ...any) store.Row {
	f.queries = append(f.queries, sql)
	return countRow{n: int64(len(f.table)), err: f.err}
}

type countRow struct {
	n   int64
	err error
}

func (c countRow) Scan(dst ...any) error {
	if c.err != nil {
		return c.err
	}
	*dst[0].(*int64) = c.n
	return nil
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	if f.err != nil {
		return nil, f.err
	}
	after := args[0].(int64)
	limit := args[1].(int)
	var out []fakeRow
	for _, r := range f.table {
		if r.id > after && len(out) < limit {
			out = append(out, r)
		}
	}
	return &fakeRows{rows: out, pos: -1}, nil
}

type fakeRows struct {
	rows []fakeRow
	pos  int
}

func (r *fakeRows) Next() bool { r.pos++; return r.pos < len(r.rows) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}
func (r *fakeRows) Scan(dst ...any) error {
	x := r.rows[r.pos]
	*dst[0].(*int64) = x.id
	*dst[1].(*string) = x.text
	*dst[2].(*string) = x.label
	return nil
}

func TestQuoteTable(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"", `"text_label"`, true},
		{"samples", `"samples"`, true},
		{"eval.samples", `"eval"."samples"`, true},
		{"a.b.c", "", false},
		{"bad-name", "", false},
		{"x; drop table y", "", false},
		{"1abc", "", false},
	}
	for _, c := range cases {
		got, err := QuoteTable(c.in)
		if c.ok != (err == nil) {
			t.Fatalf("QuoteTable(%q) err = %v, ok want %v", c.in, err, c.ok)
		}
		if err != nil {
			if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				t.Fatalf("QuoteTable(%q) code = %v", c.in, perr.CodeOf(err))
			}
			continue
		}
		if got != c.want {
			t.Fatalf("QuoteTable(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReader_KeysetPages(t *testing.T) {
	q := &fakeQ{}
	for i := int64(1); i <= 7; i++ {
		q.table = append(q.table, fakeRow{id: i * 10, text: "t", label: "ai"})
	}
	r, err := New(q, Config{Table: "samples", Batch: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = r.Close() }()

	var sizes []int
	var all []domain.Row
	for {
		rows, err := r.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		sizes = append(sizes, len(rows))
		all = append(all, rows...)
	}
	if len(all) != 7 || r.Rows() != 7 {
		t.Fatalf("rows = %d, want 7", len(all))
	}
	if len(sizes) != 3 || sizes[0] != 3 || sizes[2] != 1 {
		t.Fatalf("page sizes = %v, want [3 3 1]", sizes)
	}
	// a short page ends the scan without another round trip
	if len(q.queries) != 3 {
		t.Fatalf("queries = %d, want 3", len(q.queries))
	}
	if got := q.args[1][0].(int64); got != 30 {
		t.Fatalf("second page after = %d, want 30", got)
	}
	if !strings.Contains(q.queries[0], `FROM "samples" WHERE id > $1 ORDER BY id LIMIT $2`) {
		t.Fatalf("sql = %q", q.queries[0])
	}
}

func TestReader_ExactMultipleNeedsEmptyPage(t *testing.T) {
	q := &fakeQ{table: []fakeRow{{1, "a", "ai"}, {2, "b", "human"}}}
	r, err := New(q, Config{Batch: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rows, err := r.Next(context.Background()); err != nil || len(rows) != 2 {
		t.Fatalf("first Next = (%v, %v)", rows, err)
	}
	if _, err := r.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("second Next = %v, want io.EOF", err)
	}
}

func TestReader_QueryErrorIsDB(t *testing.T) {
	q := &fakeQ{err: errors.New("connection reset")}
	r, err := New(q, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = r.Next(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want DB code", err)
	}
}

func TestReader_Count(t *testing.T) {
	q := &fakeQ{table: []fakeRow{{1, "a", "ai"}, {2, "b", "human"}, {3, "c", "ai"}}}
	r, err := New(q, Config{Table: "eval.samples"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n, err := r.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
	if q.queries[0] != `SELECT count(*) FROM "eval"."samples"` {
		t.Fatalf("sql = %q", q.queries[0])
	}

	q.err = errors.New("gone")
	if _, err := r.Count(context.Background()); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want DB code", err)
	}
}
