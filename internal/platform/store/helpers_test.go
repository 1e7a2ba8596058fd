package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeQuerier struct {
	queryRows Rows
	queryErr  error
	querySQL  string
	queryArgs []any

	row Row
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.querySQL = sql
	f.queryArgs = args
	return f.queryRows, f.queryErr
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row { return f.row }

// scanVal stores v into the first destination
type scanVal struct {
	v   int64
	err error
}

func (s scanVal) Scan(dest ...any) error {
	if s.err != nil {
		return s.err
	}
	*dest[0].(*int64) = s.v
	return nil
}

type fakeRows struct {
	data   []int64
	idx    int
	err    error
	closed bool
}

func newRows(data ...int64) *fakeRows { return &fakeRows{data: data, idx: -1} }

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}
func (r *fakeRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.data) {
		return errors.New("scan out of bounds")
	}
	*dest[0].(*int64) = r.data[r.idx]
	return nil
}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

func scanInt(r Row) (int64, error) {
	var v int64
	return v, r.Scan(&v)
}

func TestScalar(t *testing.T) {
	t.Parallel()

	got, err := Scalar[int64](context.Background(), &fakeQuerier{row: scanVal{v: 7}}, "select 7")
	if err != nil {
		t.Fatalf("Scalar err: %v", err)
	}
	if got != 7 {
		t.Fatalf("Scalar = %d, want 7", got)
	}

	_, err = Scalar[int64](context.Background(), &fakeQuerier{row: scanVal{err: errors.New("scan bad")}}, "select 1")
	if err == nil || err.Error() != "scan bad" {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestMany_MultiRow(t *testing.T) {
	t.Parallel()

	rows := newRows(1, 2, 3)
	f := &fakeQuerier{queryRows: rows}
	items, err := Many(context.Background(), f, scanInt, "q", int64(0), 10)
	if err != nil {
		t.Fatalf("Many err: %v", err)
	}
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(items, want) {
		t.Fatalf("Many = %v, want %v", items, want)
	}
	if !rows.closed {
		t.Fatalf("rows not closed")
	}
	if f.querySQL != "q" || len(f.queryArgs) != 2 {
		t.Fatalf("query not forwarded: %q %v", f.querySQL, f.queryArgs)
	}
}

func TestMany_Errors(t *testing.T) {
	t.Parallel()

	_, err := Many(context.Background(), &fakeQuerier{queryErr: errors.New("boom")}, scanInt, "q")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected query error, got %v", err)
	}

	rows := newRows(1, 2)
	_, err = Many(context.Background(), &fakeQuerier{queryRows: rows}, func(r Row) (int64, error) {
		if rows.idx == 0 {
			return scanInt(r)
		}
		return 0, errors.New("scan in mapper failed")
	}, "q")
	if err == nil || err.Error() != "scan in mapper failed" {
		t.Fatalf("expected mapper error, got %v", err)
	}

	it := newRows()
	it.err = errors.New("iter blew up")
	items, err := Many(context.Background(), &fakeQuerier{queryRows: it}, scanInt, "q")
	if err == nil || err.Error() != "iter blew up" {
		t.Fatalf("expected rows.Err to bubble, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected nil slice on error, got %v", items)
	}
}

func TestMany_EmptyRows_IsHappyPath(t *testing.T) {
	t.Parallel()

	items, err := Many(context.Background(), &fakeQuerier{queryRows: newRows()}, scanInt, "q")
	if err != nil {
		t.Fatalf("expected nil error on empty result set, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty slice, got %v", items)
	}
}
