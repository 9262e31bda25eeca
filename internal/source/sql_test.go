package source

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
)

// fakeRows implements pgx.Rows over an in-memory grid.
type fakeRows struct {
	cols    []string
	grid    [][]any
	idx     int
	rowsErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Scan(dest ...any) error                       { return errors.New("not implemented") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.grid[r.idx-1], nil }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.grid) {
		return false
	}
	r.idx++
	return true
}

// fakeQuerier serves one result set, recording the query text.
type fakeQuerier struct {
	rows *fakeRows
	err  error
	sql  string
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

// TestSQLFetch checks result columns and values land in the frame with the
// field-description order.
func TestSQLFetch(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: &fakeRows{
		cols: []string{"id", "age", "gender"},
		grid: [][]any{
			{int64(1), int64(52), "Female"},
			{int64(2), int64(47), "Male"},
		},
	}}
	src := NewSQLSource(q, 0)

	f, err := src.Fetch(context.Background(), Selector{Kind: KindSQL, Query: "SELECT id, age, gender FROM patients"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if q.sql != "SELECT id, age, gender FROM patients" {
		t.Errorf("query = %q", q.sql)
	}
	if f.Len() != 2 {
		t.Fatalf("rows = %d, want 2", f.Len())
	}
	if got := f.Cols; len(got) != 3 || got[0] != "id" || got[2] != "gender" {
		t.Errorf("cols = %v", got)
	}
	if v, _ := f.Rows[1].Value("age").Float(); v != 47 {
		t.Errorf("row1 age = %v, want 47", v)
	}
}

// TestSQLFetchFaults maps query, iteration and empty-result failures onto
// the taxonomy.
func TestSQLFetchFaults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    *fakeQuerier
		want fault.Kind
	}{
		{
			"query error",
			&fakeQuerier{err: errors.New("connection refused")},
			fault.SourceUnavailable,
		},
		{
			"iteration error",
			&fakeQuerier{rows: &fakeRows{cols: []string{"id"}, rowsErr: errors.New("broken pipe")}},
			fault.SourceUnavailable,
		},
		{
			"no rows",
			&fakeQuerier{rows: &fakeRows{cols: []string{"id"}}},
			fault.Empty,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			src := NewSQLSource(c.q, 0)
			_, err := src.Fetch(context.Background(), Selector{Kind: KindSQL, Query: "SELECT 1"})
			if fault.KindOf(err) != c.want {
				t.Fatalf("err = %v, kind %v, want %v", err, fault.KindOf(err), c.want)
			}
		})
	}
}
