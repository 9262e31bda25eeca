package source

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

// Querier is the slice of a pgx pool/conn the SQL source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SQLSource fetches a dataset by running a query against the analytics
// database directly, skipping the HTTP wrapper the remote variant talks to.
// Column names and order come from the result's field descriptions.
type SQLSource struct {
	db      Querier
	timeout time.Duration
}

// NewSQLSource wires a SQLSource. timeout bounds the query; <=0 means 30s.
func NewSQLSource(db Querier, timeout time.Duration) *SQLSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SQLSource{db: db, timeout: timeout}
}

func (s *SQLSource) Fetch(ctx context.Context, sel Selector) (*frame.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Query(ctx, sel.Query)
	if err != nil {
		return nil, fault.Wrap(fault.SourceUnavailable, err, "query %s", sel)
	}
	defer rows.Close()

	var cols []string
	for _, fd := range rows.FieldDescriptions() {
		cols = append(cols, fd.Name)
	}

	var out []frame.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fault.Wrap(fault.DecodeFailure, err, "scan %s", sel)
		}
		row := make(frame.Row, len(cols))
		for i, col := range cols {
			if i < len(vals) {
				row[col] = frame.FromAny(vals[i])
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.SourceUnavailable, err, "iterate %s", sel)
	}
	if len(out) == 0 {
		return nil, fault.New(fault.Empty, "dataset %s has no rows", sel)
	}
	log.Printf("source: fetched %d rows from %s", len(out), sel)
	return frame.New(cols, out), nil
}
