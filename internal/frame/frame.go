// Package frame holds the in-memory tabular representation shared by the
// dataset sources, the feature deriver and the aggregator.
//
// Source rows are untyped: columns differ between datasets and a single cell
// may arrive as a string, a number, a boolean-like "Yes"/"No", or nothing at
// all. Instead of assuming a schema, a cell is a tagged Value
// (string | number | bool | missing) and readers ask for the shape they need.
// A malformed cell is represented as Missing, never as a panic; an absent
// column is an explicit MissingColumn error, never a silent default.
package frame

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
)

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is one cell of a row. The zero Value is Missing.
type Value struct {
	kind Kind
	s    string
	f    float64
	b    bool
}

// Missing is the canonical absent/malformed cell.
var Missing = Value{}

// String constructs a string cell.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number constructs a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, f: f} }

// Bool constructs a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// FromAny maps a decoded dynamic value (JSON, spreadsheet cell, SQL column)
// onto a tagged Value. Shapes outside the tag set become Missing.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	default:
		return Missing
	}
}

// Kind reports the tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is absent or was malformed.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the cell as a string. Only string cells succeed.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Float returns the cell coerced to a float64. Numbers pass through,
// numeric strings parse, booleans map to 1/0. Everything else fails.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Label renders the cell as a categorical key for grouping and axis labels.
// Numbers render without a trailing ".0" so that 1 and 1.0 group together.
// Missing renders as the empty string; callers that group skip missing cells.
func (v Value) Label() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Any returns the plain Go value for JSON encoding (nil for missing).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Row is a single record: column name to cell.
type Row map[string]Value

// Value returns the cell for col, Missing when the row lacks it.
func (r Row) Value(col string) Value { return r[col] }

// Frame is an ordered sequence of rows with a stable column order.
// Frames are created fresh per request and carry no cross-request state.
type Frame struct {
	Cols []string
	Rows []Row
}

// New builds a Frame, deriving the column order from cols.
func New(cols []string, rows []Row) *Frame {
	return &Frame{Cols: cols, Rows: rows}
}

// Len reports the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// HasColumn reports whether the frame declares col.
func (f *Frame) HasColumn(col string) bool {
	for _, c := range f.Cols {
		if c == col {
			return true
		}
	}
	return false
}

// Require fails with a MissingColumn fault for the first absent column.
func (f *Frame) Require(cols ...string) error {
	for _, c := range cols {
		if !f.HasColumn(c) {
			return fault.Column(c)
		}
	}
	return nil
}

// EnsureColumn registers a derived column in the declared order.
// Registering an existing column is a no-op.
func (f *Frame) EnsureColumn(col string) {
	if !f.HasColumn(col) {
		f.Cols = append(f.Cols, col)
	}
}

// Head returns up to n rows as plain JSON-encodable maps, preserving the
// declared column set. Used by the dataset preview endpoints.
func (f *Frame) Head(n int) []map[string]any {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	out := make([]map[string]any, 0, n)
	for _, row := range f.Rows[:n] {
		m := make(map[string]any, len(f.Cols))
		for _, c := range f.Cols {
			m[c] = row.Value(c).Any()
		}
		out = append(out, m)
	}
	return out
}
