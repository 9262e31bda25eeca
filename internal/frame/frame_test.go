package frame

import (
	"encoding/json"
	"testing"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
)

// TestValueFloat checks the coercion rules: numbers pass, numeric strings
// parse, bools map to 1/0, everything else fails.
func TestValueFloat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"number", Number(3.5), 3.5, true},
		{"numeric string", String("42"), 42, true},
		{"padded numeric string", String(" 7.25 "), 7.25, true},
		{"word string", String("Yes"), 0, false},
		{"bool true", Bool(true), 1, true},
		{"bool false", Bool(false), 0, true},
		{"missing", Missing, 0, false},
	}
	for _, c := range cases {
		got, ok := c.v.Float()
		if got != c.want || ok != c.ok {
			t.Errorf("%s: Float() = (%v, %v), want (%v, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

// TestValueLabel checks that numbers render without a trailing ".0" so 1 and
// 1.0 group under the same key.
func TestValueLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		v    Value
		want string
	}{
		{Number(1), "1"},
		{Number(1.0), "1"},
		{Number(2.5), "2.5"},
		{String("Yes"), "Yes"},
		{Bool(true), "true"},
		{Missing, ""},
	}
	for _, c := range cases {
		if got := c.v.Label(); got != c.want {
			t.Errorf("Label(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

// TestFromAny covers the dynamic shapes the sources hand over.
func TestFromAny(t *testing.T) {
	t.Parallel()

	if v := FromAny(nil); !v.IsMissing() {
		t.Errorf("FromAny(nil) = %#v, want missing", v)
	}
	if v := FromAny("x"); v.Label() != "x" {
		t.Errorf("FromAny(string) label = %q, want x", v.Label())
	}
	if v := FromAny(int64(9)); v.Label() != "9" {
		t.Errorf("FromAny(int64) label = %q, want 9", v.Label())
	}
	if v := FromAny(json.Number("1.5")); v.Label() != "1.5" {
		t.Errorf("FromAny(json.Number) label = %q, want 1.5", v.Label())
	}
	if v := FromAny(struct{}{}); !v.IsMissing() {
		t.Errorf("FromAny(struct) = %#v, want missing", v)
	}
}

// TestRequire checks the explicit missing-column error.
func TestRequire(t *testing.T) {
	t.Parallel()

	f := New([]string{"a", "b"}, nil)
	if err := f.Require("a", "b"); err != nil {
		t.Fatalf("Require present columns: %v", err)
	}
	err := f.Require("a", "c")
	if err == nil {
		t.Fatal("Require absent column: want error, got nil")
	}
	if fault.KindOf(err) != fault.MissingColumn {
		t.Errorf("Require kind = %v, want MissingColumn", fault.KindOf(err))
	}
}

// TestEnsureColumn checks the derived-column registration is idempotent.
func TestEnsureColumn(t *testing.T) {
	t.Parallel()

	f := New([]string{"a"}, nil)
	f.EnsureColumn("b")
	f.EnsureColumn("b")
	if len(f.Cols) != 2 || f.Cols[1] != "b" {
		t.Fatalf("Cols = %#v, want [a b]", f.Cols)
	}
}

// TestHead checks the preview keeps declared columns and bounds n.
func TestHead(t *testing.T) {
	t.Parallel()

	f := New([]string{"id", "v"}, []Row{
		{"id": Number(1), "v": String("x")},
		{"id": Number(2)},
	})
	rows := f.Head(5)
	if len(rows) != 2 {
		t.Fatalf("Head(5) len = %d, want 2", len(rows))
	}
	if rows[0]["v"] != "x" {
		t.Errorf("rows[0][v] = %#v, want x", rows[0]["v"])
	}
	if rows[1]["v"] != nil {
		t.Errorf("rows[1][v] = %#v, want nil for missing", rows[1]["v"])
	}
}
