package aggregate

import (
	"math"
	"testing"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

func rowsFrom(cols []string, cells ...[]any) *frame.Frame {
	rows := make([]frame.Row, 0, len(cells))
	for _, cell := range cells {
		row := frame.Row{}
		for i, c := range cols {
			row[c] = frame.FromAny(cell[i])
		}
		rows = append(rows, row)
	}
	return frame.New(cols, rows)
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

// TestMeanByGroup checks group means over a binarized target.
func TestMeanByGroup(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"g", "t"},
		[]any{"A", 1.0}, []any{"A", 0.0}, []any{"A", 1.0},
		[]any{"B", 0.0}, []any{"B", 0.0},
	)
	res, err := Run(f, Spec{Kind: MeanByGroup, GroupBy: "g", Target: "t"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !almost(res.Keyed["A"], 0.667) || !almost(res.Keyed["B"], 0) {
		t.Errorf("means = %v, want A≈0.667 B=0", res.Keyed)
	}
	if len(res.KeyOrder) != 2 || res.KeyOrder[0] != "A" || res.KeyOrder[1] != "B" {
		t.Errorf("key order = %v, want [A B]", res.KeyOrder)
	}
}

// TestMeanByGroupSkipsBadCells checks non-numeric targets and empty group
// keys are skipped, and fully empty groups are omitted.
func TestMeanByGroupSkipsBadCells(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"g", "t"},
		[]any{"A", 1.0},
		[]any{"A", "not a number"},
		[]any{"", 5.0},
		[]any{"C", "also bad"},
	)
	res, err := Run(f, Spec{Kind: MeanByGroup, GroupBy: "g", Target: "t"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Keyed) != 1 || res.Keyed["A"] != 1 {
		t.Errorf("means = %v, want only A=1", res.Keyed)
	}
}

// TestCountByGroup checks the plain and hued forms.
func TestCountByGroup(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"g", "h"},
		[]any{"x", "Yes"}, []any{"x", "No"}, []any{"y", "Yes"}, []any{"x", "Yes"},
	)

	res, err := Run(f, Spec{Kind: CountByGroup, GroupBy: "g"})
	if err != nil {
		t.Fatalf("Run plain: %v", err)
	}
	if res.Keyed["x"] != 3 || res.Keyed["y"] != 1 {
		t.Errorf("counts = %v, want x=3 y=1", res.Keyed)
	}

	res, err = Run(f, Spec{Kind: CountByGroup, GroupBy: "g", Hue: "h"})
	if err != nil {
		t.Fatalf("Run hued: %v", err)
	}
	m := res.Matrix
	if m == nil {
		t.Fatal("hued count: want matrix result")
	}
	if m.At("x", "Yes") != 2 || m.At("x", "No") != 1 || m.At("y", "Yes") != 1 || m.At("y", "No") != 0 {
		t.Errorf("matrix = %#v", m)
	}
}

// TestPercentageByValueShares checks distinct-value shares sum to 100.
func TestPercentageByValueShares(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"v"}, []any{"Yes"}, []any{"Yes"}, []any{"No"})
	res, err := Run(f, Spec{Kind: PercentageByValue, GroupBy: "v"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !almost(res.Keyed["Yes"], 66.667) || !almost(res.Keyed["No"], 33.333) {
		t.Errorf("shares = %v", res.Keyed)
	}
	sum := 0.0
	for _, v := range res.Keyed {
		sum += v
	}
	if !almost(sum, 100) {
		t.Errorf("share sum = %v, want 100", sum)
	}
}

// TestPercentageByValuePrevalence checks the column-list form, flat and
// grouped.
func TestPercentageByValuePrevalence(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"sym", "other", "diag"},
		[]any{2.0, 1.0, "yes"},
		[]any{2.0, 2.0, "yes"},
		[]any{1.0, 1.0, "no"},
		[]any{1.0, 2.0, "no"},
	)

	res, err := Run(f, Spec{Kind: PercentageByValue, Columns: []string{"sym", "other"}, Match: "2"})
	if err != nil {
		t.Fatalf("Run flat: %v", err)
	}
	if !almost(res.Keyed["sym"], 50) || !almost(res.Keyed["other"], 50) {
		t.Errorf("prevalence = %v, want 50/50", res.Keyed)
	}

	res, err = Run(f, Spec{Kind: PercentageByValue, Columns: []string{"sym"}, Match: "2", GroupBy: "diag"})
	if err != nil {
		t.Fatalf("Run grouped: %v", err)
	}
	m := res.Matrix
	if m == nil {
		t.Fatal("grouped prevalence: want matrix")
	}
	if !almost(m.At("sym", "yes"), 100) || !almost(m.At("sym", "no"), 0) {
		t.Errorf("matrix = %#v", m)
	}
}

// TestMeltAndCount checks the long-form condition counts with a presence
// match.
func TestMeltAndCount(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"HeartDisease", "Asthma", "SkinCancer"},
		[]any{"Yes", "Yes", "No"},
		[]any{"Yes", "Yes", "Yes"},
		[]any{"No", "No", "Yes"},
	)
	res, err := Run(f, Spec{
		Kind:    MeltAndCount,
		GroupBy: "HeartDisease",
		Columns: []string{"Asthma", "SkinCancer"},
		Match:   "Yes",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m := res.Matrix
	if m.At("Asthma", "Yes") != 2 || m.At("Asthma", "No") != 0 {
		t.Errorf("asthma counts = %v/%v", m.At("Asthma", "Yes"), m.At("Asthma", "No"))
	}
	if m.At("SkinCancer", "Yes") != 1 || m.At("SkinCancer", "No") != 1 {
		t.Errorf("skin cancer counts = %v/%v", m.At("SkinCancer", "Yes"), m.At("SkinCancer", "No"))
	}
}

// TestSummaryByGroup checks the five-number summary with interpolated
// quartiles.
func TestSummaryByGroup(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"g", "t"},
		[]any{"A", 1.0}, []any{"A", 2.0}, []any{"A", 3.0}, []any{"A", 4.0}, []any{"A", 5.0},
	)
	res, err := Run(f, Spec{Kind: SummaryByGroup, GroupBy: "g", Target: "t"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m := res.Matrix
	want := map[string]float64{"min": 1, "q1": 2, "median": 3, "q3": 4, "max": 5}
	for col, w := range want {
		if got := m.At("A", col); !almost(got, w) {
			t.Errorf("%s = %v, want %v", col, got, w)
		}
	}
}

// TestFilter checks pre-reduction row filtering on the cell label.
func TestFilter(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"hd", "smoke"},
		[]any{1.0, "Yes"}, []any{1.0, "No"}, []any{0.0, "Yes"},
	)
	res, err := Run(f, Spec{
		Kind:    CountByGroup,
		GroupBy: "smoke",
		Filter:  &Filter{Col: "hd", Equals: "1"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Keyed["Yes"] != 1 || res.Keyed["No"] != 1 {
		t.Errorf("filtered counts = %v, want Yes=1 No=1", res.Keyed)
	}
}

// TestMissingColumn checks reductions refuse a frame lacking a required
// column.
func TestMissingColumn(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"g"}, []any{"A"})
	_, err := Run(f, Spec{Kind: MeanByGroup, GroupBy: "g", Target: "absent"})
	if fault.KindOf(err) != fault.MissingColumn {
		t.Fatalf("err = %v, want MissingColumn", err)
	}
}

// TestUnknownKind checks the dispatcher rejects unregistered kinds.
func TestUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := Run(frame.New(nil, nil), Spec{Kind: "nope"}); err == nil {
		t.Fatal("want error for unknown kind")
	}
}
