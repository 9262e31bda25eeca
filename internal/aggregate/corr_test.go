package aggregate

import (
	"testing"
)

// TestCorrelationMatrix checks symmetry, the unit diagonal, and known
// pairwise values on a small perfectly correlated/anticorrelated set.
func TestCorrelationMatrix(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"a", "b", "c"},
		[]any{1.0, 2.0, 3.0},
		[]any{2.0, 4.0, 2.0},
		[]any{3.0, 6.0, 1.0},
	)
	res, err := Run(f, Spec{Kind: CorrelationMatrix, Columns: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m := res.Matrix
	for _, col := range []string{"a", "b", "c"} {
		if got := m.At(col, col); !almost(got, 1) {
			t.Errorf("diag %s = %v, want 1", col, got)
		}
	}
	if got := m.At("a", "b"); !almost(got, 1) {
		t.Errorf("corr(a,b) = %v, want 1", got)
	}
	if got := m.At("a", "c"); !almost(got, -1) {
		t.Errorf("corr(a,c) = %v, want -1", got)
	}
	for _, x := range []string{"a", "b", "c"} {
		for _, y := range []string{"a", "b", "c"} {
			if m.At(x, y) != m.At(y, x) {
				t.Errorf("asymmetry at (%s,%s)", x, y)
			}
		}
	}
}

// TestCorrelationMatrixDropsIncompleteRows checks complete-case handling: a
// row with any non-numeric cell in the subset contributes to no pair.
func TestCorrelationMatrixDropsIncompleteRows(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"a", "b"},
		[]any{1.0, 1.0},
		[]any{2.0, "broken"},
		[]any{3.0, 3.0},
		[]any{4.0, 4.0},
	)
	res, err := Run(f, Spec{Kind: CorrelationMatrix, Columns: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Remaining rows are exactly linear, so the broken row would be the
	// only thing pulling the coefficient off 1.
	if got := res.Matrix.At("a", "b"); !almost(got, 1) {
		t.Errorf("corr(a,b) = %v, want 1 after dropping the broken row", got)
	}
}

// TestCorrelationMatrixZeroVariance checks constant columns yield 0, not NaN.
func TestCorrelationMatrixZeroVariance(t *testing.T) {
	t.Parallel()

	f := rowsFrom([]string{"a", "b"},
		[]any{1.0, 5.0}, []any{2.0, 5.0}, []any{3.0, 5.0},
	)
	res, err := Run(f, Spec{Kind: CorrelationMatrix, Columns: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Matrix.At("a", "b"); got != 0 {
		t.Errorf("corr with constant column = %v, want 0", got)
	}
}
