// Package aggregate reduces a derived frame into the summarizable shape a
// chart needs: keyed group statistics, a labeled matrix, or fitted model
// coefficients.
//
// The aggregator never orders categorical axes: clinically meaningful orders
// (BMI categories, general-health ratings) are declared on the chart spec and
// applied by the renderer. Key order here is first-seen row order, which
// keeps results deterministic for a given dataset.
package aggregate

import (
	"fmt"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

// Kind selects the reduction.
type Kind string

const (
	// MeanByGroup partitions rows by GroupBy and takes the arithmetic mean
	// of the (already binarized) Target per group. Empty groups are
	// omitted, not zero-filled.
	MeanByGroup Kind = "mean-by-group"

	// CountByGroup counts rows per GroupBy label. With Hue set it produces
	// a matrix of counts per (group, hue) pair.
	CountByGroup Kind = "count-by-group"

	// PercentageByValue returns each distinct value's share of total rows
	// (0-100) for GroupBy. With Columns and Match set it instead reports,
	// per listed column, the share of rows whose cell matches Match —
	// optionally split by GroupBy into a matrix.
	PercentageByValue Kind = "percentage-by-value"

	// CorrelationMatrix restricts rows to the numeric-coercible Columns
	// subset, drops rows with any non-numeric cell in it (no imputation),
	// and computes pairwise Pearson correlation.
	CorrelationMatrix Kind = "correlation-matrix"

	// CoefficientFit fits a binary logistic model of Target against
	// Covariates and returns the fitted coefficients with the intercept.
	CoefficientFit Kind = "coefficient-fit"

	// MeltAndCount reshapes the boolean/categorical Columns into long form
	// (condition, presence) and counts per (condition, GroupBy) pair.
	// With Match set only matching presence cells are counted.
	MeltAndCount Kind = "melt-and-count"

	// SummaryByGroup computes the five-number summary (min, q1, median,
	// q3, max) of Target per GroupBy label, feeding box charts.
	SummaryByGroup Kind = "summary-by-group"
)

// Filter restricts the rows a reduction sees, comparing the cell's label.
// Mirrors the "only rows with heart disease" subset selections upstream.
type Filter struct {
	Col    string
	Equals string
}

// Spec declares one reduction. Unused fields are ignored by kinds that do
// not need them.
type Spec struct {
	Kind       Kind
	GroupBy    string
	Hue        string
	Target     string
	Columns    []string
	Match      string
	Covariates []string
	Filter     *Filter
}

// Matrix is a row-label × col-label numeric grid.
type Matrix struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]float64
}

// At returns the cell for the labeled pair, 0 when either label is absent.
func (m *Matrix) At(row, col string) float64 {
	ri, ci := -1, -1
	for i, r := range m.RowLabels {
		if r == row {
			ri = i
		}
	}
	for j, c := range m.ColLabels {
		if c == col {
			ci = j
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return m.Cells[ri][ci]
}

// Result is the outcome of one reduction. Exactly one of Keyed, Matrix or
// Coefficients is populated, matching the Spec kind.
type Result struct {
	Keyed    map[string]float64
	KeyOrder []string

	Matrix *Matrix

	Coefficients map[string]float64
	CoefOrder    []string
}

// Run executes the spec against the frame. It validates required columns up
// front and fails with a MissingColumn fault before touching any cell.
func Run(f *frame.Frame, s Spec) (*Result, error) {
	rows := f.Rows
	if s.Filter != nil {
		if err := f.Require(s.Filter.Col); err != nil {
			return nil, err
		}
		kept := make([]frame.Row, 0, len(rows))
		for _, row := range rows {
			if row.Value(s.Filter.Col).Label() == s.Filter.Equals {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	switch s.Kind {
	case MeanByGroup:
		return meanByGroup(f, rows, s)
	case CountByGroup:
		return countByGroup(f, rows, s)
	case PercentageByValue:
		return percentageByValue(f, rows, s)
	case CorrelationMatrix:
		return correlationMatrix(f, rows, s)
	case CoefficientFit:
		return coefficientFit(f, rows, s)
	case MeltAndCount:
		return meltAndCount(f, rows, s)
	case SummaryByGroup:
		return summaryByGroup(f, rows, s)
	default:
		return nil, fmt.Errorf("aggregate: unknown kind %q", s.Kind)
	}
}

// keyedCollector accumulates per-label values preserving first-seen order.
type keyedCollector struct {
	order []string
	vals  map[string][]float64
}

func newKeyedCollector() *keyedCollector {
	return &keyedCollector{vals: make(map[string][]float64)}
}

func (c *keyedCollector) add(key string, v float64) {
	if _, ok := c.vals[key]; !ok {
		c.order = append(c.order, key)
	}
	c.vals[key] = append(c.vals[key], v)
}
