package aggregate

import (
	"math"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

func correlationMatrix(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	if err := f.Require(s.Columns...); err != nil {
		return nil, err
	}

	// Complete-case restriction: a row with any non-numeric cell in the
	// selected subset is dropped entirely. No imputation.
	series := make([][]float64, len(s.Columns))
	for _, row := range rows {
		vals := make([]float64, len(s.Columns))
		ok := true
		for i, col := range s.Columns {
			v, numeric := row.Value(col).Float()
			if !numeric {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		for i, v := range vals {
			series[i] = append(series[i], v)
		}
	}

	n := len(s.Columns)
	m := &Matrix{RowLabels: s.Columns, ColLabels: s.Columns, Cells: make([][]float64, n)}
	for i := range m.Cells {
		m.Cells[i] = make([]float64, n)
		m.Cells[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(series[i], series[j])
			m.Cells[i][j] = r
			m.Cells[j][i] = r
		}
	}
	return &Result{Matrix: m}, nil
}

// pearson computes the sample Pearson correlation of two equal-length
// series. Zero-variance input yields 0 rather than NaN so heatmaps stay
// renderable.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n

	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}
