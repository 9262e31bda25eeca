package aggregate

import (
	"math"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

const (
	logitMaxIter = 35
	logitTol     = 1e-8
)

// interceptLabel names the constant term in fitted coefficient results.
const interceptLabel = "const"

// coefficientFit fits a binary logistic model of Target on Covariates by
// iteratively reweighted least squares. Rows with a missing target or any
// non-numeric covariate cell are dropped. A singular normal system or
// exhausted iteration budget surfaces as FitDidNotConverge; it is never
// swallowed into a partial result.
func coefficientFit(f *frame.Frame, rows []frame.Row, s Spec) (*Result, error) {
	cols := append([]string{s.Target}, s.Covariates...)
	if err := f.Require(cols...); err != nil {
		return nil, err
	}

	p := len(s.Covariates) + 1 // +1 intercept
	var X [][]float64
	var y []float64
	for _, row := range rows {
		t, ok := row.Value(s.Target).Float()
		if !ok {
			continue
		}
		x := make([]float64, p)
		x[0] = 1
		good := true
		for i, col := range s.Covariates {
			v, numeric := row.Value(col).Float()
			if !numeric {
				good = false
				break
			}
			x[i+1] = v
		}
		if !good {
			continue
		}
		X = append(X, x)
		y = append(y, t)
	}
	if len(X) == 0 {
		return nil, fault.New(fault.Empty, "no complete rows for coefficient fit")
	}

	beta := make([]float64, p)
	for iter := 0; iter < logitMaxIter; iter++ {
		// Normal system X'WX d = X'(y - mu) with W = mu(1-mu).
		a := make([][]float64, p)
		for i := range a {
			a[i] = make([]float64, p+1)
		}
		for r, x := range X {
			eta := 0.0
			for j, v := range x {
				eta += beta[j] * v
			}
			mu := sigmoid(eta)
			w := mu * (1 - mu)
			resid := y[r] - mu
			for i := 0; i < p; i++ {
				for j := 0; j < p; j++ {
					a[i][j] += w * x[i] * x[j]
				}
				a[i][p] += x[i] * resid
			}
		}

		delta, ok := solve(a)
		if !ok {
			return nil, fault.New(fault.FitDidNotConverge, "singular system at iteration %d", iter)
		}
		maxStep := 0.0
		for i, d := range delta {
			beta[i] += d
			if ad := math.Abs(d); ad > maxStep {
				maxStep = ad
			}
		}
		if maxStep < logitTol {
			coefs := map[string]float64{interceptLabel: beta[0]}
			order := []string{interceptLabel}
			for i, col := range s.Covariates {
				coefs[col] = beta[i+1]
				order = append(order, col)
			}
			return &Result{Coefficients: coefs, CoefOrder: order}, nil
		}
	}
	return nil, fault.New(fault.FitDidNotConverge, "no convergence after %d iterations", logitMaxIter)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// solve performs Gaussian elimination with partial pivoting on the augmented
// matrix a (n rows, n+1 columns), returning the solution vector. A pivot
// collapsing to ~0 reports failure instead of dividing through.
func solve(a [][]float64) ([]float64, bool) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i][n] / a[i][i]
	}
	return out, true
}
