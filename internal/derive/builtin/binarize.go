// Package builtin contains the stock derivation steps used by the report
// catalog: disease-flag binarization, BMI and cholesterol banding, age-bucket
// ordinal mapping, and literal value remapping.
package builtin

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// Binarize rewrites Col to 1 where the cell's label equals TrueLabel and to 0
// everywhere else, including missing cells. Used to turn "Yes"/"No" disease
// flags into a numeric target for means and fits.
type Binarize struct {
	Col       string
	TrueLabel string
}

func (b Binarize) Name() string { return "binarize(" + b.Col + ")" }

func (b Binarize) Apply(f *frame.Frame) error {
	if err := f.Require(b.Col); err != nil {
		return err
	}
	for _, row := range f.Rows {
		if row.Value(b.Col).Label() == b.TrueLabel {
			row[b.Col] = frame.Number(1)
		} else {
			row[b.Col] = frame.Number(0)
		}
	}
	return nil
}
