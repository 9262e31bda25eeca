package builtin

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// CholesterolLabel bands a serum cholesterol reading (mg/dL).
// Zero is a recorded "no data" marker in the patient datasets, distinct from
// a missing cell.
func CholesterolLabel(v float64) string {
	switch {
	case v == 0:
		return "No data"
	case v < 200:
		return "Normal"
	case v < 240:
		return "Borderline High"
	default:
		return "High"
	}
}

// CholesterolStatus derives Out as the cholesterol band of the numeric
// column Col. Non-numeric cells derive to missing.
type CholesterolStatus struct {
	Col string
	Out string
}

func (s CholesterolStatus) Name() string { return "cholesterol_status(" + s.Col + ")" }

func (s CholesterolStatus) Apply(f *frame.Frame) error {
	if err := f.Require(s.Col); err != nil {
		return err
	}
	f.EnsureColumn(s.Out)
	for _, row := range f.Rows {
		v, ok := row.Value(s.Col).Float()
		if !ok {
			row[s.Out] = frame.Missing
			continue
		}
		row[s.Out] = frame.String(CholesterolLabel(v))
	}
	return nil
}
