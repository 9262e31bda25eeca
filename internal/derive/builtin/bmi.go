package builtin

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// BMI band boundaries. The 24.9/29.9/34.9 values are carried over verbatim
// from the upstream system rather than the clinical 25/30/35 cutoffs; see
// DESIGN.md before "fixing" them. The bands partition the real line: the
// upper bound of each band is inclusive, so 24.9 is Normal and 24.95 is
// Overweight.
const (
	bmiUnder  = 18.5
	bmiNormal = 24.9
	bmiOver   = 29.9
	bmiObese  = 34.9
)

// Report-facing labels, including the range annotation the charts carry.
var bmiReportLabels = [...]string{
	"Underweight (0-18.5)",
	"Normal (18.5-24.9)",
	"Overweight (25-29.9)",
	"Obese (30-34.9)",
	"Severely Obese (35+)",
}

// BMIReportOrder is the fixed clinical rendering order for BMI categories.
var BMIReportOrder = bmiReportLabels[:]

// Patient-facing labels used by the profile endpoint.
var bmiPatientLabels = [...]string{
	"Underweight",
	"Normal weight",
	"Overweight",
	"Obese",
	"Obese",
}

func bmiBand(bmi float64) int {
	switch {
	case bmi < bmiUnder:
		return 0
	case bmi <= bmiNormal:
		return 1
	case bmi <= bmiOver:
		return 2
	case bmi <= bmiObese:
		return 3
	default:
		return 4
	}
}

// BMILabel returns the report category for a BMI value.
func BMILabel(bmi float64) string { return bmiReportLabels[bmiBand(bmi)] }

// BMIPatientLabel returns the short category used in patient profiles.
func BMIPatientLabel(bmi float64) string { return bmiPatientLabels[bmiBand(bmi)] }

// BMICategory derives Out as the report BMI category of the numeric column
// Col. Cells that do not coerce to a number derive to missing.
type BMICategory struct {
	Col string
	Out string
}

func (s BMICategory) Name() string { return "bmi_category(" + s.Col + ")" }

func (s BMICategory) Apply(f *frame.Frame) error {
	if err := f.Require(s.Col); err != nil {
		return err
	}
	f.EnsureColumn(s.Out)
	for _, row := range f.Rows {
		bmi, ok := row.Value(s.Col).Float()
		if !ok {
			row[s.Out] = frame.Missing
			continue
		}
		row[s.Out] = frame.String(BMILabel(bmi))
	}
	return nil
}
