package builtin

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// ageBucketRank maps the 13 textual age brackets of the heart-disease survey
// onto ordinals 1..13 in increasing age order, so regressions and sorts see a
// monotone numeric scale.
var ageBucketRank = map[string]int{
	"18-24": 1, "25-29": 2, "30-34": 3, "35-39": 4, "40-44": 5,
	"45-49": 6, "50-54": 7, "55-59": 8, "60-64": 9, "65-69": 10,
	"70-74": 11, "75-79": 12, "80 or older": 13,
}

// AgeBucketOrder lists the brackets in increasing age order, for charts whose
// age axis must not fall back to data order.
var AgeBucketOrder = []string{
	"18-24", "25-29", "30-34", "35-39", "40-44", "45-49", "50-54",
	"55-59", "60-64", "65-69", "70-74", "75-79", "80 or older",
}

// AgeBucketRank returns the ordinal for a bracket label.
func AgeBucketRank(label string) (int, bool) {
	r, ok := ageBucketRank[label]
	return r, ok
}

// AgeBucketOrdinal rewrites Col from a bracket label to its ordinal.
// An unrecognized label maps to missing, not to an arbitrary default.
type AgeBucketOrdinal struct {
	Col string
}

func (s AgeBucketOrdinal) Name() string { return "age_bucket_ordinal(" + s.Col + ")" }

func (s AgeBucketOrdinal) Apply(f *frame.Frame) error {
	if err := f.Require(s.Col); err != nil {
		return err
	}
	for _, row := range f.Rows {
		r, ok := ageBucketRank[row.Value(s.Col).Label()]
		if !ok {
			row[s.Col] = frame.Missing
			continue
		}
		row[s.Col] = frame.Number(float64(r))
	}
	return nil
}
