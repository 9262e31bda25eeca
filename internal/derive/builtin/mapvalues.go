package builtin

import "github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"

// MapValues rewrites Col through a literal label mapping, e.g. the lung
// cancer dataset's {"yes": 2, "no": 1} recode or smoking's {2: "Yes",
// 1: "No"}. Labels absent from the mapping take Default; a nil Default
// (where the zero Value is Missing) mirrors pandas' map-then-fillna shape.
type MapValues struct {
	Col     string
	Mapping map[string]frame.Value
	Default frame.Value
}

func (s MapValues) Name() string { return "map_values(" + s.Col + ")" }

func (s MapValues) Apply(f *frame.Frame) error {
	if err := f.Require(s.Col); err != nil {
		return err
	}
	for _, row := range f.Rows {
		if v, ok := s.Mapping[row.Value(s.Col).Label()]; ok {
			row[s.Col] = v
		} else {
			row[s.Col] = s.Default
		}
	}
	return nil
}
