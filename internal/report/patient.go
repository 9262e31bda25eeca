package report

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/derive/builtin"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// Profile is a patient's condensed health panel. JSON field names follow the
// consumer-facing contract of the upstream service.
type Profile struct {
	Name              string  `json:"Name"`
	Age               int     `json:"Age"`
	Gender            string  `json:"Gender"`
	HeightCm          float64 `json:"Height (cm)"`
	WeightKg          int     `json:"Weight (kg)"`
	BloodGroup        string  `json:"Blood Group"`
	BMI               float64 `json:"BMI"`
	BMICategory       string  `json:"BMI Category"`
	SerumCholesterol  int     `json:"Serum Cholesterol"`
	CholesterolStatus string  `json:"Cholesterol Status"`
	BloodSugarStatus  string  `json:"Blood Sugar Status"`
}

// profileColumns are the patients-dataset columns the panel is built from,
// named as the upstream dataset names them. A dataset missing any of them
// fails the lookup with MissingColumn; the panel never substitutes defaults
// for patient-facing values.
var profileColumns = []string{
	"id", "FName", "LName", "Age", "Gender", "height", "weight",
	"BloodGroup", "serumcholestrol", "fastingbloodsugar",
}

// PatientService answers per-patient lookups over the patients dataset and
// the month-by-month blood-sugar dataset.
type PatientService struct {
	Source     source.Source
	Patients   source.Selector
	BloodSugar source.Selector
	Sink       sink.Sink
}

// Profile fetches both datasets concurrently and assembles the panel for the
// identified patient. An unknown id is NotFound, an absent panel column is
// MissingColumn; nothing partial is returned.
func (s *PatientService) Profile(ctx context.Context, id int) (*Profile, error) {
	var patients, sugar *frame.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.Source.Fetch(gctx, s.Patients)
		patients = f
		return err
	})
	g.Go(func() error {
		f, err := s.Source.Fetch(gctx, s.BloodSugar)
		sugar = f
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := patients.Require(profileColumns...); err != nil {
		return nil, err
	}
	if err := sugar.Require("id"); err != nil {
		return nil, err
	}

	row, err := rowByID(patients, id)
	if err != nil {
		return nil, err
	}

	heightCm, err := panelNumber(row, "height", id)
	if err != nil {
		return nil, err
	}
	weight, err := panelNumber(row, "weight", id)
	if err != nil {
		return nil, err
	}
	age, err := panelNumber(row, "Age", id)
	if err != nil {
		return nil, err
	}
	cholesterol, err := panelNumber(row, "serumcholestrol", id)
	if err != nil {
		return nil, err
	}
	fasting, err := panelNumber(row, "fastingbloodsugar", id)
	if err != nil {
		return nil, err
	}

	var bmi float64
	if heightCm > 0 {
		m := heightCm / 100.0
		bmi = weight / (m * m)
	}

	status := "Non-Diabetic"
	if fasting == 1 {
		status = "Diabetic"
	}

	return &Profile{
		Name:              row.Value("FName").Label() + " " + row.Value("LName").Label(),
		Age:               int(age),
		Gender:            row.Value("Gender").Label(),
		HeightCm:          math.Round(heightCm*10) / 10,
		WeightKg:          int(weight),
		BloodGroup:        row.Value("BloodGroup").Label(),
		BMI:               math.Round(bmi*100) / 100,
		BMICategory:       builtin.BMIPatientLabel(bmi),
		SerumCholesterol:  int(cholesterol),
		CholesterolStatus: builtin.CholesterolLabel(cholesterol),
		BloodSugarStatus:  status,
	}, nil
}

// MonthlySugarReport renders the patient's month-by-month blood sugar series
// as a line chart, uploads it and returns the presigned URL. Column order of
// the dataset is the time axis.
func (s *PatientService) MonthlySugarReport(ctx context.Context, id int) (sink.Published, error) {
	sugar, err := s.Source.Fetch(ctx, s.BloodSugar)
	if err != nil {
		return sink.Published{}, err
	}
	row, err := rowByID(sugar, id)
	if err != nil {
		return sink.Published{}, err
	}

	res := &aggregate.Result{Keyed: make(map[string]float64)}
	for _, col := range sugar.Cols {
		if col == "id" {
			continue
		}
		v, ok := row.Value(col).Float()
		if !ok {
			continue
		}
		res.KeyOrder = append(res.KeyOrder, col)
		res.Keyed[col] = v
	}
	if len(res.KeyOrder) == 0 {
		return sink.Published{}, fault.New(fault.Empty, "no sugar readings for patient %d", id)
	}

	art, err := chart.Render(res, chart.Spec{
		Kind:     chart.KindLine,
		Title:    fmt.Sprintf("Blood Sugar Level vs Time for Patient %d", id),
		XLabel:   "Time",
		YLabel:   "Blood Sugar Level (mg/dL)",
		Filename: fmt.Sprintf("monthlySugarReport_%d.svg", id),
		Width:    1000,
		Height:   500,
	})
	if err != nil {
		return sink.Published{}, err
	}
	return s.Sink.Publish(ctx, art, sink.ModeUpload)
}

// Preview returns the first rows of a dataset, for the raw-data endpoints.
func (s *PatientService) Preview(ctx context.Context, sel source.Selector, n int) ([]map[string]any, error) {
	f, err := s.Source.Fetch(ctx, sel)
	if err != nil {
		return nil, err
	}
	return f.Head(n), nil
}

func rowByID(f *frame.Frame, id int) (frame.Row, error) {
	if err := f.Require("id"); err != nil {
		return nil, err
	}
	for _, row := range f.Rows {
		if v, ok := row.Value("id").Float(); ok && v == float64(id) {
			return row, nil
		}
	}
	return nil, fault.New(fault.NotFound, "patient %d not found", id)
}

// panelNumber reads a numeric panel cell. A non-coercible cell is a decode
// failure rather than a defaulted zero.
func panelNumber(row frame.Row, col string, id int) (float64, error) {
	v, ok := row.Value(col).Float()
	if !ok {
		return 0, fault.New(fault.DecodeFailure, "patient %d: %s is not numeric", id, col)
	}
	return v, nil
}
