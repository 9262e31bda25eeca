package catalog

import (
	"strings"
	"testing"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// TestNewRejectsBadDefinitions checks blank and duplicate ids fail fast at
// construction instead of shadowing each other at lookup time.
func TestNewRejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	if _, err := New(Definition{ID: ""}); err == nil {
		t.Error("New with blank id: want error")
	}
	if _, err := New(Definition{ID: "a"}, Definition{ID: "a"}); err == nil {
		t.Error("New with duplicate id: want error")
	}
	if _, err := New(Definition{ID: "a"}, Definition{ID: "b"}); err != nil {
		t.Errorf("New with distinct ids: %v", err)
	}
}

// TestLookup checks hits return the stored definition and misses report
// absence without error.
func TestLookup(t *testing.T) {
	t.Parallel()

	c, err := New(Definition{ID: "x", Sink: sink.ModeInline})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d, ok := c.Lookup("x")
	if !ok || d.Sink != sink.ModeInline {
		t.Errorf("Lookup(x) = %+v, %v", d, ok)
	}
	if _, ok := c.Lookup("y"); ok {
		t.Error("Lookup(y): want miss")
	}
}

// TestBuiltin checks the shipped definitions register cleanly and cover both
// the live remote families and the archive blob families.
func TestBuiltin(t *testing.T) {
	t.Parallel()

	defs := Builtin(Endpoints{
		Heart: "https://analytics.example/getHeart_disease_analysis",
		Lung:  "https://analytics.example/getLung_cancer_analysis",
	})
	c, err := New(defs...)
	if err != nil {
		t.Fatalf("New(Builtin): %v", err)
	}

	ids := c.IDs()
	if len(ids) != len(defs) {
		t.Fatalf("IDs() = %d entries, want %d", len(ids), len(defs))
	}

	spot := []string{
		"heartDisease/countDiseases",
		"heartDisease/correlationHeatmap",
		"factorsOfHeartDiseases/bmi-Vs-Heart",
		"factorsOfHeartDiseases/Logistic_Regression_Coefficients_Heart_Disease_Risk_Factors",
		"lungCancer/Lung_Cancer_Gender_Distribution",
		"archive/heartDisease/countDiseases",
		"archive/factorsOfHeartDiseases/bmiVsHeart",
	}
	for _, id := range spot {
		if _, ok := c.Lookup(id); !ok {
			t.Errorf("Builtin missing %q", id)
		}
	}

	// The age axis is clinically ordered; it must never render in data order.
	ageReport, ok := c.Lookup("factorsOfHeartDiseases/ageVsDisease")
	if !ok {
		t.Fatal("Builtin missing factorsOfHeartDiseases/ageVsDisease")
	}
	if len(ageReport.Chart.XOrder) != 13 || ageReport.Chart.XOrder[0] != "18-24" || ageReport.Chart.XOrder[12] != "80 or older" {
		t.Errorf("ageVsDisease XOrder = %v, want the 13 age brackets ascending", ageReport.Chart.XOrder)
	}

	// The coefficient fit only ships in the live factors family.
	if _, ok := c.Lookup("archive/factorsOfHeartDiseases/Logistic_Regression_Coefficients_Heart_Disease_Risk_Factors"); ok {
		t.Error("archive family should not carry the coefficient report")
	}

	for _, d := range defs {
		switch {
		case strings.HasPrefix(d.ID, "archive/"):
			if d.Source.Kind != source.KindBlob || d.Sink != sink.ModeUpload {
				t.Errorf("%s: archive reports read the blob store and upload, got source %q sink %q", d.ID, d.Source.Kind, d.Sink)
			}
			if d.Source.Key != HeartDatasetKey {
				t.Errorf("%s: blob key = %q, want %q", d.ID, d.Source.Key, HeartDatasetKey)
			}
		default:
			if d.Source.Kind != source.KindRemote || d.Sink != sink.ModeInline {
				t.Errorf("%s: live reports hit the remote service and stream inline, got source %q sink %q", d.ID, d.Source.Kind, d.Sink)
			}
			if d.Source.Endpoint == "" {
				t.Errorf("%s: remote selector without endpoint", d.ID)
			}
		}
		if d.Chart.Filename == "" {
			t.Errorf("%s: chart without filename", d.ID)
		}
	}
}
