package catalog

import (
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/aggregate"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/derive"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/derive/builtin"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/source"
)

// HeartDatasetKey is the survey spreadsheet behind the archived heart
// reports.
const HeartDatasetKey = "heart_2020_cleaned.xlsx"

// Endpoints are the remote analytics services the live report families pull
// their datasets from.
type Endpoints struct {
	Heart string
	Lung  string
}

// GenHealthOrder is the clinical self-rated health scale, best to worst.
var GenHealthOrder = []string{"Excellent", "Very good", "Good", "Fair", "Poor"}

var yesNoLabels = map[string]string{"0": "No", "1": "Yes"}

// Builtin returns the full report registry: the live heart-disease and
// lung-cancer families served inline from the remote analytics endpoints,
// plus the archived spreadsheet-backed generation of the heart families,
// which uploads to S3 and answers with a presigned URL.
func Builtin(ep Endpoints) []Definition {
	heartRemote := source.Selector{Kind: source.KindRemote, Endpoint: ep.Heart}
	heartBlob := source.Selector{Kind: source.KindBlob, Key: HeartDatasetKey}
	lungRemote := source.Selector{Kind: source.KindRemote, Endpoint: ep.Lung}

	var defs []Definition
	defs = append(defs, heartFamily("heartDisease/", heartRemote, sink.ModeInline)...)
	defs = append(defs, factorsFamily("factorsOfHeartDiseases/", heartRemote, sink.ModeInline, true)...)
	defs = append(defs, lungFamily("lungCancer/", lungRemote)...)
	defs = append(defs, heartFamily("archive/heartDisease/", heartBlob, sink.ModeUpload)...)
	defs = append(defs, factorsFamily("archive/factorsOfHeartDiseases/", heartBlob, sink.ModeUpload, false)...)
	return defs
}

// heartFamily covers the condition-overview reports of the heart dataset.
func heartFamily(prefix string, sel source.Selector, mode sink.Mode) []Definition {
	return []Definition{
		{
			ID:     prefix + "countDiseases",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.MeltAndCount,
				Columns: []string{"Asthma", "KidneyDisease", "SkinCancer"},
				GroupBy: "HeartDisease",
				Match:   "Yes",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Count Plot of Asthma, Kidney Disease, and Skin Cancer by Heart Disease Status",
				XLabel:   "Condition",
				YLabel:   "Count",
				Filename: "countDiseases.svg",
				HueOrder: []string{"No", "Yes"},
				Width:    1200,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "correlationHeatmap",
			Source: sel,
			Derive: derive.Chain{
				builtin.Binarize{Col: "HeartDisease", TrueLabel: "Yes"},
			},
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CorrelationMatrix,
				Columns: []string{"HeartDisease", "BMI", "PhysicalHealth", "MentalHealth", "SleepTime"},
			},
			Chart: chart.Spec{
				Kind:     chart.KindHeatmap,
				Title:    "Correlation Heatmap for Heart Disease and Numerical Features",
				Filename: "correlationHeatmap.svg",
			},
			Sink: mode,
		},
		{
			ID:     prefix + "diabeticHeart",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "Diabetic",
				Hue:     "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Count Plot of Diabetic Status Categorized by Heart Disease",
				XLabel:   "Diabetic Status",
				YLabel:   "Count",
				Filename: "diabeticHeart.svg",
				HueOrder: []string{"No", "Yes"},
			},
			Sink: mode,
		},
		{
			ID:     prefix + "strokeHeart",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "Stroke",
				Hue:     "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Count Plot of Stroke Categorized by Heart Disease",
				XLabel:   "Stroke History",
				YLabel:   "Count",
				Filename: "strokeHeart.svg",
				HueOrder: []string{"No", "Yes"},
			},
			Sink: mode,
		},
	}
}

// factorsFamily covers the risk-factor reports of the heart dataset. The
// coefficient fit only exists in the live generation; the archived one
// predates it.
func factorsFamily(prefix string, sel source.Selector, mode sink.Mode, withCoefficients bool) []Definition {
	binarized := derive.Chain{builtin.Binarize{Col: "HeartDisease", TrueLabel: "Yes"}}
	diseased := &aggregate.Filter{Col: "HeartDisease", Equals: "1"}

	defs := []Definition{
		{
			ID:     prefix + "bmi-Vs-Heart",
			Source: sel,
			Derive: derive.Chain{
				builtin.Binarize{Col: "HeartDisease", TrueLabel: "Yes"},
				builtin.BMICategory{Col: "BMI", Out: "BMI_Category"},
			},
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "BMI_Category",
				Hue:     "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Heart Disease Prevalence by BMI Category",
				XLabel:   "BMI Category",
				YLabel:   "Count",
				Filename: "bmiVsHeart.svg",
				XOrder:   builtin.BMIReportOrder,
				HueOrder: []string{"0", "1"},
				Labels:   yesNoLabels,
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "smokingHeart",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "Smoking",
				Filter:  diseased,
			},
			Chart: chart.Spec{
				Kind:     chart.KindCount,
				Title:    "Smoking Habits of Individuals with Heart Disease",
				XLabel:   "Smoking",
				YLabel:   "Count",
				Filename: "smokingHeart.svg",
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "alcoholHeart",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "AlcoholDrinking",
				Filter:  diseased,
			},
			Chart: chart.Spec{
				Kind:     chart.KindCount,
				Title:    "Alcohol Drinking for Individuals with Heart Disease",
				XLabel:   "Alcohol Drinking",
				YLabel:   "Count",
				Filename: "alcoholHeart.svg",
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "physicalActivity-Sleep-HealthyHeart",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.SummaryByGroup,
				GroupBy: "PhysicalActivity",
				Target:  "SleepTime",
				Filter:  diseased,
			},
			Chart: chart.Spec{
				Kind:     chart.KindBox,
				Title:    "Physical Activity vs. Sleep Time for Individuals with Heart Disease",
				XLabel:   "Physical Activity (Yes/No)",
				YLabel:   "Sleep Time (hours)",
				Filename: "box_physical_activity_sleep_time.svg",
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "generalHealth-Heart",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.MeanByGroup,
				GroupBy: "GenHealth",
				Target:  "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Heart Disease Prevalence by General Health",
				XLabel:   "General Health",
				YLabel:   "Prevalence of Heart Disease (0.10 = 10%)",
				Filename: "generalHealth-Heart.svg",
				XOrder:   GenHealthOrder,
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "sleepVsHeart-modified",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "SleepTime",
			},
			Chart: chart.Spec{
				Kind:     chart.KindHistogram,
				Title:    "Distribution of Sleep Time and Heart Disease",
				XLabel:   "Sleep Time (hours)",
				YLabel:   "Frequency",
				Filename: "sleepVsHeartModified.svg",
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "physicalActivity-HeartDiseases",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "PhysicalActivity",
				Filter:  diseased,
			},
			Chart: chart.Spec{
				Kind:     chart.KindCount,
				Title:    "Physical Activity for Individuals with Heart Disease",
				XLabel:   "Physical Activity (Yes/No)",
				YLabel:   "Count",
				Filename: "physicalActivity-HeartDiseases.svg",
				Width:    800,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "ageVsDisease",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.MeanByGroup,
				GroupBy: "AgeCategory",
				Target:  "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Heart Disease Prevalence by Age Category",
				XLabel:   "Age Category",
				YLabel:   "Prevalence of Heart Disease",
				Filename: "ageVsHeartDiseases.svg",
				XOrder:   builtin.AgeBucketOrder,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "bmiVsHeart",
			Source: sel,
			Derive: derive.Chain{
				builtin.Binarize{Col: "HeartDisease", TrueLabel: "Yes"},
				builtin.BMICategory{Col: "BMI", Out: "BMI_Category"},
			},
			Aggregate: aggregate.Spec{
				Kind:    aggregate.MeanByGroup,
				GroupBy: "BMI_Category",
				Target:  "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Heart Disease Prevalence by BMI Category",
				XLabel:   "BMI Category",
				YLabel:   "Prevalence of Heart Disease",
				Filename: "bmi_vs_heart_disease_prevalence.svg",
				XOrder:   builtin.BMIReportOrder,
			},
			Sink: mode,
		},
		{
			ID:     prefix + "sexVsHeart",
			Source: sel,
			Derive: binarized,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.MeanByGroup,
				GroupBy: "Sex",
				Target:  "HeartDisease",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Heart Disease Prevalence by Sex",
				XLabel:   "Sex",
				YLabel:   "Prevalence of Heart Disease",
				Filename: "sexVsHeart.svg",
				Width:    800,
			},
			Sink: mode,
		},
	}

	if withCoefficients {
		defs = append(defs, Definition{
			ID:     prefix + "Logistic_Regression_Coefficients_Heart_Disease_Risk_Factors",
			Source: sel,
			Derive: derive.Chain{
				builtin.Binarize{Col: "HeartDisease", TrueLabel: "Yes"},
				builtin.Binarize{Col: "Sex", TrueLabel: "Male"},
				builtin.AgeBucketOrdinal{Col: "AgeCategory"},
			},
			Aggregate: aggregate.Spec{
				Kind:       aggregate.CoefficientFit,
				Target:     "HeartDisease",
				Covariates: []string{"AgeCategory", "BMI", "Sex"},
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Logistic Regression Coefficients for Heart Disease Risk Factors",
				XLabel:   "Risk Factors",
				YLabel:   "Coefficient Value",
				Filename: "logistic_regression_coefficients_heart_disease_risk_factors.svg",
				XOrder:   []string{"const", "AgeCategory", "BMI", "Sex"},
				Width:    800,
			},
			Sink: mode,
		})
	}
	return defs
}

// lungFamily covers the lung-cancer survey reports. Presence columns encode
// no as 1 and yes as 2, so prevalence matches on the label "2".
func lungFamily(prefix string, sel source.Selector) []Definition {
	mapDiagnosis := derive.Chain{builtin.MapValues{
		Col: "lung_cancer",
		Mapping: map[string]frame.Value{
			"yes": frame.Number(2),
			"no":  frame.Number(1),
		},
		Default: frame.Number(0),
	}}
	mapSmoking := derive.Chain{builtin.MapValues{
		Col: "smoking",
		Mapping: map[string]frame.Value{
			"2": frame.String("Yes"),
			"1": frame.String("No"),
		},
	}}
	symptoms := []string{"yellow_fingers", "anxiety", "coughing", "wheezing", "chest_pain"}

	return []Definition{
		{
			ID:     prefix + "ChronicDiseaseAndAllergyWithAndWithoutLungCancer",
			Source: sel,
			Derive: mapDiagnosis,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.PercentageByValue,
				Columns: []string{"chronic_disease", "allergy"},
				Match:   "2",
				GroupBy: "lung_cancer",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Incidence of Chronic Disease and Allergy in Patients With and Without Lung Cancer",
				XLabel:   "Condition",
				YLabel:   "Incidence (%)",
				Filename: "ChronicDiseaseAndAllergyWithAndWithoutLungCancer.svg",
				HueOrder: []string{"2", "1"},
				Labels: map[string]string{
					"2": "With Lung Cancer",
					"1": "Without Lung Cancer",
				},
				Width: 800,
			},
			Sink: sink.ModeInline,
		},
		{
			ID:     prefix + "Correlation_Between_Symptoms_And_Lung_Cancer_Diagnosis",
			Source: sel,
			Derive: mapDiagnosis,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CorrelationMatrix,
				Columns: append(append([]string{}, symptoms...), "lung_cancer"),
			},
			Chart: chart.Spec{
				Kind:     chart.KindHeatmap,
				Title:    "Correlation between Symptoms and Lung Cancer Diagnosis",
				Filename: "correlation_between_symptoms_and_lung_cancer_diagnosis.svg",
				Width:    800,
			},
			Sink: sink.ModeInline,
		},
		{
			ID:     prefix + "Lung_Cancer_Gender_Distribution",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "gender",
			},
			Chart: chart.Spec{
				Kind:     chart.KindCount,
				Title:    "Gender Distribution of Patients",
				XLabel:   "Gender",
				YLabel:   "Count",
				Filename: "lung_cancer_gender_distribution.svg",
				Width:    800,
			},
			Sink: sink.ModeInline,
		},
		{
			ID:     prefix + "smoking_non_smoking_gender_age",
			Source: sel,
			Derive: mapSmoking,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.SummaryByGroup,
				GroupBy: "smoking",
				Target:  "age",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBox,
				Title:    "Smoking Status by Gender and Age",
				XLabel:   "Smoking Status",
				YLabel:   "Age",
				Filename: "smoking_non_smoking_gender_age.svg",
				XOrder:   []string{"Yes", "No"},
				Width:    800,
			},
			Sink: sink.ModeInline,
		},
		{
			ID:     prefix + "lung_cancer_diagnosis_smoking_status",
			Source: sel,
			Derive: mapSmoking,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.CountByGroup,
				GroupBy: "smoking",
				Hue:     "lung_cancer",
			},
			Chart: chart.Spec{
				Kind:     chart.KindGroupedBar,
				Title:    "Lung Cancer Diagnosis by Smoking Status",
				XLabel:   "Smoking Status",
				YLabel:   "Count",
				Filename: "lung_cancer_diagnosis_smoking_status.svg",
				XOrder:   []string{"Yes", "No"},
				Width:    800,
			},
			Sink: sink.ModeInline,
		},
		{
			ID:     prefix + "Prevalence_Rates_Symptoms_Lung_Cancer_Patients",
			Source: sel,
			Aggregate: aggregate.Spec{
				Kind:    aggregate.PercentageByValue,
				Columns: symptoms,
				Match:   "2",
			},
			Chart: chart.Spec{
				Kind:     chart.KindBar,
				Title:    "Prevalence Rates of Symptoms in Lung Cancer Patients",
				XLabel:   "Symptom",
				YLabel:   "Prevalence (%)",
				Filename: "prevalence_rates_symptoms_lung_cancer_patients.svg",
				Width:    800,
			},
			Sink: sink.ModeInline,
		},
	}
}
