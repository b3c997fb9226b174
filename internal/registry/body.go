package registry

import (
	"fmt"
	"math"

	"github.com/clinscore-server/internal/domain"
)

// BMI computes body mass index (kg/m2) with the WHO adult classification.
func BMI() *domain.Calculator {
	return &domain.Calculator{
		ID:          "bmi",
		Name:        "Body Mass Index",
		Description: "Weight relative to height squared, WHO adult classification",
		Kind:        domain.CONTINUOUS,
		Precision:   1,
		Specs: []domain.ParameterSpec{
			{
				Name: "weight", Label: "Weight", Unit: "kg",
				Min: 10, Max: 500, Required: true, Policy: domain.RANGE_HARD,
			},
			{
				Name: "height", Label: "Height", Unit: "cm",
				Min: 50, Max: 280, Required: true, Policy: domain.RANGE_HARD,
			},
		},
		Evaluate: func(params *domain.ParameterSet) (float64, map[string]float64, error) {
			heightM := params.MustValue("height") / 100
			bmi := params.MustValue("weight") / (heightM * heightM)
			return bmi, map[string]float64{"bmi": bmi}, nil
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Underweight", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is below the healthy range.",
					Recommendations: []string{
						"Assess for malnutrition or underlying illness",
					},
				},
			},
			{
				LowerBound: 18.5, Label: "Normal weight", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is within the healthy range.",
				},
			},
			{
				LowerBound: 25, Label: "Overweight", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is in the overweight range.",
					Recommendations: []string{
						"Lifestyle counseling on diet and activity",
					},
				},
			},
			{
				LowerBound: 30, Label: "Obesity class I", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is in the class I obesity range.",
					Recommendations: []string{
						"Structured weight management program",
						"Screen for metabolic comorbidities",
					},
				},
			},
			{
				LowerBound: 35, Label: "Obesity class II", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is in the class II obesity range.",
					Recommendations: []string{
						"Structured weight management program",
						"Screen for metabolic comorbidities",
					},
				},
			},
			{
				LowerBound: 40, Label: "Obesity class III", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance: "BMI %v is in the class III obesity range.",
					Recommendations: []string{
						"Consider referral for bariatric evaluation",
						"Screen for metabolic comorbidities",
					},
				},
			},
		},
	}
}

// BSAMosteller computes body surface area with the Mosteller formula
// sqrt(height * weight / 3600).
func BSAMosteller() *domain.Calculator {
	return &domain.Calculator{
		ID:          "bsa-mosteller",
		Name:        "Body Surface Area (Mosteller)",
		Description: "Body surface area in m2 by the Mosteller formula",
		Kind:        domain.CONTINUOUS,
		Precision:   2,
		Specs: []domain.ParameterSpec{
			{
				Name: "weight", Label: "Weight", Unit: "kg",
				Min: 1, Max: 500, Required: true, Policy: domain.RANGE_HARD,
			},
			{
				Name: "height", Label: "Height", Unit: "cm",
				Min: 30, Max: 280, Required: true, Policy: domain.RANGE_HARD,
			},
		},
		Evaluate: func(params *domain.ParameterSet) (float64, map[string]float64, error) {
			bsa := math.Sqrt(params.MustValue("height") * params.MustValue("weight") / 3600)
			return bsa, map[string]float64{"bsa": bsa}, nil
		},
		Display: func(score float64, _ *domain.ParameterSet) string {
			return fmt.Sprintf("%.2f m2", score)
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Body surface area", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance: "Estimated body surface area of %v.",
					Recommendations: []string{
						"Use for drug dosing and cardiac index calculation",
					},
				},
			},
		},
	}
}

// LeanBodyWeight estimates lean body weight with the Boer formula.
func LeanBodyWeight() *domain.Calculator {
	return &domain.Calculator{
		ID:          "lean-body-weight",
		Name:        "Lean Body Weight (Boer)",
		Description: "Lean body weight estimate by the Boer formula",
		Kind:        domain.CONTINUOUS,
		Precision:   1,
		Specs: []domain.ParameterSpec{
			{
				Name: "weight", Label: "Weight", Unit: "kg",
				Min: 10, Max: 500, Required: true, Policy: domain.RANGE_HARD,
			},
			{
				Name: "height", Label: "Height", Unit: "cm",
				Min: 100, Max: 280, Required: true, Policy: domain.RANGE_HARD,
			},
		},
		Flags: []string{"female"},
		Evaluate: func(params *domain.ParameterSet) (float64, map[string]float64, error) {
			weight := params.MustValue("weight")
			height := params.MustValue("height")
			var lbw float64
			if params.Flag("female") {
				lbw = 0.252*weight + 0.473*height - 48.3
			} else {
				lbw = 0.407*weight + 0.267*height - 19.2
			}
			return lbw, map[string]float64{"lean_body_weight": lbw}, nil
		},
		Display: func(score float64, _ *domain.ParameterSet) string {
			return fmt.Sprintf("%.1f kg", score)
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Lean body weight", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance: "Estimated lean body weight of %v.",
					Recommendations: []string{
						"Use for dosing drugs that distribute poorly into fat",
					},
				},
			},
		},
	}
}
