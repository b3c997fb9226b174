package registry

import (
	"fmt"
	"math"

	"github.com/clinscore-server/internal/domain"
)

// CKDEPI estimates GFR using the CKD-EPI 2021 race-free creatinine equation.
// Values above 60 mL/min/1.73m2 are reported as ">60" unless markers of
// kidney damage are present, since the equation is imprecise in that range.
func CKDEPI() *domain.Calculator {
	return &domain.Calculator{
		ID:          "ckd-epi",
		Name:        "CKD-EPI 2021 eGFR",
		Description: "Estimated glomerular filtration rate, 2021 race-free creatinine equation",
		Kind:        domain.CONTINUOUS,
		Precision:   0,
		Specs: []domain.ParameterSpec{
			{
				Name: "creatinine", Label: "Serum creatinine", Unit: "mg/dL",
				Min: 0.1, Max: 20, Required: true, Policy: domain.RANGE_HARD,
			},
			{
				Name: "age", Label: "Age", Unit: "years",
				Min: 18, Max: 120, Required: true, Policy: domain.RANGE_HARD,
			},
		},
		Flags:    []string{"female", "ckd_markers"},
		Evaluate: evaluateCKDEPI,
		Display:  displayEGFR,
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "G5: Kidney failure", Severity: domain.SEVERITY_CRITICAL,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v indicates kidney failure (stage G5).",
					Recommendations: []string{
						"Nephrology referral for renal replacement planning",
						"Review all medications for renal dosing",
					},
				},
			},
			{
				LowerBound: 15, Label: "G4: Severely decreased", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v indicates severely decreased kidney function (stage G4).",
					Recommendations: []string{
						"Nephrology referral",
						"Adjust renally cleared medications",
					},
				},
			},
			{
				LowerBound: 30, Label: "G3b: Moderately to severely decreased", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v indicates stage G3b chronic kidney disease.",
					Recommendations: []string{
						"Monitor eGFR and albuminuria",
						"Adjust renally cleared medications",
					},
				},
			},
			{
				LowerBound: 45, Label: "G3a: Mildly to moderately decreased", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v indicates stage G3a chronic kidney disease.",
					Recommendations: []string{
						"Monitor eGFR and albuminuria",
					},
				},
			},
			{
				LowerBound: 60, Label: "G2: Mildly decreased", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v is mildly decreased; CKD only if markers of kidney damage are present.",
				},
			},
			{
				LowerBound: 90, Label: "G1: Normal or high", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance: "eGFR %v is in the normal range; CKD only if markers of kidney damage are present.",
				},
			},
		},
	}
}

func evaluateCKDEPI(params *domain.ParameterSet) (float64, map[string]float64, error) {
	creatinine := params.MustValue("creatinine")
	age := params.MustValue("age")

	kappa := 0.9
	alpha := -0.302
	sexFactor := 1.0
	if params.Flag("female") {
		kappa = 0.7
		alpha = -0.241
		sexFactor = 1.012
	}

	ratio := creatinine / kappa
	egfr := 142 *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), -1.200) *
		math.Pow(0.9938, age) *
		sexFactor

	return egfr, map[string]float64{"egfr": egfr}, nil
}

func displayEGFR(score float64, params *domain.ParameterSet) string {
	if score > 60 && !params.Flag("ckd_markers") {
		return ">60"
	}
	return fmt.Sprintf("%.0f", score)
}
