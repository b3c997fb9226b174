package registry

import (
	"fmt"
	"math"

	"github.com/clinscore-server/internal/domain"
)

// MELD is the Model for End-stage Liver Disease score (Kamath 2001, UNOS
// variant) with the optional MELD-Na refinement (Kim 2008). Bilirubin, INR
// and creatinine are floored at 1.0; creatinine is capped at 4.0 and forced
// to 4.0 when the patient received dialysis twice in the past week. The
// final score is clamped to [6, 40].
func MELD() *domain.Calculator {
	return &domain.Calculator{
		ID:          "meld",
		Name:        "MELD",
		Description: "Model for End-stage Liver Disease, with optional sodium adjustment",
		Kind:        domain.CONTINUOUS,
		Precision:   0,
		Specs: []domain.ParameterSpec{
			{
				Name: "bilirubin", Label: "Total bilirubin", Unit: "mg/dL",
				Min: 0.1, Max: 50, Required: true, Policy: domain.RANGE_SOFT,
				Floor: fp(1.0),
			},
			{
				Name: "inr", Label: "INR", Unit: "",
				Min: 0.5, Max: 20, Required: true, Policy: domain.RANGE_SOFT,
				Floor: fp(1.0),
			},
			{
				Name: "creatinine", Label: "Serum creatinine", Unit: "mg/dL",
				Min: 0.1, Max: 15, Required: true, Policy: domain.RANGE_SOFT,
				Floor: fp(1.0), Cap: fp(4.0),
			},
			{
				Name: "sodium", Label: "Serum sodium", Unit: "mmol/L",
				Min: 110, Max: 160, Required: false, Policy: domain.RANGE_SOFT,
				Floor: fp(125), Cap: fp(137),
			},
		},
		Flags: []string{"dialysis", "meld_na"},
		Conditions: []domain.RequirementRule{
			{WhenFlag: "meld_na", Equals: true, Require: "sodium"},
		},
		Evaluate: evaluateMELD,
		Bands: []domain.RiskBand{
			{
				LowerBound: 6, Label: "Low risk", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance:   "MELD score %v indicates well-compensated liver disease.",
					MortalityRange: "1.9% 90-day mortality",
					Recommendations: []string{
						"Routine hepatology follow-up",
						"Recalculate with updated labs every 12 months",
					},
				},
			},
			{
				LowerBound: 10, Label: "Moderate risk", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance:   "MELD score %v indicates moderately decompensated liver disease.",
					MortalityRange: "6.0% 90-day mortality",
					Recommendations: []string{
						"Hepatology referral if not already established",
						"Recalculate with updated labs every 3 months",
					},
				},
			},
			{
				LowerBound: 20, Label: "High risk", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:   "MELD score %v indicates advanced liver disease.",
					MortalityRange: "19.6% 90-day mortality",
					Recommendations: []string{
						"Transplant center evaluation if candidate",
						"Recalculate with updated labs every 30 days",
					},
				},
			},
			{
				LowerBound: 30, Label: "Very high risk", Severity: domain.SEVERITY_CRITICAL,
				Interpretation: domain.Interpretation{
					Significance:   "MELD score %v indicates critical liver failure.",
					MortalityRange: "52.6% 90-day mortality",
					Recommendations: []string{
						"Urgent transplant center involvement",
						"Recalculate with updated labs every 7 days",
					},
				},
			},
		},
	}
}

func evaluateMELD(params *domain.ParameterSet) (float64, map[string]float64, error) {
	bilirubin := params.MustValue("bilirubin")
	inr := params.MustValue("inr")
	creatinine := params.MustValue("creatinine")

	// Dialysis within the past week forces creatinine to 4.0 regardless of
	// the measured value.
	if params.Flag("dialysis") {
		creatinine = 4.0
	}

	if bilirubin <= 0 || inr <= 0 || creatinine <= 0 {
		return 0, nil, fmt.Errorf("non-positive logarithm argument: %w", domain.ErrInvalidDomain)
	}

	base := 3.78*math.Log(bilirubin) + 11.2*math.Log(inr) + 9.57*math.Log(creatinine) + 6.43
	base = clampScore(base, 6, 40)
	baseRounded := math.Round(base)

	components := map[string]float64{"meld": baseRounded}
	score := baseRounded

	// Sodium adjustment applies only above MELD 11.
	if params.Flag("meld_na") {
		if sodium, ok := params.Value("sodium"); ok && baseRounded > 11 {
			adjusted := baseRounded + 1.32*(137-sodium) - 0.033*baseRounded*(137-sodium)
			adjusted = clampScore(adjusted, 6, 40)
			components["meld_na"] = math.Round(adjusted)
			score = adjusted
		}
	}

	return score, components, nil
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
