package registry

import (
	"fmt"

	"github.com/clinscore-server/internal/domain"
)

// Parkland computes 24-hour crystalloid resuscitation volume for burn
// patients: 4 mL/kg/%TBSA for adults, 3 mL/kg/%TBSA for pediatric patients.
// Half the volume is given over the first 8 hours from the time of injury,
// the remainder over the next 16 hours.
func Parkland() *domain.Calculator {
	return &domain.Calculator{
		ID:          "parkland",
		Name:        "Parkland Formula",
		Description: "Burn fluid resuscitation volume for the first 24 hours",
		Kind:        domain.CONTINUOUS,
		Precision:   0,
		Specs: []domain.ParameterSpec{
			{
				Name: "weight", Label: "Weight", Unit: "kg",
				Min: 1, Max: 300, Required: true, Policy: domain.RANGE_HARD,
			},
			{
				Name: "burn_percent", Label: "Burn surface area", Unit: "%",
				Min: 1, Max: 100, Required: true, Policy: domain.RANGE_HARD,
			},
		},
		Flags:    []string{"pediatric"},
		Evaluate: evaluateParkland,
		Display: func(score float64, _ *domain.ParameterSet) string {
			return fmt.Sprintf("%.0f mL", score)
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Resuscitation volume", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance: "Total crystalloid volume of %v over the first 24 hours from time of injury.",
					Recommendations: []string{
						"Give half the total volume over the first 8 hours from the time of injury",
						"Give the remaining half over the following 16 hours",
						"Titrate to urine output (0.5 mL/kg/h adults, 1 mL/kg/h children)",
						"Use lactated Ringer's solution",
					},
				},
			},
		},
	}
}

func evaluateParkland(params *domain.ParameterSet) (float64, map[string]float64, error) {
	weight := params.MustValue("weight")
	burn := params.MustValue("burn_percent")

	factor := 4.0
	if params.Flag("pediatric") {
		factor = 3.0
	}

	total := factor * weight * burn
	first8h := total / 2
	next16h := total / 2

	return total, map[string]float64{
		"total_24h":     total,
		"first_8h":      first8h,
		"first_8h_rate": first8h / 8,
		"next_16h":      next16h,
		"next_16h_rate": next16h / 16,
	}, nil
}
