package registry

import "github.com/clinscore-server/internal/domain"

// AnionGap computes the serum anion gap (Na [+ K]) - (Cl + HCO3), with the
// optional albumin correction (gap + 2.5 * (4.0 - albumin)) and the
// optional delta gap ((gap - normal gap) - (24 - HCO3)). When the albumin
// correction is enabled the corrected gap is the value that gets banded.
// Including potassium shifts the reference range from 8-16 to 12-20, so the
// band table follows the flag. Scores carry one decimal, so each elevated
// band's inclusive lower bound sits 0.1 above the normal edge.
func AnionGap() *domain.Calculator {
	return &domain.Calculator{
		ID:          "anion-gap",
		Name:        "Anion Gap",
		Description: "Serum anion gap with optional potassium, albumin correction and delta gap",
		Kind:        domain.CONTINUOUS,
		Precision:   1,
		Specs: []domain.ParameterSpec{
			{
				Name: "sodium", Label: "Sodium", Unit: "mmol/L",
				Min: 100, Max: 180, Required: true, Policy: domain.RANGE_SOFT,
			},
			{
				Name: "chloride", Label: "Chloride", Unit: "mmol/L",
				Min: 70, Max: 140, Required: true, Policy: domain.RANGE_SOFT,
			},
			{
				Name: "bicarbonate", Label: "Bicarbonate", Unit: "mmol/L",
				Min: 5, Max: 60, Required: true, Policy: domain.RANGE_SOFT,
			},
			{
				Name: "potassium", Label: "Potassium", Unit: "mmol/L",
				Min: 1.5, Max: 9, Required: false, Policy: domain.RANGE_SOFT,
			},
			{
				Name: "albumin", Label: "Albumin", Unit: "g/dL",
				Min: 1, Max: 6, Required: false, Policy: domain.RANGE_SOFT,
			},
		},
		Flags: []string{"include_potassium", "albumin_correction", "delta_gap"},
		Conditions: []domain.RequirementRule{
			{WhenFlag: "include_potassium", Equals: true, Require: "potassium"},
			{WhenFlag: "albumin_correction", Equals: true, Require: "albumin"},
		},
		Evaluate:    evaluateAnionGap,
		Bands:       anionGapBands(8, 16.1, "8-16 mEq/L"),
		SelectBands: selectAnionGapBands,
	}
}

// selectAnionGapBands swaps in the potassium-inclusive reference range.
func selectAnionGapBands(params *domain.ParameterSet) []domain.RiskBand {
	if params.Flag("include_potassium") {
		return anionGapBands(12, 20.1, "12-20 mEq/L")
	}
	return anionGapBands(8, 16.1, "8-16 mEq/L")
}

func anionGapBands(normalLB, elevatedLB float64, rangeText string) []domain.RiskBand {
	return []domain.RiskBand{
		{
			LowerBound: -60, Label: "Low anion gap", Severity: domain.SEVERITY_LOW,
			Interpretation: domain.Interpretation{
				Significance: "Anion gap below the reference range.",
				Recommendations: []string{
					"Consider hypoalbuminemia; recalculate with albumin correction",
					"Consider laboratory error, paraproteinemia or bromide exposure",
				},
			},
		},
		{
			LowerBound: normalLB, Label: "Normal anion gap", Severity: domain.SEVERITY_NONE,
			Interpretation: domain.Interpretation{
				Significance: "Anion gap within the reference range (" + rangeText + ").",
			},
		},
		{
			LowerBound: elevatedLB, Label: "Elevated anion gap", Severity: domain.SEVERITY_MODERATE,
			Interpretation: domain.Interpretation{
				Significance: "Elevated anion gap suggests an unmeasured anion.",
				Recommendations: []string{
					"Consider methanol, uremia, DKA, paraldehyde, iron or isoniazid, lactate, ethylene glycol, salicylates",
					"Check lactate, ketones, osmolal gap and toxicology as indicated",
					"Evaluate the delta gap for a concurrent non-gap process",
				},
			},
		},
	}
}

func evaluateAnionGap(params *domain.ParameterSet) (float64, map[string]float64, error) {
	sodium := params.MustValue("sodium")
	chloride := params.MustValue("chloride")
	bicarbonate := params.MustValue("bicarbonate")

	cations := sodium
	normalGap := 12.0
	if params.Flag("include_potassium") {
		cations += params.MustValue("potassium")
		normalGap = 16.0
	}

	gap := cations - (chloride + bicarbonate)
	components := map[string]float64{"anion_gap": gap}

	evaluated := gap
	if params.Flag("albumin_correction") {
		corrected := gap + 2.5*(4.0-params.MustValue("albumin"))
		components["corrected_gap"] = corrected
		evaluated = corrected
	}

	if params.Flag("delta_gap") {
		components["delta_gap"] = (evaluated - normalGap) - (24 - bicarbonate)
	}

	return evaluated, components, nil
}
