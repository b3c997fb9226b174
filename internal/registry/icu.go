package registry

import "github.com/clinscore-server/internal/domain"

// camICURiskFactors is static: it accompanies the CAM-ICU result whether or
// not delirium is detected.
var camICURiskFactors = []string{
	"Review deliriogenic medications (benzodiazepines, anticholinergics)",
	"Promote sleep hygiene and early mobilization",
	"Reorient frequently; ensure hearing aids and glasses are available",
	"Screen for infection, hypoxia and metabolic derangement",
}

// CAMICU is the Confusion Assessment Method for the ICU (Ely 2001).
// Delirium is present when feature 1 AND feature 2 AND (feature 3 OR
// feature 4) hold; the result is a boolean, not a sum.
func CAMICU() *domain.Calculator {
	return &domain.Calculator{
		ID:          "cam-icu",
		Name:        "CAM-ICU",
		Description: "Delirium assessment for intensive care patients",
		Kind:        domain.BOOLEAN,
		Precision:   0,
		Flags: []string{
			"acute_onset",           // feature 1: acute onset or fluctuating course
			"inattention",           // feature 2
			"altered_consciousness", // feature 3
			"disorganized_thinking", // feature 4
		},
		Predicate: func(params *domain.ParameterSet) (bool, error) {
			return params.Flag("acute_onset") &&
				params.Flag("inattention") &&
				(params.Flag("altered_consciousness") || params.Flag("disorganized_thinking")), nil
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Delirium absent", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance:    "CAM-ICU criteria for delirium are not met.",
					Recommendations: camICURiskFactors,
				},
			},
			{
				LowerBound: 1, Label: "Delirium present", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:    "CAM-ICU criteria for delirium are met.",
					Recommendations: camICURiskFactors,
				},
			},
		},
	}
}

// RASS is the Richmond Agitation-Sedation Scale (Sessler 2002): a direct
// one-to-one mapping from the assessed level to its descriptor, not a sum.
func RASS() *domain.Calculator {
	return &domain.Calculator{
		ID:          "rass",
		Name:        "RASS",
		Description: "Richmond Agitation-Sedation Scale",
		Kind:        domain.LOOKUP,
		Precision:   0,
		Specs: []domain.ParameterSpec{
			{
				Name: "rass_level", Label: "RASS level", Unit: "",
				Min: -5, Max: 4, Required: true, Policy: domain.RANGE_HARD,
				Integer: true,
			},
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: -5, Label: "Unarousable", Severity: domain.SEVERITY_CRITICAL,
				Interpretation: domain.Interpretation{
					Significance: "No response to voice or physical stimulation.",
					Recommendations: []string{
						"Reassess sedation targets; consider reducing sedative dosing",
					},
				},
			},
			{
				LowerBound: -4, Label: "Deep sedation", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance: "No response to voice, but movement to physical stimulation.",
					Recommendations: []string{
						"Reassess sedation targets; consider reducing sedative dosing",
					},
				},
			},
			{
				LowerBound: -3, Label: "Moderate sedation", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "Movement or eye opening to voice, without eye contact.",
				},
			},
			{
				LowerBound: -2, Label: "Light sedation", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "Briefly awakens with eye contact to voice, under 10 seconds.",
				},
			},
			{
				LowerBound: -1, Label: "Drowsy", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "Not fully alert; sustained awakening to voice over 10 seconds.",
				},
			},
			{
				LowerBound: 0, Label: "Alert and calm", Severity: domain.SEVERITY_NONE,
				Interpretation: domain.Interpretation{
					Significance: "Spontaneously pays attention to caregiver.",
				},
			},
			{
				LowerBound: 1, Label: "Restless", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance: "Anxious but movements not aggressive or vigorous.",
				},
			},
			{
				LowerBound: 2, Label: "Agitated", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance: "Frequent non-purposeful movement; fights ventilator.",
					Recommendations: []string{
						"Assess for pain, withdrawal and delirium before sedating",
					},
				},
			},
			{
				LowerBound: 3, Label: "Very agitated", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance: "Pulls or removes tubes and catheters; aggressive.",
					Recommendations: []string{
						"Assess for pain, withdrawal and delirium before sedating",
						"Ensure staff and patient safety",
					},
				},
			},
			{
				LowerBound: 4, Label: "Combative", Severity: domain.SEVERITY_CRITICAL,
				Interpretation: domain.Interpretation{
					Significance: "Overtly combative or violent; immediate danger to staff.",
					Recommendations: []string{
						"Immediate safety intervention",
						"Assess for pain, withdrawal and delirium before sedating",
					},
				},
			},
		},
	}
}
