package registry

import "github.com/clinscore-server/internal/domain"

// HEART is the HEART score for chest-pain patients in the emergency
// department (Six 2008). Five criteria, 0-2 points each; the moderate band
// starts exactly at 4.
func HEART() *domain.Calculator {
	return &domain.Calculator{
		ID:          "heart",
		Name:        "HEART",
		Description: "Major adverse cardiac event risk for ED chest pain",
		Kind:        domain.POINT_SUM,
		Precision:   0,
		Criteria: []domain.Criterion{
			{
				ID: "history", Label: "History",
				Options: []domain.CriterionOption{
					{Label: "Slightly suspicious", Points: 0},
					{Label: "Moderately suspicious", Points: 1},
					{Label: "Highly suspicious", Points: 2},
				},
			},
			{
				ID: "ecg", Label: "ECG",
				Options: []domain.CriterionOption{
					{Label: "Normal", Points: 0},
					{Label: "Non-specific repolarization disturbance", Points: 1},
					{Label: "Significant ST deviation", Points: 2},
				},
			},
			{
				ID: "age", Label: "Age",
				Options: []domain.CriterionOption{
					{Label: "Under 45", Points: 0},
					{Label: "45-64", Points: 1},
					{Label: "65 or older", Points: 2},
				},
			},
			{
				ID: "risk_factors", Label: "Risk factors",
				Options: []domain.CriterionOption{
					{Label: "None", Points: 0},
					{Label: "1-2 risk factors", Points: 1},
					{Label: "3 or more, or known atherosclerotic disease", Points: 2},
				},
			},
			{
				ID: "troponin", Label: "Initial troponin",
				Options: []domain.CriterionOption{
					{Label: "At or below normal limit", Points: 0},
					{Label: "1-3x normal limit", Points: 1},
					{Label: "Above 3x normal limit", Points: 2},
				},
			},
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Low risk", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance:   "Low risk of major adverse cardiac events within 6 weeks.",
					MortalityRange: "0.9-1.7% MACE",
					Recommendations: []string{
						"Discharge with outpatient follow-up appropriate in most cases",
					},
				},
			},
			{
				LowerBound: 4, Label: "Moderate risk", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance:   "Moderate risk of major adverse cardiac events within 6 weeks.",
					MortalityRange: "12-16.6% MACE",
					Recommendations: []string{
						"Admit for observation and serial troponin",
						"Consider non-invasive testing before discharge",
					},
				},
			},
			{
				LowerBound: 7, Label: "High risk", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:   "High risk of major adverse cardiac events within 6 weeks.",
					MortalityRange: "50-65% MACE",
					Recommendations: []string{
						"Admit with early invasive strategy",
						"Cardiology consultation",
					},
				},
			},
		},
	}
}

// GRACE is the GRACE ACS risk score for in-hospital mortality (Granger
// 2003). Continuous clinical measurements are bucketed into the published
// point table, so the score remains a plain point sum.
func GRACE() *domain.Calculator {
	return &domain.Calculator{
		ID:          "grace",
		Name:        "GRACE",
		Description: "In-hospital mortality after acute coronary syndrome",
		Kind:        domain.POINT_SUM,
		Precision:   0,
		Criteria: []domain.Criterion{
			{
				ID: "age", Label: "Age",
				Options: []domain.CriterionOption{
					{Label: "Under 30", Points: 0},
					{Label: "30-39", Points: 8},
					{Label: "40-49", Points: 25},
					{Label: "50-59", Points: 41},
					{Label: "60-69", Points: 58},
					{Label: "70-79", Points: 75},
					{Label: "80-89", Points: 91},
					{Label: "90 or older", Points: 100},
				},
			},
			{
				ID: "heart_rate", Label: "Heart rate",
				Options: []domain.CriterionOption{
					{Label: "Under 50", Points: 0},
					{Label: "50-69", Points: 3},
					{Label: "70-89", Points: 9},
					{Label: "90-109", Points: 15},
					{Label: "110-149", Points: 24},
					{Label: "150-199", Points: 38},
					{Label: "200 or more", Points: 46},
				},
			},
			{
				ID: "systolic_bp", Label: "Systolic blood pressure",
				Options: []domain.CriterionOption{
					{Label: "Under 80", Points: 58},
					{Label: "80-99", Points: 53},
					{Label: "100-119", Points: 43},
					{Label: "120-139", Points: 34},
					{Label: "140-159", Points: 24},
					{Label: "160-199", Points: 10},
					{Label: "200 or more", Points: 0},
				},
			},
			{
				ID: "creatinine", Label: "Serum creatinine (mg/dL)",
				Options: []domain.CriterionOption{
					{Label: "0-0.39", Points: 1},
					{Label: "0.4-0.79", Points: 4},
					{Label: "0.8-1.19", Points: 7},
					{Label: "1.2-1.59", Points: 10},
					{Label: "1.6-1.99", Points: 13},
					{Label: "2-3.99", Points: 21},
					{Label: "4 or more", Points: 28},
				},
			},
			{
				ID: "killip", Label: "Killip class",
				Options: []domain.CriterionOption{
					{Label: "Class I", Points: 0},
					{Label: "Class II", Points: 20},
					{Label: "Class III", Points: 39},
					{Label: "Class IV", Points: 59},
				},
			},
			{ID: "cardiac_arrest", Label: "Cardiac arrest at admission", Options: yesNo(39)},
			{ID: "st_deviation", Label: "ST-segment deviation", Options: yesNo(28)},
			{ID: "elevated_markers", Label: "Elevated cardiac markers", Options: yesNo(14)},
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Low risk", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance:   "GRACE score %v: low in-hospital mortality risk.",
					MortalityRange: "under 1% in-hospital mortality",
					Recommendations: []string{
						"Standard monitoring on a cardiology ward",
					},
				},
			},
			{
				LowerBound: 109, Label: "Intermediate risk", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance:   "GRACE score %v: intermediate in-hospital mortality risk.",
					MortalityRange: "1-3% in-hospital mortality",
					Recommendations: []string{
						"Consider early invasive strategy within 72 hours",
					},
				},
			},
			{
				LowerBound: 141, Label: "High risk", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:   "GRACE score %v: high in-hospital mortality risk.",
					MortalityRange: "over 3% in-hospital mortality",
					Recommendations: []string{
						"Invasive strategy within 24 hours where feasible",
						"Continuous monitoring",
					},
				},
			},
		},
	}
}

// TIMIUANSTEMI is the TIMI risk score for unstable angina / NSTEMI
// (Antman 2000): seven binary criteria worth one point each.
func TIMIUANSTEMI() *domain.Calculator {
	return &domain.Calculator{
		ID:          "timi-ua-nstemi",
		Name:        "TIMI (UA/NSTEMI)",
		Description: "14-day event risk in unstable angina or NSTEMI",
		Kind:        domain.POINT_SUM,
		Precision:   0,
		Criteria: []domain.Criterion{
			{ID: "age_65", Label: "Age 65 or older", Options: yesNo(1)},
			{ID: "risk_factors_3", Label: "3 or more CAD risk factors", Options: yesNo(1)},
			{ID: "known_cad", Label: "Known CAD with stenosis of 50% or more", Options: yesNo(1)},
			{ID: "aspirin_7d", Label: "Aspirin use in the past 7 days", Options: yesNo(1)},
			{ID: "severe_angina", Label: "2 or more angina episodes in 24 hours", Options: yesNo(1)},
			{ID: "st_deviation", Label: "ST deviation of 0.5 mm or more", Options: yesNo(1)},
			{ID: "elevated_markers", Label: "Elevated cardiac markers", Options: yesNo(1)},
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Low risk", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance:   "Low risk of death, MI or urgent revascularization at 14 days.",
					MortalityRange: "4.7-8.3% event rate",
					Recommendations: []string{
						"Conservative strategy with early stress testing is reasonable",
					},
				},
			},
			{
				LowerBound: 3, Label: "Intermediate risk", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance:   "Intermediate risk of death, MI or urgent revascularization at 14 days.",
					MortalityRange: "13.2-19.9% event rate",
					Recommendations: []string{
						"Consider early invasive strategy",
					},
				},
			},
			{
				LowerBound: 5, Label: "High risk", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:   "High risk of death, MI or urgent revascularization at 14 days.",
					MortalityRange: "26.2-40.9% event rate",
					Recommendations: []string{
						"Early invasive strategy recommended",
						"Glycoprotein IIb/IIIa inhibition per local protocol",
					},
				},
			},
		},
	}
}

// TIMISTEMI is the TIMI risk score for STEMI (Morrow 2000) with its
// weighted criteria, maximum 14 points.
func TIMISTEMI() *domain.Calculator {
	return &domain.Calculator{
		ID:          "timi-stemi",
		Name:        "TIMI (STEMI)",
		Description: "30-day mortality after ST-elevation MI",
		Kind:        domain.POINT_SUM,
		Precision:   0,
		Criteria: []domain.Criterion{
			{
				ID: "age", Label: "Age",
				Options: []domain.CriterionOption{
					{Label: "Under 65", Points: 0},
					{Label: "65-74", Points: 2},
					{Label: "75 or older", Points: 3},
				},
			},
			{ID: "dm_htn_angina", Label: "Diabetes, hypertension or prior angina", Options: yesNo(1)},
			{ID: "sbp_low", Label: "Systolic BP under 100 mmHg", Options: yesNo(3)},
			{ID: "hr_high", Label: "Heart rate over 100", Options: yesNo(2)},
			{ID: "killip_2_4", Label: "Killip class II-IV", Options: yesNo(2)},
			{ID: "weight_low", Label: "Weight under 67 kg", Options: yesNo(1)},
			{ID: "anterior_ste", Label: "Anterior ST elevation or LBBB", Options: yesNo(1)},
			{ID: "time_to_treatment", Label: "Time to treatment over 4 hours", Options: yesNo(1)},
		},
		Bands: []domain.RiskBand{
			{
				LowerBound: 0, Label: "Low risk", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{
					Significance:   "Low 30-day mortality risk after STEMI.",
					MortalityRange: "0.8-4.4% 30-day mortality",
					Recommendations: []string{
						"Standard reperfusion pathway",
					},
				},
			},
			{
				LowerBound: 4, Label: "Moderate risk", Severity: domain.SEVERITY_MODERATE,
				Interpretation: domain.Interpretation{
					Significance:   "Moderate 30-day mortality risk after STEMI.",
					MortalityRange: "7.3-12.4% 30-day mortality",
					Recommendations: []string{
						"Intensive monitoring after reperfusion",
					},
				},
			},
			{
				LowerBound: 7, Label: "High risk", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{
					Significance:   "High 30-day mortality risk after STEMI.",
					MortalityRange: "16.1-35.9% 30-day mortality",
					Recommendations: []string{
						"Critical care admission",
						"Early heart-team discussion",
					},
				},
			},
		},
	}
}
