package engine

import (
	"fmt"
	"math"

	"github.com/clinscore-server/internal/domain"
)

// Validate checks normalized inputs against the calculator declaration:
// required parameters, conditional requirements, physiological ranges and
// point-sum selections. Issues are collected rather than short-circuited so
// every field problem is reported at once. Pure function, no side effects.
func Validate(calc *domain.Calculator, normalized map[string]float64, req *domain.ComputeRequest) *domain.ValidationOutcome {
	outcome := &domain.ValidationOutcome{}

	for i := range calc.Specs {
		spec := &calc.Specs[i]
		value, present := normalized[spec.Name]

		if !present {
			if spec.Required {
				outcome.AddError(spec.Name, domain.CodeMissingParameter,
					fmt.Sprintf("%s is required", spec.Label))
			}
			continue
		}

		if spec.Integer && value != math.Trunc(value) {
			outcome.AddError(spec.Name, domain.CodeNotInteger,
				fmt.Sprintf("%s must be a whole number", spec.Label))
			continue
		}

		checkRange(outcome, spec, value)
	}

	// Conditional requirements run after per-field checks: a parameter
	// becomes required only when its governing toggle matches.
	for _, rule := range calc.Conditions {
		if req.Flags[rule.WhenFlag] != rule.Equals {
			continue
		}
		if _, present := normalized[rule.Require]; !present {
			label := rule.Require
			if spec, ok := calc.Spec(rule.Require); ok {
				label = spec.Label
			}
			outcome.AddError(rule.Require, domain.CodeMissingParameter,
				fmt.Sprintf("%s is required when %s is enabled", label, rule.WhenFlag))
		}
	}

	if calc.Kind == domain.POINT_SUM {
		validateSelections(outcome, calc, req.Selections)
	}

	return outcome
}

// checkRange applies the parameter's range policy: HARD bounds block, SOFT
// bounds attach a warning and let computation proceed.
func checkRange(outcome *domain.ValidationOutcome, spec *domain.ParameterSpec, value float64) {
	if value >= spec.Min && value <= spec.Max {
		return
	}

	msg := fmt.Sprintf("%s %v %s is outside the expected range %v-%v",
		spec.Label, value, spec.Unit, spec.Min, spec.Max)

	if spec.Policy == domain.RANGE_SOFT {
		outcome.AddWarning(spec.Name, domain.CodeOutOfRange, msg+" - verify the entry")
		return
	}
	outcome.AddError(spec.Name, domain.CodeOutOfRange, msg)
}

func validateSelections(outcome *domain.ValidationOutcome, calc *domain.Calculator, selections map[string]int) {
	for i := range calc.Criteria {
		crit := &calc.Criteria[i]
		idx, ok := selections[crit.ID]
		if !ok {
			outcome.AddError(crit.ID, domain.CodeMissingParameter,
				fmt.Sprintf("a selection for %s is required", crit.Label))
			continue
		}
		if idx < 0 || idx >= len(crit.Options) {
			outcome.AddError(crit.ID, domain.CodeUnknownSelection,
				fmt.Sprintf("%s has no option %d", crit.Label, idx))
		}
	}

	for id := range selections {
		if !hasCriterion(calc, id) {
			outcome.AddError(id, domain.CodeUnknownSelection,
				fmt.Sprintf("calculator %s declares no criterion %q", calc.ID, id))
		}
	}
}

func hasCriterion(calc *domain.Calculator, id string) bool {
	for i := range calc.Criteria {
		if calc.Criteria[i].ID == id {
			return true
		}
	}
	return false
}
