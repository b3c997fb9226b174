package engine

import (
	"fmt"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/pkg/units"
)

// NormalizeValues converts every supplied value into its spec's canonical
// unit. Unknown parameter names and unsupported units become blocking
// issues; values already in the canonical unit pass through untouched.
// Clamping is not applied here; floors and caps belong to the evaluator.
func NormalizeValues(calc *domain.Calculator, values []domain.ParameterValue) (map[string]float64, []domain.ValidationIssue) {
	normalized := make(map[string]float64, len(values))
	var issues []domain.ValidationIssue

	for _, v := range values {
		spec, ok := calc.Spec(v.Name)
		if !ok {
			issues = append(issues, domain.ValidationIssue{
				Field:    v.Name,
				Code:     domain.CodeUnknownParameter,
				Message:  fmt.Sprintf("calculator %s declares no parameter %q", calc.ID, v.Name),
				Severity: domain.ISSUE_ERROR,
			})
			continue
		}

		if v.Unit == "" || v.Unit == spec.Unit {
			normalized[v.Name] = v.Value
			continue
		}

		kind, ok := units.KindOf(v.Name)
		if !ok || !units.Supported(kind, v.Unit) {
			issues = append(issues, domain.ValidationIssue{
				Field:    v.Name,
				Code:     domain.CodeUnknownUnit,
				Message:  fmt.Sprintf("unit %q is not supported for %s", v.Unit, v.Name),
				Severity: domain.ISSUE_ERROR,
			})
			continue
		}

		converted, err := units.ToCanonical(kind, v.Value, v.Unit)
		if err != nil {
			issues = append(issues, domain.ValidationIssue{
				Field:    v.Name,
				Code:     domain.CodeUnknownUnit,
				Message:  err.Error(),
				Severity: domain.ISSUE_ERROR,
			})
			continue
		}
		normalized[v.Name] = converted
	}

	return normalized, issues
}
