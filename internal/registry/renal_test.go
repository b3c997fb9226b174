package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinscore-server/internal/domain"
)

func TestCKDEPINormalFunctionReportedAsGreaterThan60(t *testing.T) {
	result := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 0.7),
			val("age", 40),
		),
		Flags: map[string]bool{"female": true},
	})

	// The canonical value is retained; only the report changes.
	assert.Equal(t, 112.0, result.Score.Value)
	assert.Equal(t, ">60", result.Score.Display)
	assert.Equal(t, "G1: Normal or high", result.Band.Label)
}

func TestCKDEPIMarkersDisableDisplayRule(t *testing.T) {
	result := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 0.7),
			val("age", 40),
		),
		Flags: map[string]bool{"female": true, "ckd_markers": true},
	})

	assert.Equal(t, "112", result.Score.Display)
}

func TestCKDEPIReducedFunction(t *testing.T) {
	result := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 4.0),
			val("age", 60),
		),
	})

	assert.Equal(t, 16.0, result.Score.Value)
	assert.Equal(t, "16", result.Score.Display)
	assert.Equal(t, "G4: Severely decreased", result.Band.Label)
	assert.Equal(t, domain.SEVERITY_HIGH, result.Interpretation.Severity)
}

func TestCKDEPISexSpecificCoefficients(t *testing.T) {
	male := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 1.2),
			val("age", 55),
		),
	})
	female := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 1.2),
			val("age", 55),
		),
		Flags: map[string]bool{"female": true},
	})

	// Identical labs classify lower for women at this creatinine.
	assert.Greater(t, male.Score.Value, female.Score.Value)
}

func TestCKDEPIRequiresAdultAge(t *testing.T) {
	outcome := computeBlocked(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 1.0),
			val("age", 12),
		),
	})

	errs := outcome.Errors()
	assert.Len(t, errs, 1)
	assert.Equal(t, "age", errs[0].Field)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
}

func TestCKDEPIAcceptsSICreatinine(t *testing.T) {
	conventional := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			val("creatinine", 2.0),
			val("age", 50),
		),
	})
	si := compute(t, &domain.ComputeRequest{
		CalculatorID: "ckd-epi",
		Values: values(
			valUnit("creatinine", 176.8, "µmol/L"),
			val("age", 50),
		),
	})

	assert.Equal(t, conventional.Score.Value, si.Score.Value)
}
