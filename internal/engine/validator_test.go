package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinscore-server/internal/domain"
)

func validatorCalc() *domain.Calculator {
	return &domain.Calculator{
		ID:   "validator-test",
		Name: "Validation fixture",
		Kind: domain.CONTINUOUS,
		Specs: []domain.ParameterSpec{
			{Name: "hard", Label: "Hard-bounded", Min: 0, Max: 10, Required: true, Policy: domain.RANGE_HARD},
			{Name: "soft", Label: "Soft-bounded", Min: 0, Max: 10, Required: true, Policy: domain.RANGE_SOFT},
			{Name: "extra", Label: "Extra", Min: 0, Max: 10, Required: false, Policy: domain.RANGE_HARD},
		},
		Conditions: []domain.RequirementRule{
			{WhenFlag: "need_extra", Equals: true, Require: "extra"},
		},
		Evaluate: func(p *domain.ParameterSet) (float64, map[string]float64, error) {
			return p.MustValue("hard") + p.MustValue("soft"), nil, nil
		},
		Bands: []domain.RiskBand{{LowerBound: 0, Label: "All", Severity: domain.SEVERITY_NONE}},
	}
}

func TestValidateMissingRequired(t *testing.T) {
	calc := validatorCalc()

	outcome := Validate(calc, map[string]float64{"hard": 5}, &domain.ComputeRequest{})

	require.True(t, outcome.Blocked())
	errs := outcome.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "soft", errs[0].Field)
	assert.Equal(t, domain.CodeMissingParameter, errs[0].Code)
}

func TestValidateIntegerParameters(t *testing.T) {
	calc := &domain.Calculator{
		ID:   "integer-test",
		Name: "Integer fixture",
		Kind: domain.LOOKUP,
		Specs: []domain.ParameterSpec{
			{Name: "level", Label: "Level", Min: -5, Max: 4, Required: true,
				Policy: domain.RANGE_HARD, Integer: true},
		},
		Bands: []domain.RiskBand{{LowerBound: -5, Label: "All", Severity: domain.SEVERITY_NONE}},
	}

	tests := []struct {
		name    string
		value   float64
		blocked bool
	}{
		{"whole number passes", 3, false},
		{"negative whole number passes", -4, false},
		{"fraction blocks", 2.5, true},
		{"negative fraction blocks", -0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Validate(calc, map[string]float64{"level": tt.value}, &domain.ComputeRequest{})
			if !tt.blocked {
				assert.False(t, outcome.Blocked())
				return
			}
			require.True(t, outcome.Blocked())
			errs := outcome.Errors()
			require.Len(t, errs, 1)
			assert.Equal(t, domain.CodeNotInteger, errs[0].Code)
		})
	}
}

func TestValidateRangePolicies(t *testing.T) {
	calc := validatorCalc()

	tests := []struct {
		name    string
		values  map[string]float64
		blocked bool
		warns   int
	}{
		{"both in range", map[string]float64{"hard": 5, "soft": 5}, false, 0},
		{"hard violation blocks", map[string]float64{"hard": 11, "soft": 5}, true, 0},
		{"soft violation warns", map[string]float64{"hard": 5, "soft": 11}, false, 1},
		{"boundaries are inclusive", map[string]float64{"hard": 10, "soft": 0}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Validate(calc, tt.values, &domain.ComputeRequest{})
			assert.Equal(t, tt.blocked, outcome.Blocked())
			assert.Len(t, outcome.Warnings(), tt.warns)
		})
	}
}

func TestValidateConditionalRequirement(t *testing.T) {
	calc := validatorCalc()
	values := map[string]float64{"hard": 5, "soft": 5}

	withoutFlag := Validate(calc, values, &domain.ComputeRequest{})
	assert.False(t, withoutFlag.Blocked())

	withFlag := Validate(calc, values, &domain.ComputeRequest{
		Flags: map[string]bool{"need_extra": true},
	})
	require.True(t, withFlag.Blocked())
	errs := withFlag.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "extra", errs[0].Field)

	satisfied := Validate(calc, map[string]float64{"hard": 5, "soft": 5, "extra": 1},
		&domain.ComputeRequest{Flags: map[string]bool{"need_extra": true}})
	assert.False(t, satisfied.Blocked())
}

func TestValidateCollectsEveryIssue(t *testing.T) {
	calc := validatorCalc()

	outcome := Validate(calc, map[string]float64{"hard": -1}, &domain.ComputeRequest{
		Flags: map[string]bool{"need_extra": true},
	})

	// Out-of-range hard, missing soft, missing conditional extra: all
	// reported in one pass.
	assert.Len(t, outcome.Errors(), 3)
}

func pointSumCalc() *domain.Calculator {
	return &domain.Calculator{
		ID:   "point-sum-test",
		Name: "Point-sum fixture",
		Kind: domain.POINT_SUM,
		Criteria: []domain.Criterion{
			{ID: "first", Label: "First", Options: []domain.CriterionOption{
				{Label: "No", Points: 0}, {Label: "Yes", Points: 2},
			}},
			{ID: "second", Label: "Second", Options: []domain.CriterionOption{
				{Label: "No", Points: 0}, {Label: "Yes", Points: 3},
			}},
		},
		Bands: []domain.RiskBand{{LowerBound: 0, Label: "All", Severity: domain.SEVERITY_NONE}},
	}
}

func TestValidateSelections(t *testing.T) {
	calc := pointSumCalc()

	tests := []struct {
		name       string
		selections map[string]int
		field      string
		code       string
	}{
		{"missing criterion", map[string]int{"first": 1}, "second", domain.CodeMissingParameter},
		{"index out of range", map[string]int{"first": 1, "second": 5}, "second", domain.CodeUnknownSelection},
		{"negative index", map[string]int{"first": -1, "second": 0}, "first", domain.CodeUnknownSelection},
		{"unknown criterion", map[string]int{"first": 0, "second": 0, "third": 1}, "third", domain.CodeUnknownSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Validate(calc, nil, &domain.ComputeRequest{Selections: tt.selections})
			require.True(t, outcome.Blocked())
			errs := outcome.Errors()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}

	complete := Validate(calc, nil, &domain.ComputeRequest{
		Selections: map[string]int{"first": 1, "second": 0},
	})
	assert.False(t, complete.Blocked())
}
