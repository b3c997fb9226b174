package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestParameterSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ParameterSpec
		wantErr string
	}{
		{"valid", ParameterSpec{Name: "x", Min: 0, Max: 10}, ""},
		{"no name", ParameterSpec{Min: 0, Max: 10}, "name is required"},
		{"inverted range", ParameterSpec{Name: "x", Min: 10, Max: 0}, "exceeds max"},
		{"bad policy", ParameterSpec{Name: "x", Max: 10, Policy: "ADVISORY"}, "invalid range policy"},
		{"inverted clamps", ParameterSpec{Name: "x", Max: 10, Floor: fp(5), Cap: fp(1)}, "exceeds cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyBands(t *testing.T) {
	valid := []RiskBand{
		{LowerBound: 0, Label: "Low", Severity: SEVERITY_LOW},
		{LowerBound: 4, Label: "High", Severity: SEVERITY_HIGH},
	}
	assert.NoError(t, VerifyBands(valid))

	tests := []struct {
		name    string
		bands   []RiskBand
		wantErr string
	}{
		{"empty", nil, "empty"},
		{
			"unsorted",
			[]RiskBand{
				{LowerBound: 4, Label: "High", Severity: SEVERITY_HIGH},
				{LowerBound: 0, Label: "Low", Severity: SEVERITY_LOW},
			},
			"not sorted",
		},
		{
			"duplicate bound",
			[]RiskBand{
				{LowerBound: 0, Label: "A", Severity: SEVERITY_LOW},
				{LowerBound: 0, Label: "B", Severity: SEVERITY_HIGH},
			},
			"duplicate",
		},
		{
			"missing label",
			[]RiskBand{{LowerBound: 0, Severity: SEVERITY_LOW}},
			"no label",
		},
		{
			"bad severity",
			[]RiskBand{{LowerBound: 0, Label: "A", Severity: "EXTREME"}},
			"invalid severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, VerifyBands(tt.bands), tt.wantErr)
		})
	}
}

func TestCalculatorValidateKindRequirements(t *testing.T) {
	bands := []RiskBand{{LowerBound: 0, Label: "All", Severity: SEVERITY_NONE}}

	continuous := &Calculator{ID: "c", Kind: CONTINUOUS, Bands: bands}
	assert.ErrorContains(t, continuous.Validate(), "without evaluate func")

	boolean := &Calculator{ID: "b", Kind: BOOLEAN, Bands: bands}
	assert.ErrorContains(t, boolean.Validate(), "without predicate")

	pointSum := &Calculator{ID: "p", Kind: POINT_SUM, Bands: bands}
	assert.ErrorContains(t, pointSum.Validate(), "without criteria")

	lookup := &Calculator{
		ID: "l", Kind: LOOKUP, Bands: bands,
		Specs: []ParameterSpec{{Name: "level", Min: 0, Max: 4}},
	}
	assert.NoError(t, lookup.Validate())
}

func TestCriterionValidate(t *testing.T) {
	assert.ErrorContains(t, (&Criterion{Label: "X"}).Validate(), "id is required")
	assert.ErrorContains(t, (&Criterion{ID: "x"}).Validate(), "at least one option")
	assert.ErrorContains(t, (&Criterion{
		ID:      "x",
		Options: []CriterionOption{{Label: "Bad", Points: -1}},
	}).Validate(), "negative weight")
}

func TestParameterSetAccessors(t *testing.T) {
	params := NewParameterSet(
		map[string]float64{"a": 1.5},
		map[string]bool{"on": true},
		map[string]int{"crit": 2},
	)

	v, ok := params.Value("a")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = params.Value("missing")
	assert.False(t, ok)

	assert.True(t, params.Flag("on"))
	assert.False(t, params.Flag("off"))

	idx, ok := params.Selection("crit")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	params.SetValue("a", 4.0)
	assert.Equal(t, 4.0, params.MustValue("a"))
}

func TestParameterSetValuesReturnsCopy(t *testing.T) {
	params := NewParameterSet(map[string]float64{"a": 1}, nil, nil)

	snapshot := params.Values()
	snapshot["a"] = 99

	assert.Equal(t, 1.0, params.MustValue("a"))
}

func TestNewParameterSetAcceptsNilMaps(t *testing.T) {
	params := NewParameterSet(nil, nil, nil)
	require.NotNil(t, params)

	_, ok := params.Value("a")
	assert.False(t, ok)
	assert.False(t, params.Flag("x"))
}
