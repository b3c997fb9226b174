package engine

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinscore-server/internal/domain"
)

type stubSource struct {
	calc *domain.Calculator
}

func (s *stubSource) Get(id string) (*domain.Calculator, error) {
	if s.calc != nil && s.calc.ID == id {
		return s.calc, nil
	}
	return nil, domain.ErrUnknownCalculator
}

type memoryCache struct {
	entries map[string]*domain.CalculationResult
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*domain.CalculationResult{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (*domain.CalculationResult, bool) {
	result, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return result, ok
}

func (c *memoryCache) Put(_ context.Context, key string, result *domain.CalculationResult) {
	c.entries[key] = result
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sumCalc() *domain.Calculator {
	return &domain.Calculator{
		ID:        "sum",
		Name:      "Sum",
		Kind:      domain.CONTINUOUS,
		Precision: 0,
		Specs: []domain.ParameterSpec{
			{Name: "a", Label: "A", Min: 0, Max: 10, Required: true, Policy: domain.RANGE_HARD},
			{Name: "b", Label: "B", Min: 0, Max: 10, Required: true, Policy: domain.RANGE_SOFT},
		},
		Evaluate: func(p *domain.ParameterSet) (float64, map[string]float64, error) {
			return p.MustValue("a") + p.MustValue("b"), nil, nil
		},
		Bands: []domain.RiskBand{
			{LowerBound: 0, Label: "Low", Severity: domain.SEVERITY_LOW,
				Interpretation: domain.Interpretation{Significance: "Sum %v is low."}},
			{LowerBound: 10, Label: "High", Severity: domain.SEVERITY_HIGH,
				Interpretation: domain.Interpretation{Significance: "Sum %v is high."}},
		},
	}
}

func sumRequest(a, b float64) *domain.ComputeRequest {
	return &domain.ComputeRequest{
		CalculatorID: "sum",
		Values: []domain.ParameterValue{
			{Name: "a", Value: a},
			{Name: "b", Value: b},
		},
	}
}

func TestComputeHappyPath(t *testing.T) {
	eng := New(testLogger(), &stubSource{calc: sumCalc()})

	result, outcome, err := eng.Compute(context.Background(), sumRequest(4, 7))

	require.NoError(t, err)
	assert.False(t, outcome.Blocked())
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "sum", result.CalculatorID)
	assert.Equal(t, 11.0, result.Score.Value)
	assert.Equal(t, "High", result.Band.Label)
	assert.Equal(t, "Sum 11 is high.", result.Interpretation.Significance)
	assert.False(t, result.ComputedAt.IsZero())
}

func TestComputeUsesSelectedBands(t *testing.T) {
	calc := sumCalc()
	shifted := []domain.RiskBand{
		{LowerBound: 0, Label: "Low", Severity: domain.SEVERITY_LOW,
			Interpretation: domain.Interpretation{Significance: "Sum %v is low."}},
		{LowerBound: 15, Label: "High", Severity: domain.SEVERITY_HIGH,
			Interpretation: domain.Interpretation{Significance: "Sum %v is high."}},
	}
	calc.SelectBands = func(p *domain.ParameterSet) []domain.RiskBand {
		if p.Flag("shifted") {
			return shifted
		}
		return calc.Bands
	}
	eng := New(testLogger(), &stubSource{calc: calc})

	req := sumRequest(4, 7)
	req.Flags = map[string]bool{"shifted": true}
	result, _, err := eng.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Low", result.Band.Label)

	result, _, err = eng.Compute(context.Background(), sumRequest(4, 7))
	require.NoError(t, err)
	assert.Equal(t, "High", result.Band.Label)
}

func TestComputeBlockedValidation(t *testing.T) {
	eng := New(testLogger(), &stubSource{calc: sumCalc()})

	result, outcome, err := eng.Compute(context.Background(), sumRequest(15, 5))

	require.NoError(t, err)
	assert.Nil(t, result)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Blocked())
}

func TestComputeWarningsRideAlong(t *testing.T) {
	eng := New(testLogger(), &stubSource{calc: sumCalc()})

	result, outcome, err := eng.Compute(context.Background(), sumRequest(5, 15))

	require.NoError(t, err)
	assert.False(t, outcome.Blocked())
	require.NotNil(t, result)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "b", result.Warnings[0].Field)
}

func TestComputeUnknownCalculator(t *testing.T) {
	eng := New(testLogger(), &stubSource{})

	_, _, err := eng.Compute(context.Background(), &domain.ComputeRequest{CalculatorID: "missing"})
	assert.ErrorIs(t, err, domain.ErrUnknownCalculator)
}

func TestComputeUsesCache(t *testing.T) {
	cache := newMemoryCache()
	eng := New(testLogger(), &stubSource{calc: sumCalc()}, WithCache(cache))

	first, _, err := eng.Compute(context.Background(), sumRequest(4, 7))
	require.NoError(t, err)

	second, _, err := eng.Compute(context.Background(), sumRequest(4, 7))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.ID, second.ID)
}

func TestRequestKeyIgnoresInputOrder(t *testing.T) {
	a := &domain.ComputeRequest{
		CalculatorID: "sum",
		Values: []domain.ParameterValue{
			{Name: "a", Value: 1},
			{Name: "b", Value: 2},
		},
		Flags:      map[string]bool{"x": true, "y": false},
		Selections: map[string]int{"p": 1, "q": 2},
	}
	b := &domain.ComputeRequest{
		CalculatorID: "sum",
		Values: []domain.ParameterValue{
			{Name: "b", Value: 2},
			{Name: "a", Value: 1},
		},
		Flags:      map[string]bool{"y": false, "x": true},
		Selections: map[string]int{"q": 2, "p": 1},
	}

	assert.Equal(t, RequestKey(a), RequestKey(b))
}

func TestRequestKeyDistinguishesRequests(t *testing.T) {
	base := sumRequest(1, 2)

	distinct := []*domain.ComputeRequest{
		sumRequest(1, 3),
		{CalculatorID: "other", Values: base.Values},
		{CalculatorID: "sum", Values: base.Values, Flags: map[string]bool{"x": true}},
		{CalculatorID: "sum", Values: []domain.ParameterValue{
			{Name: "a", Value: 1, Unit: "mg/dL"},
			{Name: "b", Value: 2},
		}},
	}

	seen := map[string]bool{RequestKey(base): true}
	for i, req := range distinct {
		key := RequestKey(req)
		assert.Falsef(t, seen[key], "request %d collided", i)
		seen[key] = true
	}
}
