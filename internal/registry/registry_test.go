package registry

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// compute runs a request through the full pipeline against the shipped
// registry and requires that validation did not block.
func compute(t *testing.T, req *domain.ComputeRequest) *domain.CalculationResult {
	t.Helper()

	reg, err := New(testLogger())
	require.NoError(t, err)

	result, outcome, err := engine.New(testLogger(), reg).Compute(context.Background(), req)
	require.NoError(t, err)
	require.Falsef(t, outcome.Blocked(), "validation blocked: %v", outcome.Errors())
	require.NotNil(t, result)
	return result
}

// computeBlocked runs a request expected to fail validation and returns
// the outcome for inspection.
func computeBlocked(t *testing.T, req *domain.ComputeRequest) *domain.ValidationOutcome {
	t.Helper()

	reg, err := New(testLogger())
	require.NoError(t, err)

	result, outcome, err := engine.New(testLogger(), reg).Compute(context.Background(), req)
	require.NoError(t, err)
	require.Nil(t, result)
	require.True(t, outcome.Blocked())
	return outcome
}

func values(pairs ...domain.ParameterValue) []domain.ParameterValue {
	return pairs
}

func val(name string, v float64) domain.ParameterValue {
	return domain.ParameterValue{Name: name, Value: v}
}

func valUnit(name string, v float64, unit string) domain.ParameterValue {
	return domain.ParameterValue{Name: name, Value: v, Unit: unit}
}

func TestNewRegistersAllCalculators(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, calc := range reg.List() {
		ids = append(ids, calc.ID)
	}
	assert.Equal(t, []string{
		"meld", "heart", "grace", "timi-ua-nstemi", "timi-stemi",
		"cam-icu", "rass", "anion-gap", "parkland", "ckd-epi",
		"bmi", "bsa-mosteller", "lean-body-weight",
	}, ids)
}

func TestGetUnknownCalculator(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	_, err = reg.Get("apgar")
	assert.ErrorIs(t, err, domain.ErrUnknownCalculator)
}

func TestEveryDefinitionValidates(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	for _, calc := range reg.List() {
		assert.NoErrorf(t, calc.Validate(), "calculator %s", calc.ID)
		assert.NoErrorf(t, domain.VerifyBands(calc.Bands), "calculator %s bands", calc.ID)
	}
}

func TestBandsCoverSampledScores(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	// Every score at or above the lowest bound must classify; a gap would
	// surface as ErrUnclassifiableScore.
	for _, calc := range reg.List() {
		lowest := calc.Bands[0].LowerBound
		for i := 0; i <= 400; i++ {
			score := lowest + float64(i)*0.5
			_, err := engine.Classify(score, calc.Bands)
			require.NoErrorf(t, err, "calculator %s score %v", calc.ID, score)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	req := &domain.ComputeRequest{
		CalculatorID: "meld",
		Values: values(
			val("bilirubin", 2.5),
			val("inr", 1.8),
			val("creatinine", 1.4),
		),
	}

	first := compute(t, req)
	for i := 0; i < 5; i++ {
		next := compute(t, req)
		assert.Equal(t, first.Score.Value, next.Score.Value)
		assert.Equal(t, first.Score.Display, next.Score.Display)
		assert.Equal(t, first.Band.Label, next.Band.Label)
	}
}
