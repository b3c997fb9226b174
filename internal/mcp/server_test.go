package mcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
	"github.com/clinscore-server/internal/history"
	"github.com/clinscore-server/internal/registry"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := testLogger()

	reg, err := registry.New(logger)
	require.NoError(t, err)

	return NewServer(logger, testMCPConfig(), engine.New(logger, reg), reg, history.NewNopStore())
}

func testMCPConfig() *domain.MCPConfig {
	return &domain.MCPConfig{
		ServerName:    "clinscore-server",
		ServerVersion: "v0.1.0",
		TransportType: "stdio",
	}
}

func TestListCalculatorsTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleListCalculators(context.Background(), nil, listCalculatorsInput{})
	require.NoError(t, err)
	require.Len(t, out.Calculators, 13)
	assert.Equal(t, "meld", out.Calculators[0].ID)
	assert.Equal(t, "MELD", out.Calculators[0].Name)
	assert.Equal(t, "CONTINUOUS", out.Calculators[0].Kind)
}

func TestDescribeCalculatorTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleDescribeCalculator(context.Background(), nil, describeCalculatorInput{
		CalculatorID: "cam-icu",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Calculator)
	assert.Equal(t, domain.BOOLEAN, out.Calculator.Kind)

	_, _, err = s.handleDescribeCalculator(context.Background(), nil, describeCalculatorInput{
		CalculatorID: "apgar",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCalculator)
}

func TestComputeScoreTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "bmi",
		Values: []parameterInput{
			{Name: "weight", Value: 80},
			{Name: "height", Value: 175},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Empty(t, out.Issues)
	assert.Equal(t, 26.1, out.Result.Score.Value)
	assert.Equal(t, "Overweight", out.Result.Band.Label)
}

func TestComputeScoreToolReportsIssues(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "bmi",
		Values:       []parameterInput{{Name: "weight", Value: 80}},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Result)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "height", out.Issues[0].Field)
}

func TestComputeScoreToolSexMapping(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "lean-body-weight",
		Sex:          "female",
		Values: []parameterInput{
			{Name: "weight", Value: 60},
			{Name: "height", Value: 160},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Equal(t, 42.5, out.Result.Score.Value)

	_, _, err = s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "lean-body-weight",
		Sex:          "x",
		Values: []parameterInput{
			{Name: "weight", Value: 60},
			{Name: "height", Value: 160},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSex)
}

func TestComputeScoreToolUnknownCalculator(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "apgar",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCalculator)
}

func TestFormatNoteTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleFormatNote(context.Background(), nil, computeScoreInput{
		CalculatorID: "rass",
		Values:       []parameterInput{{Name: "rass_level", Value: 2}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ResultID)
	assert.True(t, strings.HasPrefix(out.Note, "RASS:"), out.Note)
}

func TestGetResultTool(t *testing.T) {
	logger := testLogger()
	reg, err := registry.New(logger)
	require.NoError(t, err)

	store, err := history.NewSQLiteStore(t.TempDir()+"/history.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := NewServer(logger, testMCPConfig(), engine.New(logger, reg), reg, store)

	_, computed, err := s.handleComputeScore(context.Background(), nil, computeScoreInput{
		CalculatorID: "parkland",
		Values: []parameterInput{
			{Name: "weight", Value: 70},
			{Name: "burn_percent", Value: 20},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, computed.Result)

	_, fetched, err := s.handleGetResult(context.Background(), nil, getResultInput{
		ResultID: computed.Result.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, computed.Result.ID, fetched.Result.ID)
	assert.Equal(t, "5600 mL", fetched.Result.Score.Display)

	_, _, err = s.handleGetResult(context.Background(), nil, getResultInput{ResultID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
