// Package mcp exposes the scoring engine to AI agents over the Model
// Context Protocol. Tools mirror the REST surface: discovery, calculator
// description, score computation and note formatting.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
	"github.com/clinscore-server/internal/registry"
)

// Server wraps the MCP SDK server around the scoring engine.
type Server struct {
	logger    *logrus.Logger
	config    *domain.MCPConfig
	engine    *engine.Engine
	registry  *registry.Registry
	history   domain.HistoryStore
	mcpServer *sdkmcp.Server
}

// NewServer creates an MCP server and registers the scoring tools.
func NewServer(logger *logrus.Logger, cfg *domain.MCPConfig, eng *engine.Engine, reg *registry.Registry, store domain.HistoryStore) *Server {
	s := &Server{
		logger:   logger,
		config:   cfg,
		engine:   eng,
		registry: reg,
		history:  store,
	}
	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: cfg.ServerName, Version: cfg.ServerVersion},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP until the context is cancelled. Stdio is the only
// supported transport; anything else falls back with a warning.
func (s *Server) Run(ctx context.Context) error {
	if s.config.TransportType != "stdio" {
		s.logger.WithField("transport_type", s.config.TransportType).
			Warn("Unsupported transport, falling back to stdio")
	}
	s.logger.WithField("server_name", s.config.ServerName).Info("Starting MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "list_calculators",
		Description: "List the available clinical score calculators with their IDs and descriptions.",
	}, s.handleListCalculators)

	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "describe_calculator",
		Description: "Describe one calculator: required parameters with units and ranges, flags, criteria options and risk bands.",
	}, s.handleDescribeCalculator)

	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "compute_score",
		Description: "Compute a clinical score. Returns the classified result, or field-level validation issues when inputs are incomplete or out of range.",
	}, s.handleComputeScore)

	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "format_note",
		Description: "Compute a clinical score and render it as a plain-text note suitable for clinical documentation.",
	}, s.handleFormatNote)

	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "get_result",
		Description: "Fetch a previously computed result from the history by its ID.",
	}, s.handleGetResult)
}

// --- Tool input/output types ---

type listCalculatorsInput struct{}

type calculatorInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
}

type listCalculatorsOutput struct {
	Calculators []calculatorInfo `json:"calculators"`
}

type describeCalculatorInput struct {
	CalculatorID string `json:"calculator_id" jsonschema:"calculator ID from list_calculators"`
}

type describeCalculatorOutput struct {
	Calculator *domain.Calculator `json:"calculator"`
}

type parameterInput struct {
	Name  string  `json:"name" jsonschema:"parameter name from describe_calculator"`
	Value float64 `json:"value" jsonschema:"measured value"`
	Unit  string  `json:"unit,omitempty" jsonschema:"unit of the value; omit to use the calculator's canonical unit"`
}

type computeScoreInput struct {
	CalculatorID string           `json:"calculator_id" jsonschema:"calculator ID from list_calculators"`
	Values       []parameterInput `json:"values,omitempty" jsonschema:"numeric parameters"`
	Flags        map[string]bool  `json:"flags,omitempty" jsonschema:"boolean feature flags"`
	Selections   map[string]int   `json:"selections,omitempty" jsonschema:"criterion option indexes, keyed by criterion ID"`
	Sex          string           `json:"sex,omitempty" jsonschema:"patient sex (m/f) for sex-dependent calculators"`
}

type computeScoreOutput struct {
	Result *domain.CalculationResult `json:"result,omitempty"`
	Issues []domain.ValidationIssue  `json:"issues,omitempty"`
}

type formatNoteOutput struct {
	ResultID string                   `json:"result_id,omitempty"`
	Note     string                   `json:"note,omitempty"`
	Issues   []domain.ValidationIssue `json:"issues,omitempty"`
}

type getResultInput struct {
	ResultID string `json:"result_id" jsonschema:"result ID returned by compute_score"`
}

type getResultOutput struct {
	Result *domain.CalculationResult `json:"result"`
}

// --- Tool handlers ---

func (s *Server) handleListCalculators(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listCalculatorsInput) (*sdkmcp.CallToolResult, listCalculatorsOutput, error) {
	calcs := s.registry.List()
	out := listCalculatorsOutput{Calculators: make([]calculatorInfo, 0, len(calcs))}
	for _, calc := range calcs {
		out.Calculators = append(out.Calculators, calculatorInfo{
			ID:          calc.ID,
			Name:        calc.Name,
			Description: calc.Description,
			Kind:        string(calc.Kind),
		})
	}
	return nil, out, nil
}

func (s *Server) handleDescribeCalculator(ctx context.Context, _ *sdkmcp.CallToolRequest, input describeCalculatorInput) (*sdkmcp.CallToolResult, describeCalculatorOutput, error) {
	calc, err := s.registry.Get(input.CalculatorID)
	if err != nil {
		return nil, describeCalculatorOutput{}, err
	}
	return nil, describeCalculatorOutput{Calculator: calc}, nil
}

func (s *Server) handleComputeScore(ctx context.Context, _ *sdkmcp.CallToolRequest, input computeScoreInput) (*sdkmcp.CallToolResult, computeScoreOutput, error) {
	result, outcome, err := s.compute(ctx, input)
	if err != nil {
		return nil, computeScoreOutput{}, err
	}
	if result == nil {
		return nil, computeScoreOutput{Issues: outcome.Issues}, nil
	}
	return nil, computeScoreOutput{Result: result}, nil
}

func (s *Server) handleFormatNote(ctx context.Context, _ *sdkmcp.CallToolRequest, input computeScoreInput) (*sdkmcp.CallToolResult, formatNoteOutput, error) {
	result, outcome, err := s.compute(ctx, input)
	if err != nil {
		return nil, formatNoteOutput{}, err
	}
	if result == nil {
		return nil, formatNoteOutput{Issues: outcome.Issues}, nil
	}
	return nil, formatNoteOutput{ResultID: result.ID, Note: engine.FormatNote(result)}, nil
}

func (s *Server) handleGetResult(ctx context.Context, _ *sdkmcp.CallToolRequest, input getResultInput) (*sdkmcp.CallToolResult, getResultOutput, error) {
	result, err := s.history.Get(ctx, input.ResultID)
	if err != nil {
		return nil, getResultOutput{}, err
	}
	return nil, getResultOutput{Result: result}, nil
}

// compute runs the engine for a tool call and persists successful results so
// get_result can retrieve them later.
func (s *Server) compute(ctx context.Context, input computeScoreInput) (*domain.CalculationResult, *domain.ValidationOutcome, error) {
	values := make([]domain.ParameterValue, 0, len(input.Values))
	for _, v := range input.Values {
		values = append(values, domain.ParameterValue{Name: v.Name, Value: v.Value, Unit: v.Unit})
	}

	flags := input.Flags
	if input.Sex != "" {
		sex, err := domain.ParseSex(input.Sex)
		if err != nil {
			return nil, nil, err
		}
		if flags == nil {
			flags = make(map[string]bool, 1)
		}
		flags["female"] = sex == domain.FEMALE
	}

	req := &domain.ComputeRequest{
		CalculatorID: input.CalculatorID,
		Values:       values,
		Flags:        flags,
		Selections:   input.Selections,
	}

	result, outcome, err := s.engine.Compute(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, outcome, nil
	}

	if err := s.history.Save(ctx, result); err != nil {
		s.logger.WithError(err).WithField("result_id", result.ID).Warn("Failed to persist result")
	}
	return result, outcome, nil
}
