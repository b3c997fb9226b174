package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
)

// computeBody is the request payload for compute, note and live endpoints.
// The calculator is addressed by the URL, never by the body. Sex is an
// optional convenience spelling; calculators read the "female" flag.
type computeBody struct {
	Values     []domain.ParameterValue `json:"values"`
	Flags      map[string]bool         `json:"flags"`
	Selections map[string]int          `json:"selections"`
	Sex        string                  `json:"sex"`
}

func (b *computeBody) request(calculatorID string) (*domain.ComputeRequest, error) {
	flags := b.Flags
	if b.Sex != "" {
		sex, err := domain.ParseSex(b.Sex)
		if err != nil {
			return nil, err
		}
		if flags == nil {
			flags = make(map[string]bool, 1)
		}
		flags["female"] = sex == domain.FEMALE
	}

	return &domain.ComputeRequest{
		CalculatorID: calculatorID,
		Values:       b.Values,
		Flags:        flags,
		Selections:   b.Selections,
	}, nil
}

// calculatorSummary is the discovery view: enough to render a picker
// without shipping full band tables.
type calculatorSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
}

func (s *Server) handleListCalculators(c *gin.Context) {
	calcs := s.registry.List()
	summaries := make([]calculatorSummary, 0, len(calcs))
	for _, calc := range calcs {
		summaries = append(summaries, calculatorSummary{
			ID:          calc.ID,
			Name:        calc.Name,
			Description: calc.Description,
			Kind:        calc.Kind.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"calculators": summaries})
}

func (s *Server) handleDescribeCalculator(c *gin.Context) {
	calc, err := s.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (s *Server) handleCompute(c *gin.Context) {
	result, outcome, ok := s.compute(c)
	if !ok {
		return
	}
	if outcome != nil && outcome.Blocked() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"issues": outcome.Issues})
		return
	}

	s.persist(c, result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleNote(c *gin.Context) {
	result, outcome, ok := s.compute(c)
	if !ok {
		return
	}
	if outcome != nil && outcome.Blocked() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"issues": outcome.Issues})
		return
	}

	s.persist(c, result)
	c.JSON(http.StatusOK, gin.H{
		"result_id": result.ID,
		"note":      engine.FormatNote(result),
	})
}

// compute parses the body and runs the engine. The third return value is
// false when a response was already written.
func (s *Server) compute(c *gin.Context) (*domain.CalculationResult, *domain.ValidationOutcome, bool) {
	var body computeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return nil, nil, false
	}

	req, err := body.request(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	result, outcome, err := s.engine.Compute(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCalculator) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return nil, nil, false
		}
		s.logger.WithError(err).Error("Computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "computation failed"})
		return nil, nil, false
	}

	return result, outcome, true
}

// persist saves the result to the audit trail. Persistence failures are
// logged but never fail the request that produced the score.
func (s *Server) persist(c *gin.Context, result *domain.CalculationResult) {
	if err := s.history.Save(c.Request.Context(), result); err != nil {
		s.logger.WithError(err).WithField("result_id", result.ID).Warn("Failed to persist result")
	}
}

func (s *Server) handleGetResult(c *gin.Context) {
	result, err := s.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.logger.WithError(err).Error("History lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListResults(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.registry.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	results, err := s.history.ListByCalculator(c.Request.Context(), id, limit)
	if err != nil {
		s.logger.WithError(err).Error("History listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history listing failed"})
		return
	}
	if results == nil {
		results = []*domain.CalculationResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
