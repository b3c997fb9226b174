package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinscore-server/internal/domain"
)

// Compose assembles the immutable CalculationResult. No computation happens
// here, only aggregation plus identifier and timestamp.
func Compose(calc *domain.Calculator, score *domain.ScoreResult, band *domain.RiskBand,
	interp domain.Interpretation, warnings []domain.ValidationIssue) *domain.CalculationResult {
	return &domain.CalculationResult{
		ID:             uuid.NewString(),
		CalculatorID:   calc.ID,
		CalculatorName: calc.Name,
		Score:          *score,
		Band:           *band,
		Interpretation: interp,
		Warnings:       warnings,
		ComputedAt:     time.Now().UTC(),
	}
}
