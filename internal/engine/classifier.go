package engine

import (
	"fmt"

	"github.com/clinscore-server/internal/domain"
)

// Classify maps a score onto its risk band. Bands are pre-sorted ascending
// by lower bound; the scan runs from the highest band down and returns the
// first whose inclusive lower bound does not exceed the score. A miss means
// the table itself is misconfigured, never a user error.
func Classify(score float64, bands []domain.RiskBand) (*domain.RiskBand, error) {
	for i := len(bands) - 1; i >= 0; i-- {
		if score >= bands[i].LowerBound {
			return &bands[i], nil
		}
	}
	return nil, fmt.Errorf("score %v below lowest band: %w", score, domain.ErrUnclassifiableScore)
}
