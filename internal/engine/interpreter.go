package engine

import (
	"fmt"
	"strings"

	"github.com/clinscore-server/internal/domain"
)

// Resolve produces the interpretation for a matched band. The narrative is
// a fixed template per band; a single %v slot, when present, is
// interpolated with the score's display form (MELD and GRACE narrate the
// raw score or mortality figure). The recommendation list is copied so the
// band table stays immutable.
func Resolve(band *domain.RiskBand, score *domain.ScoreResult) domain.Interpretation {
	interp := band.Interpretation
	interp.Severity = band.Severity

	if strings.Contains(interp.Significance, "%v") {
		interp.Significance = fmt.Sprintf(interp.Significance, score.Display)
	}

	if len(band.Interpretation.Recommendations) > 0 {
		interp.Recommendations = make([]string, len(band.Interpretation.Recommendations))
		copy(interp.Recommendations, band.Interpretation.Recommendations)
	}

	return interp
}
