package engine

import (
	"fmt"
	"strings"

	"github.com/clinscore-server/internal/domain"
)

// FormatNote renders a calculation as the plain-text structured note used
// for clipboard export: label, score, band and recommendation bullets.
// Formatting only; no computation happens here.
func FormatNote(result *domain.CalculationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s (%s)\n", result.CalculatorName, result.Score.Display, result.Band.Label)

	if result.Interpretation.Significance != "" {
		b.WriteString(result.Interpretation.Significance)
		b.WriteByte('\n')
	}
	if result.Interpretation.MortalityRange != "" {
		fmt.Fprintf(&b, "Estimated risk: %s\n", result.Interpretation.MortalityRange)
	}

	for _, rec := range result.Interpretation.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "! %s\n", w.Message)
	}

	return b.String()
}
