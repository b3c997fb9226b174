// Package domain contains the core entities of the clinical scoring engine:
// parameter specifications, formula strategies, risk bands, interpretations
// and the immutable calculation result handed to callers.
//
// The engine follows the published definitions of each score (MELD per
// Kamath et al. 2001 and the UNOS/OPTN amendments, HEART per Six et al.
// 2008, CKD-EPI 2021 per Inker et al., and so on). Band tables are encoded
// as data, never as branching code.
package domain

import "fmt"

// FormulaKind selects the evaluation strategy for a calculator.
// Every calculator declares exactly one kind; the evaluator dispatches on it.
type FormulaKind string

const (
	// POINT_SUM sums pre-declared integer weights of selected criteria.
	POINT_SUM FormulaKind = "POINT_SUM"
	// CONTINUOUS evaluates a closed-form expression over normalized values.
	CONTINUOUS FormulaKind = "CONTINUOUS"
	// BOOLEAN evaluates a boolean predicate over binary features (CAM-ICU).
	BOOLEAN FormulaKind = "BOOLEAN"
	// LOOKUP maps a single input one-to-one onto a level (RASS).
	LOOKUP FormulaKind = "LOOKUP"
)

// IsValid validates the formula kind.
func (k FormulaKind) IsValid() bool {
	switch k {
	case POINT_SUM, CONTINUOUS, BOOLEAN, LOOKUP:
		return true
	default:
		return false
	}
}

// String returns the string representation of the formula kind.
func (k FormulaKind) String() string {
	return string(k)
}

// SeverityLevel is the ordered severity rank attached to a risk band.
// Higher ranks indicate more urgent clinical findings.
type SeverityLevel string

const (
	SEVERITY_NONE     SeverityLevel = "NONE"
	SEVERITY_LOW      SeverityLevel = "LOW"
	SEVERITY_MODERATE SeverityLevel = "MODERATE"
	SEVERITY_HIGH     SeverityLevel = "HIGH"
	SEVERITY_CRITICAL SeverityLevel = "CRITICAL"
)

// IsValid validates the severity level.
func (s SeverityLevel) IsValid() bool {
	switch s {
	case SEVERITY_NONE, SEVERITY_LOW, SEVERITY_MODERATE, SEVERITY_HIGH, SEVERITY_CRITICAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity level.
func (s SeverityLevel) String() string {
	return string(s)
}

// Rank returns the numeric ordering of the severity level, lowest first.
func (s SeverityLevel) Rank() int {
	switch s {
	case SEVERITY_NONE:
		return 0
	case SEVERITY_LOW:
		return 1
	case SEVERITY_MODERATE:
		return 2
	case SEVERITY_HIGH:
		return 3
	case SEVERITY_CRITICAL:
		return 4
	default:
		return -1
	}
}

// RequiresEscalation reports whether a result at this severity should be
// surfaced for clinical follow-up. Conservative for unknown levels.
func (s SeverityLevel) RequiresEscalation() bool {
	switch s {
	case SEVERITY_HIGH, SEVERITY_CRITICAL:
		return true
	case SEVERITY_NONE, SEVERITY_LOW, SEVERITY_MODERATE:
		return false
	default:
		return true
	}
}

// LogFields returns structured logging fields for audit trails.
func (s SeverityLevel) LogFields() map[string]any {
	return map[string]any{
		"severity":            string(s),
		"severity_rank":       s.Rank(),
		"requires_escalation": s.RequiresEscalation(),
	}
}

// RangePolicy decides how an out-of-range value is treated during
// validation. Safety-critical bounds are HARD; rare-but-plausible lab
// values are SOFT and only attach a warning.
type RangePolicy string

const (
	RANGE_HARD RangePolicy = "HARD"
	RANGE_SOFT RangePolicy = "SOFT"
)

// IsValid validates the range policy.
func (p RangePolicy) IsValid() bool {
	switch p {
	case RANGE_HARD, RANGE_SOFT:
		return true
	default:
		return false
	}
}

// IssueSeverity distinguishes blocking validation errors from warnings.
type IssueSeverity string

const (
	ISSUE_ERROR   IssueSeverity = "ERROR"
	ISSUE_WARNING IssueSeverity = "WARNING"
)

// IsValid validates the issue severity.
func (s IssueSeverity) IsValid() bool {
	switch s {
	case ISSUE_ERROR, ISSUE_WARNING:
		return true
	default:
		return false
	}
}

// Sex is the biological sex used by sex-specific formula coefficients.
type Sex string

const (
	MALE   Sex = "MALE"
	FEMALE Sex = "FEMALE"
)

// IsValid validates the sex value.
func (s Sex) IsValid() bool {
	switch s {
	case MALE, FEMALE:
		return true
	default:
		return false
	}
}

// ParseSex converts a free-form string ("m", "female", ...) into a Sex.
func ParseSex(raw string) (Sex, error) {
	switch raw {
	case "m", "M", "male", "MALE", "Male":
		return MALE, nil
	case "f", "F", "female", "FEMALE", "Female":
		return FEMALE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSex, raw)
	}
}
