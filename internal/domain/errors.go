package domain

import (
	"errors"
	"fmt"
)

// Error codes carried on validation issues and API error payloads.
const (
	CodeMissingParameter    = "MISSING_PARAMETER"
	CodeOutOfRange          = "OUT_OF_RANGE"
	CodeNotInteger          = "NOT_INTEGER"
	CodeUnknownParameter    = "UNKNOWN_PARAMETER"
	CodeUnknownUnit         = "UNKNOWN_UNIT"
	CodeUnknownSelection    = "UNKNOWN_SELECTION"
	CodeInvalidDomain       = "INVALID_DOMAIN"
	CodeUnclassifiableScore = "UNCLASSIFIABLE_SCORE"
	CodeUnknownCalculator   = "UNKNOWN_CALCULATOR"
)

// Sentinel errors for the scoring pipeline.
var (
	// ErrMissingParameter indicates a required field was not supplied.
	ErrMissingParameter = errors.New("required parameter missing")

	// ErrOutOfRange indicates a value violates its declared physiological range.
	ErrOutOfRange = errors.New("value out of physiological range")

	// ErrInvalidDomain guards undefined arithmetic (logarithm or division
	// argument non-positive after flooring). Unreachable given correct
	// floors, but fails loudly rather than producing NaN.
	ErrInvalidDomain = errors.New("formula argument outside valid domain")

	// ErrUnclassifiableScore indicates a gap in a band table. This is a
	// configuration defect, not a user error.
	ErrUnclassifiableScore = errors.New("score not covered by any risk band")

	// ErrUnknownCalculator indicates a lookup of an unregistered calculator.
	ErrUnknownCalculator = errors.New("unknown calculator")

	// ErrUnknownSelection indicates a point-sum selection that names no
	// declared criterion option.
	ErrUnknownSelection = errors.New("unknown criterion selection")

	// ErrInvalidSex indicates an unparseable sex value.
	ErrInvalidSex = errors.New("invalid sex")

	// ErrNotFound indicates a history record lookup with no match.
	ErrNotFound = errors.New("record not found")
)

// ValidationIssue is a field-localized validation finding. ERROR issues
// block computation; WARNING issues ride along on the result.
type ValidationIssue struct {
	Field    string        `json:"field"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Severity IssueSeverity `json:"severity"`
}

// Error implements the error interface.
func (i *ValidationIssue) Error() string {
	return fmt.Sprintf("%s: field %q: %s", i.Code, i.Field, i.Message)
}

// Blocking reports whether the issue prevents computation.
func (i *ValidationIssue) Blocking() bool {
	return i.Severity == ISSUE_ERROR
}

// ValidationOutcome aggregates every issue found for one compute request.
// Issues are collected, never short-circuited, so all field problems are
// reported at once.
type ValidationOutcome struct {
	Issues []ValidationIssue `json:"issues"`
}

// Blocked reports whether any blocking issue was found.
func (o *ValidationOutcome) Blocked() bool {
	for i := range o.Issues {
		if o.Issues[i].Blocking() {
			return true
		}
	}
	return false
}

// Errors returns only the blocking issues.
func (o *ValidationOutcome) Errors() []ValidationIssue {
	return o.filter(ISSUE_ERROR)
}

// Warnings returns only the non-blocking issues.
func (o *ValidationOutcome) Warnings() []ValidationIssue {
	return o.filter(ISSUE_WARNING)
}

func (o *ValidationOutcome) filter(sev IssueSeverity) []ValidationIssue {
	out := make([]ValidationIssue, 0, len(o.Issues))
	for _, issue := range o.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// AddError appends a blocking issue.
func (o *ValidationOutcome) AddError(field, code, message string) {
	o.Issues = append(o.Issues, ValidationIssue{
		Field: field, Code: code, Message: message, Severity: ISSUE_ERROR,
	})
}

// AddWarning appends a non-blocking issue.
func (o *ValidationOutcome) AddWarning(field, code, message string) {
	o.Issues = append(o.Issues, ValidationIssue{
		Field: field, Code: code, Message: message, Severity: ISSUE_WARNING,
	})
}
