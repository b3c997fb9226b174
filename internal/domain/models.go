package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ParameterSpec declares one named clinical input of a calculator: its
// canonical unit, physiological range, requiredness and the floor/cap the
// evaluator substitutes before the value enters a formula. Specs are
// immutable and defined once per calculator.
type ParameterSpec struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Unit     string      `json:"unit,omitempty"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	Required bool        `json:"required"`
	Policy   RangePolicy `json:"range_policy"`

	// Integer rejects fractional values outright. Used for ordinal scales
	// (RASS levels) where rounding would silently shift the assessment.
	Integer bool `json:"integer,omitempty"`

	// Floor and Cap are formula clamps (e.g. MELD creatinine >= 1.0),
	// independent of the validation range. Nil means no clamp.
	Floor *float64 `json:"floor,omitempty"`
	Cap   *float64 `json:"cap,omitempty"`
}

// Validate ensures the spec is internally consistent.
func (s *ParameterSpec) Validate() error {
	if s.Name == "" {
		return errors.New("parameter spec: name is required")
	}
	if s.Min > s.Max {
		return fmt.Errorf("parameter spec %q: min %v exceeds max %v", s.Name, s.Min, s.Max)
	}
	if s.Policy != "" && !s.Policy.IsValid() {
		return fmt.Errorf("parameter spec %q: invalid range policy %q", s.Name, s.Policy)
	}
	if s.Floor != nil && s.Cap != nil && *s.Floor > *s.Cap {
		return fmt.Errorf("parameter spec %q: floor %v exceeds cap %v", s.Name, *s.Floor, *s.Cap)
	}
	return nil
}

// ParameterValue is one raw numeric input as entered, with the unit it was
// entered in. It is not trusted until it passes validation.
type ParameterValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// CriterionOption is one discrete choice of a point-sum criterion with its
// fixed, non-negative weight.
type CriterionOption struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Criterion is one discrete clinical criterion of a point-sum calculator.
// The caller selects exactly one option per criterion.
type Criterion struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Options []CriterionOption `json:"options"`
}

// Validate ensures the criterion declares at least one non-negative option.
func (c *Criterion) Validate() error {
	if c.ID == "" {
		return errors.New("criterion: id is required")
	}
	if len(c.Options) == 0 {
		return fmt.Errorf("criterion %q: at least one option is required", c.ID)
	}
	for _, opt := range c.Options {
		if opt.Points < 0 {
			return fmt.Errorf("criterion %q: option %q has negative weight", c.ID, opt.Label)
		}
	}
	return nil
}

// RequirementRule makes a parameter required only when a boolean toggle is
// set, e.g. sodium is required only when the MELD-Na variant is enabled.
// Rules are evaluated generically after per-field checks.
type RequirementRule struct {
	WhenFlag string `json:"when_flag"`
	Equals   bool   `json:"equals"`
	Require  string `json:"require"`
}

// ParameterSet is the validated, unit-normalized input view a formula
// evaluates over. It is constructed fresh per computation and never shared.
type ParameterSet struct {
	values     map[string]float64
	flags      map[string]bool
	selections map[string]int
}

// NewParameterSet builds a parameter set from normalized values, toggles
// and point-sum option selections. Nil maps are treated as empty.
func NewParameterSet(values map[string]float64, flags map[string]bool, selections map[string]int) *ParameterSet {
	if values == nil {
		values = map[string]float64{}
	}
	if flags == nil {
		flags = map[string]bool{}
	}
	if selections == nil {
		selections = map[string]int{}
	}
	return &ParameterSet{values: values, flags: flags, selections: selections}
}

// Value returns the normalized value of a parameter and whether it was supplied.
func (p *ParameterSet) Value(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}

// MustValue returns the value of a parameter that validation guarantees present.
func (p *ParameterSet) MustValue(name string) float64 {
	return p.values[name]
}

// Flag returns a boolean toggle, false when absent.
func (p *ParameterSet) Flag(name string) bool {
	return p.flags[name]
}

// Selection returns the selected option index of a point-sum criterion.
func (p *ParameterSet) Selection(id string) (int, bool) {
	idx, ok := p.selections[id]
	return idx, ok
}

// SetValue overwrites a value in place. Used by the evaluator to apply
// floors and caps after normalization.
func (p *ParameterSet) SetValue(name string, v float64) {
	p.values[name] = v
}

// Values returns a copy of the normalized values for result assembly.
func (p *ParameterSet) Values() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// EvaluateFunc is a closed-form continuous formula over a validated,
// normalized, clamped parameter set. It returns the score and any named
// sub-scores (e.g. MELD-Na alongside base MELD).
type EvaluateFunc func(params *ParameterSet) (value float64, components map[string]float64, err error)

// PredicateFunc is the boolean strategy: it reduces binary features to a
// present/absent outcome (CAM-ICU delirium logic).
type PredicateFunc func(params *ParameterSet) (bool, error)

// DisplayFunc optionally overrides how a score is reported without
// changing the retained numeric value (CKD-EPI ">60" rule).
type DisplayFunc func(value float64, params *ParameterSet) string

// SelectBandsFunc optionally picks the band table for a computation when a
// toggle shifts the reference range (potassium-inclusive anion gap). Nil
// means the calculator's static Bands are always used.
type SelectBandsFunc func(params *ParameterSet) []RiskBand

// Calculator is a plain data declaration of one clinical score: parameter
// specs, conditional-requirement rules, the formula variant, the band table
// and per-band interpretations. Calculators carry no mutable state.
type Calculator struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Kind        FormulaKind `json:"kind"`

	Specs      []ParameterSpec   `json:"specs,omitempty"`
	Flags      []string          `json:"flags,omitempty"`
	Criteria   []Criterion       `json:"criteria,omitempty"`
	Conditions []RequirementRule `json:"conditions,omitempty"`

	Evaluate    EvaluateFunc    `json:"-"`
	Predicate   PredicateFunc   `json:"-"`
	Display     DisplayFunc     `json:"-"`
	SelectBands SelectBandsFunc `json:"-"`

	// Precision is the number of decimals the score is rounded to.
	// Zero means integer scores.
	Precision int `json:"precision"`

	Bands []RiskBand `json:"bands"`
}

// Spec returns the parameter spec with the given name, if declared.
func (c *Calculator) Spec(name string) (*ParameterSpec, bool) {
	for i := range c.Specs {
		if c.Specs[i].Name == name {
			return &c.Specs[i], true
		}
	}
	return nil, false
}

// Validate checks the calculator declaration for configuration defects.
func (c *Calculator) Validate() error {
	if c.ID == "" {
		return errors.New("calculator: id is required")
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("calculator %q: invalid formula kind %q", c.ID, c.Kind)
	}
	for i := range c.Specs {
		if err := c.Specs[i].Validate(); err != nil {
			return fmt.Errorf("calculator %q: %w", c.ID, err)
		}
	}
	for i := range c.Criteria {
		if err := c.Criteria[i].Validate(); err != nil {
			return fmt.Errorf("calculator %q: %w", c.ID, err)
		}
	}
	switch c.Kind {
	case CONTINUOUS:
		if c.Evaluate == nil {
			return fmt.Errorf("calculator %q: continuous formula without evaluate func", c.ID)
		}
	case BOOLEAN:
		if c.Predicate == nil {
			return fmt.Errorf("calculator %q: boolean formula without predicate", c.ID)
		}
	case POINT_SUM:
		if len(c.Criteria) == 0 {
			return fmt.Errorf("calculator %q: point-sum formula without criteria", c.ID)
		}
	}
	if err := VerifyBands(c.Bands); err != nil {
		return fmt.Errorf("calculator %q: %w", c.ID, err)
	}
	return nil
}

// RiskBand is one named interval of score values. LowerBound is inclusive;
// the band extends up to the next band's lower bound.
type RiskBand struct {
	LowerBound     float64        `json:"lower_bound"`
	Label          string         `json:"label"`
	Severity       SeverityLevel  `json:"severity"`
	Interpretation Interpretation `json:"interpretation"`
}

// Interpretation is the structured narrative attached to a risk band.
// Significance may carry one %v slot the resolver interpolates with the
// raw score or a mortality figure.
type Interpretation struct {
	Severity        SeverityLevel `json:"severity"`
	Significance    string        `json:"significance"`
	Recommendations []string      `json:"recommendations,omitempty"`
	MortalityRange  string        `json:"mortality_range,omitempty"`
}

// VerifyBands checks the band-table invariant: at least one band, sorted
// ascending by lower bound, no duplicate bounds, valid severities. Gaps are
// impossible by construction because each band extends to the next bound.
func VerifyBands(bands []RiskBand) error {
	if len(bands) == 0 {
		return errors.New("band table is empty")
	}
	if !sort.SliceIsSorted(bands, func(i, j int) bool {
		return bands[i].LowerBound < bands[j].LowerBound
	}) {
		return errors.New("band table is not sorted by lower bound")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].LowerBound == bands[i-1].LowerBound {
			return fmt.Errorf("duplicate band lower bound %v", bands[i].LowerBound)
		}
	}
	for i := range bands {
		if bands[i].Label == "" {
			return fmt.Errorf("band at %v has no label", bands[i].LowerBound)
		}
		if !bands[i].Severity.IsValid() {
			return fmt.Errorf("band %q has invalid severity %q", bands[i].Label, bands[i].Severity)
		}
	}
	return nil
}

// ScoreResult is the outcome of one formula evaluation. Produced once per
// computation and never mutated.
type ScoreResult struct {
	Value      float64            `json:"value"`
	Display    string             `json:"display"`
	Kind       FormulaKind        `json:"kind"`
	Components map[string]float64 `json:"components,omitempty"`
	Inputs     []ParameterValue   `json:"inputs,omitempty"`
}

// CalculationResult is the sole externally visible artifact of a compute
// call: score, matched band, interpretation, warnings and timestamp.
// Lifecycle is create-once/read-only.
type CalculationResult struct {
	ID             string            `json:"id"`
	CalculatorID   string            `json:"calculator_id"`
	CalculatorName string            `json:"calculator_name"`
	Score          ScoreResult       `json:"score"`
	Band           RiskBand          `json:"band"`
	Interpretation Interpretation    `json:"interpretation"`
	Warnings       []ValidationIssue `json:"warnings,omitempty"`
	ComputedAt     time.Time         `json:"computed_at"`
}

// ComputeRequest carries the raw field values, unit selections, boolean
// toggles and criterion selections collected by the input layer.
type ComputeRequest struct {
	CalculatorID string           `json:"calculator_id"`
	Values       []ParameterValue `json:"values,omitempty"`
	Flags        map[string]bool  `json:"flags,omitempty"`
	Selections   map[string]int   `json:"selections,omitempty"`
}
