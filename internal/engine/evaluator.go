package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/clinscore-server/internal/domain"
)

// EvaluateScore runs the calculator's formula strategy over a validated
// parameter set. Floors and caps declared on the specs are applied first,
// after normalization, so formulas see clamped values. The computation is
// total: it either returns a finite score or a typed error.
func EvaluateScore(calc *domain.Calculator, params *domain.ParameterSet) (*domain.ScoreResult, error) {
	applyClamps(calc, params)

	var (
		value      float64
		components map[string]float64
		err        error
	)

	switch calc.Kind {
	case domain.CONTINUOUS:
		value, components, err = calc.Evaluate(params)
	case domain.POINT_SUM:
		value, components, err = sumCriteria(calc, params)
	case domain.BOOLEAN:
		var present bool
		present, err = calc.Predicate(params)
		if present {
			value = 1
		}
	case domain.LOOKUP:
		value, err = lookupValue(calc, params)
	default:
		err = fmt.Errorf("calculator %s: unsupported formula kind %s", calc.ID, calc.Kind)
	}
	if err != nil {
		return nil, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("calculator %s produced %v: %w", calc.ID, value, domain.ErrInvalidDomain)
	}

	value = roundTo(value, calc.Precision)

	display := formatScore(value, calc.Precision)
	if calc.Display != nil {
		display = calc.Display(value, params)
	}

	return &domain.ScoreResult{
		Value:      value,
		Display:    display,
		Kind:       calc.Kind,
		Components: components,
		Inputs:     snapshotInputs(calc, params),
	}, nil
}

// applyClamps substitutes declared floors and caps for supplied values.
// These are formula clamps, independent of the validation range.
func applyClamps(calc *domain.Calculator, params *domain.ParameterSet) {
	for i := range calc.Specs {
		spec := &calc.Specs[i]
		v, ok := params.Value(spec.Name)
		if !ok {
			continue
		}
		if spec.Floor != nil && v < *spec.Floor {
			v = *spec.Floor
		}
		if spec.Cap != nil && v > *spec.Cap {
			v = *spec.Cap
		}
		params.SetValue(spec.Name, v)
	}
}

// sumCriteria adds the selected option weight of every criterion.
// Selections were validated upstream; a missing one here is a defect.
func sumCriteria(calc *domain.Calculator, params *domain.ParameterSet) (float64, map[string]float64, error) {
	total := 0
	components := make(map[string]float64, len(calc.Criteria))

	for i := range calc.Criteria {
		crit := &calc.Criteria[i]
		idx, ok := params.Selection(crit.ID)
		if !ok || idx < 0 || idx >= len(crit.Options) {
			return 0, nil, fmt.Errorf("criterion %s: %w", crit.ID, domain.ErrUnknownSelection)
		}
		pts := crit.Options[idx].Points
		total += pts
		components[crit.ID] = float64(pts)
	}

	return float64(total), components, nil
}

// lookupValue implements the direct one-to-one mapping strategy: the single
// declared parameter is the score itself.
func lookupValue(calc *domain.Calculator, params *domain.ParameterSet) (float64, error) {
	if len(calc.Specs) == 0 {
		return 0, fmt.Errorf("calculator %s: lookup formula without parameter spec", calc.ID)
	}
	name := calc.Specs[0].Name
	v, ok := params.Value(name)
	if !ok {
		return 0, fmt.Errorf("parameter %s: %w", name, domain.ErrMissingParameter)
	}
	return v, nil
}

func roundTo(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func formatScore(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// snapshotInputs records the normalized, clamped values the formula
// actually consumed, in declaration order, for the audit trail.
func snapshotInputs(calc *domain.Calculator, params *domain.ParameterSet) []domain.ParameterValue {
	values := params.Values()
	out := make([]domain.ParameterValue, 0, len(values))
	for i := range calc.Specs {
		spec := &calc.Specs[i]
		if v, ok := values[spec.Name]; ok {
			out = append(out, domain.ParameterValue{Name: spec.Name, Value: v, Unit: spec.Unit})
			delete(values, spec.Name)
		}
	}
	// Values outside the spec list (none expected) still get recorded.
	rest := make([]string, 0, len(values))
	for name := range values {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, domain.ParameterValue{Name: name, Value: values[name]})
	}
	return out
}
