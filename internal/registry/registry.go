// Package registry holds the calculator definitions shipped with the
// engine. Each calculator is a plain data declaration: parameter specs,
// conditional-requirement rules, the formula variant, the band table and
// per-band interpretation templates. The registry validates every
// declaration at construction so band-table defects surface at startup,
// not at compute time.
package registry

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/domain"
)

// Registry is an immutable, ordered collection of calculator definitions.
type Registry struct {
	logger *logrus.Logger
	order  []string
	calcs  map[string]*domain.Calculator
}

// New builds the registry with every shipped calculator and validates each
// declaration, including the band-table invariant.
func New(logger *logrus.Logger) (*Registry, error) {
	r := &Registry{
		logger: logger,
		calcs:  make(map[string]*domain.Calculator),
	}

	definitions := []*domain.Calculator{
		MELD(),
		HEART(),
		GRACE(),
		TIMIUANSTEMI(),
		TIMISTEMI(),
		CAMICU(),
		RASS(),
		AnionGap(),
		Parkland(),
		CKDEPI(),
		BMI(),
		BSAMosteller(),
		LeanBodyWeight(),
	}

	for _, calc := range definitions {
		if err := r.register(calc); err != nil {
			return nil, err
		}
	}

	logger.WithField("calculator_count", len(r.order)).Info("Initialized calculator registry")
	return r, nil
}

func (r *Registry) register(calc *domain.Calculator) error {
	if err := calc.Validate(); err != nil {
		return fmt.Errorf("registering calculator: %w", err)
	}
	if _, exists := r.calcs[calc.ID]; exists {
		return fmt.Errorf("duplicate calculator id %q", calc.ID)
	}
	r.calcs[calc.ID] = calc
	r.order = append(r.order, calc.ID)
	r.logger.WithFields(logrus.Fields{
		"calculator": calc.ID,
		"kind":       calc.Kind.String(),
		"bands":      len(calc.Bands),
	}).Debug("Registered calculator")
	return nil
}

// Get returns the calculator with the given ID.
func (r *Registry) Get(id string) (*domain.Calculator, error) {
	calc, ok := r.calcs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCalculator, id)
	}
	return calc, nil
}

// List returns every calculator in registration order.
func (r *Registry) List() []*domain.Calculator {
	out := make([]*domain.Calculator, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.calcs[id])
	}
	return out
}

// fp returns a pointer to a float64 literal, for floor/cap declarations.
func fp(v float64) *float64 {
	return &v
}

// yesNo is the two-option criterion shape shared by binary criteria.
func yesNo(points int) []domain.CriterionOption {
	return []domain.CriterionOption{
		{Label: "No", Points: 0},
		{Label: "Yes", Points: points},
	}
}
