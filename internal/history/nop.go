package history

import (
	"context"
	"fmt"

	"github.com/clinscore-server/internal/domain"
)

// NopStore discards every record, for deployments that opt out of the
// audit trail.
type NopStore struct{}

// NewNopStore creates a store that keeps nothing.
func NewNopStore() *NopStore {
	return &NopStore{}
}

func (*NopStore) Save(context.Context, *domain.CalculationResult) error {
	return nil
}

func (*NopStore) Get(_ context.Context, id string) (*domain.CalculationResult, error) {
	return nil, fmt.Errorf("result %q: %w", id, domain.ErrNotFound)
}

func (*NopStore) ListByCalculator(context.Context, string, int) ([]*domain.CalculationResult, error) {
	return nil, nil
}

func (*NopStore) Close() error {
	return nil
}
