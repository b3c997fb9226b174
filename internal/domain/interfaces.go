package domain

import "context"

// HistoryStore persists calculation audit records. Records are write-once;
// the engine itself never touches storage.
type HistoryStore interface {
	Save(ctx context.Context, result *CalculationResult) error
	Get(ctx context.Context, id string) (*CalculationResult, error)
	ListByCalculator(ctx context.Context, calculatorID string, limit int) ([]*CalculationResult, error)
	Close() error
}

// ResultCache memoizes compute results by canonicalized request. Safe
// because computation is deterministic; a miss is never an error.
type ResultCache interface {
	Get(ctx context.Context, key string) (*CalculationResult, bool)
	Put(ctx context.Context, key string, result *CalculationResult)
}
