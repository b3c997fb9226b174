package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/domain"
)

// PostgresStore implements domain.HistoryStore on a pgx connection pool,
// for deployments where multiple replicas share one audit trail. The
// schema is managed by the migration runner in internal/database.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(db *pgxpool.Pool, logger *logrus.Logger) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool is required")
	}
	return &PostgresStore{db: db, log: logger}, nil
}

// NewPostgresStoreFromConfig builds the pool from the history configuration.
func NewPostgresStoreFromConfig(ctx context.Context, cfg *domain.HistoryConfig, logger *logrus.Logger) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing pool config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLife
	if poolCfg.MaxConnLifetime == 0 {
		poolCfg.MaxConnLifetime = 5 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Opened Postgres history store")

	return &PostgresStore{db: pool, log: logger}, nil
}

// Save appends one calculation result.
func (s *PostgresStore) Save(ctx context.Context, result *domain.CalculationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO calculation_results (
			id, calculator_id, calculator_name, score_value, score_display,
			band_label, severity, payload, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.ID,
		result.CalculatorID,
		result.CalculatorName,
		result.Score.Value,
		result.Score.Display,
		result.Band.Label,
		string(result.Band.Severity),
		payload,
		result.ComputedAt,
	)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"result_id":  result.ID,
			"calculator": result.CalculatorID,
			"error":      err,
		}).Error("Failed to save calculation result")
		return fmt.Errorf("saving result: %w", err)
	}

	return nil
}

// Get retrieves one result by its identifier.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.CalculationResult, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		"SELECT payload FROM calculation_results WHERE id = $1", id,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("result %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}

	return decodePayload(string(payload))
}

// ListByCalculator returns the most recent results for one calculator,
// newest first.
func (s *PostgresStore) ListByCalculator(ctx context.Context, calculatorID string, limit int) ([]*domain.CalculationResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
		SELECT payload FROM calculation_results
		WHERE calculator_id = $1
		ORDER BY computed_at DESC
		LIMIT $2`, calculatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []*domain.CalculationResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		result, err := decodePayload(string(payload))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
