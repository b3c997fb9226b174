// Package history persists calculation results as an append-only audit
// trail. Results are write-once; stores never mutate a saved record.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/clinscore-server/internal/domain"
)

// SQLiteStore implements domain.HistoryStore on an embedded SQLite file,
// the default backend for single-node deployments.
type SQLiteStore struct {
	db     *sql.DB
	log    *logrus.Logger
	dbPath string
}

// NewSQLiteStore opens (or creates) the database file and schema.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent readers during writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("Opened SQLite history store")
	return &SQLiteStore{db: db, log: logger, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculation_results (
		id TEXT PRIMARY KEY,
		calculator_id TEXT NOT NULL,
		calculator_name TEXT NOT NULL,
		score_value REAL NOT NULL,
		score_display TEXT NOT NULL,
		band_label TEXT NOT NULL,
		severity TEXT NOT NULL,
		payload TEXT NOT NULL,
		computed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_calculator ON calculation_results(calculator_id);
	CREATE INDEX IF NOT EXISTS idx_results_computed_at ON calculation_results(computed_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save appends one calculation result.
func (s *SQLiteStore) Save(ctx context.Context, result *domain.CalculationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculation_results (
			id, calculator_id, calculator_name, score_value, score_display,
			band_label, severity, payload, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.CalculatorID,
		result.CalculatorName,
		result.Score.Value,
		result.Score.Display,
		result.Band.Label,
		string(result.Band.Severity),
		string(payload),
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
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.CalculationResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM calculation_results WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}

	return decodePayload(payload)
}

// ListByCalculator returns the most recent results for one calculator,
// newest first.
func (s *SQLiteStore) ListByCalculator(ctx context.Context, calculatorID string, limit int) ([]*domain.CalculationResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM calculation_results
		WHERE calculator_id = ?
		ORDER BY computed_at DESC
		LIMIT ?`, calculatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []*domain.CalculationResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		result, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodePayload(payload string) (*domain.CalculationResult, error) {
	result := &domain.CalculationResult{}
	if err := json.Unmarshal([]byte(payload), result); err != nil {
		return nil, fmt.Errorf("decoding result payload: %w", err)
	}
	return result, nil
}
