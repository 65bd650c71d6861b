// Package history persists a record of past analyses in an embedded SQLite
// database. Persistence is best-effort: the analysis pipeline never fails
// because history could not be written.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"circuitsight/apimodels"
)

// Store manages analysis history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one persisted analysis outcome.
type Record struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Success        bool      `json:"success"`
	CircuitType    string    `json:"circuitType,omitempty"`
	Solution       string    `json:"solution,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	ProcessingTime float64   `json:"processingTime"`
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id              TEXT PRIMARY KEY,
    created_at      TEXT NOT NULL,
    success         INTEGER NOT NULL,
    circuit_type    TEXT NOT NULL DEFAULT '',
    solution        TEXT NOT NULL DEFAULT '',
    confidence      REAL NOT NULL DEFAULT 0,
    error_message   TEXT NOT NULL DEFAULT '',
    processing_time REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// Open initializes or connects to the history database and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records the outcome of one analysis, success or failure.
func (s *Store) Save(ctx context.Context, resp *apimodels.AnalysisResponse) error {
	rec := Record{
		ID:             resp.ID,
		CreatedAt:      time.Now().UTC(),
		Success:        resp.Success,
		ErrorMessage:   resp.ErrorMessage,
		ProcessingTime: resp.ProcessingTime,
	}
	if resp.Analysis != nil {
		rec.CircuitType = resp.Analysis.CircuitType
		rec.Solution = resp.Analysis.Solution
		rec.Confidence = resp.Analysis.ConfidenceLevel
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO analyses (
            id, created_at, success, circuit_type, solution,
            confidence, error_message, processing_time
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339Nano),
		boolToInt(rec.Success),
		rec.CircuitType,
		rec.Solution,
		rec.Confidence,
		rec.ErrorMessage,
		rec.ProcessingTime,
	)
	if err != nil {
		return fmt.Errorf("insert analysis record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, created_at, success, circuit_type, solution,
                confidence, error_message, processing_time
         FROM analyses ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var createdAt string
		var success int
		if err := rows.Scan(
			&rec.ID, &createdAt, &success, &rec.CircuitType, &rec.Solution,
			&rec.Confidence, &rec.ErrorMessage, &rec.ProcessingTime,
		); err != nil {
			return nil, fmt.Errorf("scan analysis record: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		rec.Success = success != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis records: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
