// Package history keeps an append-only SQLite log of ensemble decisions so
// operators can audit how the weights and votes evolved over time.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id     TEXT NOT NULL,
	subject        TEXT NOT NULL,
	category       TEXT NOT NULL,
	priority       TEXT NOT NULL,
	confidence     REAL NOT NULL,
	weights_json   TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
`

// Entry is one recorded decision.
type Entry struct {
	ID         int64                          `json:"id"`
	RequestID  string                         `json:"request_id"`
	Subject    string                         `json:"subject"`
	Category   string                         `json:"category"`
	Priority   string                         `json:"priority"`
	Confidence float64                        `json:"confidence"`
	Weights    map[ensemble.ModelID]float64   `json:"model_weights"`
	CreatedAt  time.Time                      `json:"created_at"`
}

// Store manages the decision log in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one decision to the log.
func (s *Store) Record(requestID, subject string, decision ensemble.Decision) error {
	weights, err := json.Marshal(decision.ModelWeights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO decisions (request_id, subject, category, priority, confidence, weights_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		requestID, subject, decision.Category, decision.Priority, decision.Confidence,
		string(weights), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, request_id, subject, category, priority, confidence, weights_json, created_at
		 FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			weightsJSON string
			createdAt   string
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Subject, &e.Category, &e.Priority, &e.Confidence, &weightsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if err := json.Unmarshal([]byte(weightsJSON), &e.Weights); err != nil {
			return nil, fmt.Errorf("parse weights: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
