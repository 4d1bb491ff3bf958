// Package store persists decode results in SQLite so operators can audit
// what was reconstructed, when, and with how much silent data loss.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ProblemRecord is one persisted problem decode.
type ProblemRecord struct {
	SessionID      string
	Name           string
	Source         string
	Objects        int
	Fluents        int
	Actions        int
	Goals          int
	DroppedEffects int
	DecodedAt      time.Time
}

// PlanRecord is one persisted plan decode.
type PlanRecord struct {
	SessionID string
	Problem   string
	Steps     int
	DecodedAt time.Time
}

// Store wraps the SQLite database holding decode records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open initializes the database at the given path, creating parent
// directories and tables as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS problems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		name TEXT NOT NULL,
		source TEXT,
		objects INTEGER NOT NULL,
		fluents INTEGER NOT NULL,
		actions INTEGER NOT NULL,
		goals INTEGER NOT NULL,
		dropped_effects INTEGER NOT NULL DEFAULT 0,
		decoded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_problems_name ON problems(name);
	CREATE INDEX IF NOT EXISTS idx_problems_session ON problems(session_id);

	CREATE TABLE IF NOT EXISTS plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		problem TEXT NOT NULL,
		steps INTEGER NOT NULL,
		decoded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_problem ON plans(problem);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create store tables: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveProblem persists one problem decode record.
func (s *Store) SaveProblem(ctx context.Context, rec ProblemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO problems (session_id, name, source, objects, fluents, actions, goals, dropped_effects, decoded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Name, rec.Source, rec.Objects, rec.Fluents,
		rec.Actions, rec.Goals, rec.DroppedEffects, rec.DecodedAt)
	if err != nil {
		return fmt.Errorf("save problem %q: %w", rec.Name, err)
	}
	return nil
}

// SavePlan persists one plan decode record.
func (s *Store) SavePlan(ctx context.Context, rec PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (session_id, problem, steps, decoded_at)
		VALUES (?, ?, ?, ?)`,
		rec.SessionID, rec.Problem, rec.Steps, rec.DecodedAt)
	if err != nil {
		return fmt.Errorf("save plan for %q: %w", rec.Problem, err)
	}
	return nil
}

// Problems returns all problem records, most recent first.
func (s *Store) Problems(ctx context.Context) ([]ProblemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, name, source, objects, fluents, actions, goals, dropped_effects, decoded_at
		FROM problems ORDER BY decoded_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	return scanProblems(rows)
}

// ProblemByName returns the most recent record for a named problem.
func (s *Store) ProblemByName(ctx context.Context, name string) (*ProblemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, name, source, objects, fluents, actions, goals, dropped_effects, decoded_at
		FROM problems WHERE name = ? ORDER BY decoded_at DESC, id DESC LIMIT 1`, name)
	if err != nil {
		return nil, fmt.Errorf("query problem %q: %w", name, err)
	}
	defer rows.Close()

	recs, err := scanProblems(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("problem %q not found", name)
	}
	return &recs[0], nil
}

// Plans returns all plan records, most recent first.
func (s *Store) Plans(ctx context.Context) ([]PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, problem, steps, decoded_at
		FROM plans ORDER BY decoded_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var recs []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		if err := rows.Scan(&rec.SessionID, &rec.Problem, &rec.Steps, &rec.DecodedAt); err != nil {
			return nil, fmt.Errorf("scan plan record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanProblems(rows *sql.Rows) ([]ProblemRecord, error) {
	var recs []ProblemRecord
	for rows.Next() {
		var rec ProblemRecord
		if err := rows.Scan(&rec.SessionID, &rec.Name, &rec.Source, &rec.Objects,
			&rec.Fluents, &rec.Actions, &rec.Goals, &rec.DroppedEffects, &rec.DecodedAt); err != nil {
			return nil, fmt.Errorf("scan problem record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
