// Package history persists suite run outcomes in a local SQLite database so
// pass rates can be compared across runs of the same tree.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sigsmoke/pkg/runner"
)

//go:embed schema.sql
var schemaSQL string

// Run is a single recorded suite run.
type Run struct {
	ID           int64
	RunID        string
	SuiteID      string
	TestsRun     int
	TestsPassed  int
	PassRatio    float64
	Threshold    float64
	ThresholdMet bool
	DurationSecs float64
	StartedAt    time.Time
}

// Store manages the SQLite database holding run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store and initializes the database schema. The parent
// directory is created for file-based databases; ":memory:" is supported for
// tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each pooled connection to :memory: would get its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the remaining pragmas wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one suite result into the history.
func (s *Store) Record(result *runner.SuiteResult) error {
	if result == nil {
		return fmt.Errorf("cannot record nil result")
	}

	met := 0
	if result.Met {
		met = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO suite_runs
			(run_id, suite_id, tests_run, tests_passed, pass_ratio, threshold, threshold_met, duration_secs, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.SuiteID,
		result.TestsRun,
		result.TestsPassed,
		result.PassRatio(),
		result.Threshold,
		met,
		result.Duration,
		result.StartTime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", result.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs ordered newest first. An empty suiteID
// returns runs of every suite.
func (s *Store) Recent(suiteID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, run_id, suite_id, tests_run, tests_passed, pass_ratio, threshold, threshold_met, duration_secs, started_at
		FROM suite_runs`
	args := []interface{}{}
	if suiteID != "" {
		query += " WHERE suite_id = ?"
		args = append(args, suiteID)
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var met int
		if err := rows.Scan(&r.ID, &r.RunID, &r.SuiteID, &r.TestsRun, &r.TestsPassed,
			&r.PassRatio, &r.Threshold, &met, &r.DurationSecs, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.ThresholdMet = met != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
