// Package benchdb persists planning benchmark runs to SQLite. The base
// schema ships embedded so a fresh database is usable immediately;
// schema evolution goes through the migrations directory.
package benchdb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcline-robotics/motionplan/internal/planning"
)

//go:embed schema.sql
var schemaSQL string

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the benchmark database at path and applies
// the base schema.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply base schema: %w", err)
	}
	return &DB{db}, nil
}

// RecordRun implements planning.BenchmarkSink.
func (db *DB) RecordRun(run planning.BenchmarkRun) error {
	_, err := db.Exec(
		`INSERT INTO benchmark_runs (run_id, experiment, timeout_ms, attempt_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Experiment, run.Timeout.Milliseconds(), run.Count,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert benchmark run %s: %w", run.ID, err)
	}
	return nil
}

// RecordAttempt implements planning.BenchmarkSink.
func (db *DB) RecordAttempt(att planning.BenchmarkAttempt) error {
	_, err := db.Exec(
		`INSERT INTO benchmark_attempts (run_id, attempt, success, approximate, solve_time_ms, path_length, state_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		att.RunID, att.Attempt, att.Success, att.Approximate,
		float64(att.SolveTime)/float64(time.Millisecond), att.PathLength, att.StateCount,
	)
	if err != nil {
		return fmt.Errorf("insert benchmark attempt %d of run %s: %w", att.Attempt, att.RunID, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]planning.BenchmarkRun, error) {
	rows, err := db.Query(
		`SELECT run_id, experiment, timeout_ms, attempt_count, created_at
		 FROM benchmark_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []planning.BenchmarkRun
	for rows.Next() {
		var run planning.BenchmarkRun
		var timeoutMs int64
		var created string
		if err := rows.Scan(&run.ID, &run.Experiment, &timeoutMs, &run.Count, &created); err != nil {
			return nil, err
		}
		run.Timeout = time.Duration(timeoutMs) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			run.CreatedAt = ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Attempts returns the attempts of one run in attempt order.
func (db *DB) Attempts(runID string) ([]planning.BenchmarkAttempt, error) {
	rows, err := db.Query(
		`SELECT run_id, attempt, success, approximate, solve_time_ms, path_length, state_count
		 FROM benchmark_attempts WHERE run_id = ? ORDER BY attempt`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var atts []planning.BenchmarkAttempt
	for rows.Next() {
		var att planning.BenchmarkAttempt
		var solveMs float64
		if err := rows.Scan(&att.RunID, &att.Attempt, &att.Success, &att.Approximate,
			&solveMs, &att.PathLength, &att.StateCount); err != nil {
			return nil, err
		}
		att.SolveTime = time.Duration(solveMs * float64(time.Millisecond))
		atts = append(atts, att)
	}
	return atts, rows.Err()
}

// RunSummary aggregates one run's attempts.
type RunSummary struct {
	RunID         string
	Attempts      int
	Successes     int
	Approximate   int
	AvgSolveTime  time.Duration
	AvgPathLength float64
}

// Summarize computes aggregate statistics for a run. Averages cover
// successful attempts only.
func (db *DB) Summarize(runID string) (RunSummary, error) {
	row := db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(success), 0),
		        COALESCE(SUM(approximate), 0),
		        COALESCE(AVG(CASE WHEN success THEN solve_time_ms END), 0),
		        COALESCE(AVG(CASE WHEN success THEN path_length END), 0)
		 FROM benchmark_attempts WHERE run_id = ?`, runID)

	s := RunSummary{RunID: runID}
	var avgMs float64
	if err := row.Scan(&s.Attempts, &s.Successes, &s.Approximate, &avgMs, &s.AvgPathLength); err != nil {
		return s, fmt.Errorf("summarize run %s: %w", runID, err)
	}
	s.AvgSolveTime = time.Duration(avgMs * float64(time.Millisecond))
	return s, nil
}
