package benchdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arcline-robotics/motionplan/internal/planning"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := filepath.Join(t.TempDir(), t.Name()+".db")
	_ = os.Remove(fname)

	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun() planning.BenchmarkRun {
	return planning.BenchmarkRun{
		ID:         uuid.NewString(),
		Experiment: "planar_arm_arm_empty_arm_ctx",
		Timeout:    2 * time.Second,
		Count:      3,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRecordAndReadBack(t *testing.T) {
	db := setupTestDB(t)
	run := sampleRun()
	if err := db.RecordRun(run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	for i := 0; i < run.Count; i++ {
		att := planning.BenchmarkAttempt{
			RunID:      run.ID,
			Attempt:    i,
			Success:    i != 1,
			SolveTime:  time.Duration(i+1) * 10 * time.Millisecond,
			PathLength: float64(i) + 0.5,
			StateCount: 2 + i,
		}
		if err := db.RecordAttempt(att); err != nil {
			t.Fatalf("RecordAttempt %d: %v", i, err)
		}
	}

	runs, err := db.Runs(10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].ID != run.ID || runs[0].Experiment != run.Experiment {
		t.Errorf("run = %+v", runs[0])
	}
	if runs[0].Timeout != run.Timeout {
		t.Errorf("timeout = %v, want %v", runs[0].Timeout, run.Timeout)
	}

	atts, err := db.Attempts(run.ID)
	if err != nil {
		t.Fatalf("Attempts: %v", err)
	}
	if len(atts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(atts))
	}
	for i, att := range atts {
		if att.Attempt != i {
			t.Errorf("attempt %d out of order: %d", i, att.Attempt)
		}
	}
	if atts[1].Success {
		t.Error("failed attempt read back as success")
	}
}

func TestDuplicateAttemptRejected(t *testing.T) {
	db := setupTestDB(t)
	run := sampleRun()
	if err := db.RecordRun(run); err != nil {
		t.Fatal(err)
	}
	att := planning.BenchmarkAttempt{RunID: run.ID, Attempt: 0, Success: true}
	if err := db.RecordAttempt(att); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordAttempt(att); err == nil {
		t.Error("duplicate (run, attempt) insert succeeded")
	}
}

func TestSummarize(t *testing.T) {
	db := setupTestDB(t)
	run := sampleRun()
	if err := db.RecordRun(run); err != nil {
		t.Fatal(err)
	}
	atts := []planning.BenchmarkAttempt{
		{RunID: run.ID, Attempt: 0, Success: true, SolveTime: 10 * time.Millisecond, PathLength: 2},
		{RunID: run.ID, Attempt: 1, Success: true, Approximate: true, SolveTime: 30 * time.Millisecond, PathLength: 4},
		{RunID: run.ID, Attempt: 2, Success: false},
	}
	for _, att := range atts {
		if err := db.RecordAttempt(att); err != nil {
			t.Fatal(err)
		}
	}

	s, err := db.Summarize(run.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Attempts != 3 || s.Successes != 2 || s.Approximate != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgSolveTime != 20*time.Millisecond {
		t.Errorf("avg solve time = %v, want 20ms", s.AvgSolveTime)
	}
	if s.AvgPathLength != 3 {
		t.Errorf("avg path length = %v, want 3", s.AvgPathLength)
	}
}

func TestMigrateUpAndVersion(t *testing.T) {
	db := setupTestDB(t)
	if err := db.MigrateUp("../../migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	version, dirty, err := db.MigrateVersion("../../migrations")
	if err != nil {
		t.Fatalf("MigrateVersion: %v", err)
	}
	if dirty {
		t.Error("database dirty after clean migration")
	}
	if version < 2 {
		t.Errorf("version = %d, want >= 2", version)
	}

	// Migrated schema still accepts records.
	if err := db.RecordRun(sampleRun()); err != nil {
		t.Errorf("RecordRun after migration: %v", err)
	}
}
