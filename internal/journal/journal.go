// Package journal records transform and drift runs in the local SQLite
// database so operators can review migration history with `ctrlmig runs`.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfields/ctrlmig/internal/db"
	"github.com/mfields/ctrlmig/internal/domain"
)

// Run is one journal entry.
type Run struct {
	UUID          string `json:"uuid"`
	Kind          string `json:"kind"` // transform, drift
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at,omitempty"`
	ExportDir     string `json:"export_dir,omitempty"`
	OutputDir     string `json:"output_dir,omitempty"`
	Rev           string `json:"rev,omitempty"`
	Strict        bool   `json:"strict,omitempty"`
	WarningCount  int    `json:"warnings"`
	MismatchCount int    `json:"mismatches"`
	Status        string `json:"status"` // ok, failed
}

// Journal writes and reads run history.
type Journal struct {
	db *db.DB
}

// Open opens (and migrates) the journal database at path.
func Open(path string) (*Journal, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}
	return &Journal{db: database}, nil
}

// New wraps an already-open database (used by tests).
func New(database *db.DB) *Journal {
	return &Journal{db: database}
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends a run and its per-type counts.
func (j *Journal) Record(run Run, counts domain.CountSnapshot) (string, error) {
	if run.UUID == "" {
		run.UUID = uuid.New().String()
	}
	if run.StartedAt == "" {
		run.StartedAt = formatTimestamp(time.Now())
	}
	if run.FinishedAt == "" {
		run.FinishedAt = formatTimestamp(time.Now())
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin journal transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO runs (uuid, kind, started_at, finished_at, export_dir, output_dir,
		                  rev, strict, warning_count, mismatch_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.UUID, run.Kind, run.StartedAt, run.FinishedAt, run.ExportDir, run.OutputDir,
		run.Rev, boolToInt(run.Strict), run.WarningCount, run.MismatchCount, run.Status)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	for _, t := range domain.AllTypes() {
		count, ok := counts[t]
		if !ok {
			continue
		}
		_, err = tx.Exec(`
			INSERT INTO run_counts (run_uuid, object_type, count) VALUES (?, ?, ?)
		`, run.UUID, string(t), count)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("failed to record run counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit journal entry: %w", err)
	}
	return run.UUID, nil
}

// List returns the most recent runs, newest first.
func (j *Journal) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(`
		SELECT uuid, kind, started_at, finished_at, export_dir, output_dir,
		       rev, strict, warning_count, mismatch_count, status
		FROM runs
		ORDER BY started_at DESC, uuid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var strict int
		if err := rows.Scan(&r.UUID, &r.Kind, &r.StartedAt, &r.FinishedAt, &r.ExportDir,
			&r.OutputDir, &r.Rev, &strict, &r.WarningCount, &r.MismatchCount, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Strict = strict != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Counts returns the per-type counts recorded for a run.
func (j *Journal) Counts(runUUID string) (domain.CountSnapshot, error) {
	rows, err := j.db.Query(`
		SELECT object_type, count FROM run_counts WHERE run_uuid = ?
	`, runUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run counts: %w", err)
	}
	defer rows.Close()

	snap := make(domain.CountSnapshot)
	for rows.Next() {
		var t string
		var count int
		if err := rows.Scan(&t, &count); err != nil {
			return nil, fmt.Errorf("failed to scan run count: %w", err)
		}
		snap[domain.ObjectType(t)] = count
	}
	return snap, rows.Err()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
