// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists a ledger of conversion runs next to the output
// directory, so batch progress across repeated invocations can be audited.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfbatch/pkg/types"
)

const (
	// ledgerDir is the bookkeeping subdirectory under the output directory.
	ledgerDir = ".pdfbatch"
	dbFile    = "runs.db"
)

// Store manages the run ledger SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at
// outputDir/.pdfbatch/runs.db, creating the schema if needed.
func Open(outputDir string) (*Store, error) {
	dir := filepath.Join(outputDir, ledgerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the ledger database location.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			converter TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id),
			file TEXT NOT NULL,
			error TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run_id ON failures(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one run and its failures in a single transaction.
func (s *Store) Record(ctx context.Context, sum types.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, converter, input_dir, output_dir, started_at, finished_at, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, string(sum.Variant), sum.InputDir, sum.OutputDir,
		sum.StartedAt.Format(time.RFC3339), sum.FinishedAt.Format(time.RFC3339),
		sum.Converted, sum.Skipped, sum.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", sum.RunID, err)
	}

	for _, f := range sum.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, file, error) VALUES (?, ?, ?)`,
			sum.RunID, f.File, f.Error,
		); err != nil {
			return fmt.Errorf("inserting failure for %s: %w", f.File, err)
		}
	}

	return tx.Commit()
}

// List returns the most recent runs, newest first, without their failure
// details.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, converter, input_dir, output_dir, started_at, finished_at, converted, skipped, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunSummary
	for rows.Next() {
		var sum types.RunSummary
		var variant, started, finished string
		if err := rows.Scan(&sum.RunID, &variant, &sum.InputDir, &sum.OutputDir,
			&started, &finished, &sum.Converted, &sum.Skipped, &sum.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Variant = types.Variant(variant)
		sum.StartedAt, _ = time.Parse(time.RFC3339, started)
		sum.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, sum)
	}
	return runs, rows.Err()
}

// Failures returns the failure records for one run.
func (s *Store) Failures(ctx context.Context, runID string) ([]types.FailureRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, error FROM failures WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var failures []types.FailureRecord
	for rows.Next() {
		var f types.FailureRecord
		if err := rows.Scan(&f.File, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
