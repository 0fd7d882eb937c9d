// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FailureLogName is the append-only failure log in the output directory.
const FailureLogName = "failures.log"

// WriteOutput writes content to destPath atomically: the content goes to a
// temp file in the destination directory and is renamed into place, so an
// interrupted run never leaves a truncated file under the final name.
func WriteOutput(destPath, content string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".pdfbatch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.WriteString(content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// FailureLog records failed conversions, one line per failure. The file is
// opened in append mode so entries from earlier runs are never overwritten.
// Append is safe for concurrent workers.
type FailureLog struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenFailureLog opens (or creates) the failure log in dir.
func OpenFailureLog(dir string) (*FailureLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FailureLogName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening failure log %s: %w", path, err)
	}
	return &FailureLog{f: f, path: path}, nil
}

// Append records one failed file with its error text.
func (l *FailureLog) Append(file, msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().UTC().Format(time.RFC3339)
	_, err := fmt.Fprintf(l.f, "%s\t%s\t%s\n", ts, file, msg)
	return err
}

// Path returns the failure log's location for the end-of-run summary.
func (l *FailureLog) Path() string { return l.path }

// Close releases the underlying file.
func (l *FailureLog) Close() error { return l.f.Close() }
