// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "report.txt")

	if err := WriteOutput(dest, "Page 1:\nhello\n"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Page 1:\nhello\n" {
		t.Errorf("content = %q", data)
	}

	// No temp files should survive a successful write.
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteOutputOverwrites(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "report.md")

	if err := WriteOutput(dest, "first"); err != nil {
		t.Fatal(err)
	}
	if err := WriteOutput(dest, "second"); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(dest)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}

func TestFailureLogAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	flog, err := OpenFailureLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := flog.Append("a.pdf", "bad xref"); err != nil {
		t.Fatal(err)
	}
	if err := flog.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening must not truncate earlier entries.
	flog, err = OpenFailureLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := flog.Append("b.pdf", "engine crashed"); err != nil {
		t.Fatal(err)
	}
	flog.Close()

	data, err := os.ReadFile(flog.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "a.pdf\tbad xref") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "b.pdf\tengine crashed") {
		t.Errorf("second line = %q", lines[1])
	}
}
