// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates empty files with the given names under dir.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPending(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	outDir := filepath.Join(tmp, "out")

	writeFiles(t, inDir, "c.pdf", "a.pdf", "b.PDF", "notes.txt", "d.pdf")
	writeFiles(t, outDir, "b.md", "d.md", "unrelated.log")

	pending, total, err := Pending(inDir, outDir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	want := []string{filepath.Join(inDir, "a.pdf"), filepath.Join(inDir, "c.pdf")}
	if len(pending) != len(want) {
		t.Fatalf("pending = %v, want %v", pending, want)
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Errorf("pending[%d] = %q, want %q", i, pending[i], want[i])
		}
	}
}

func TestPendingMissingOutputDir(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	writeFiles(t, inDir, "a.pdf", "b.pdf")

	pending, total, err := Pending(inDir, filepath.Join(tmp, "never-created"), ".txt")
	if err != nil {
		t.Fatalf("missing output dir should mean nothing converted, got %v", err)
	}
	if total != 2 || len(pending) != 2 {
		t.Errorf("total = %d, pending = %d, want 2 and 2", total, len(pending))
	}
}

func TestPendingMissingInputDir(t *testing.T) {
	tmp := t.TempDir()
	_, _, err := Pending(filepath.Join(tmp, "nope"), tmp, ".md")
	if err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestPendingExtensionMismatch(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	outDir := filepath.Join(tmp, "out")

	// Markdown output does not count as converted for a .txt run.
	writeFiles(t, inDir, "a.pdf")
	writeFiles(t, outDir, "a.md")

	pending, _, err := Pending(inDir, outDir, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %v, want the .pdf still pending", pending)
	}
}
