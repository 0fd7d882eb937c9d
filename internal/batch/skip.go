// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch implements the conversion run: the skip filter that
// excludes already-converted files, the bounded-concurrency dispatcher,
// and the atomic result writer.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pending lists the PDF files in inputDir that have no converted
// counterpart in outputDir, in sorted order. total is the number of PDF
// files found. A missing output directory means nothing has been converted
// yet; an unreadable input directory is an error and aborts the run.
func Pending(inputDir, outputDir, outputExt string) (pending []string, total int, err error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	done := converted(outputDir, outputExt)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		total++
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if done[base] {
			continue
		}
		pending = append(pending, filepath.Join(inputDir, name))
	}

	sort.Strings(pending)
	return pending, total, nil
}

// converted returns the set of output base names already present in
// outputDir.
func converted(outputDir, outputExt string) map[string]bool {
	done := make(map[string]bool)
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return done
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), outputExt) {
			continue
		}
		done[strings.TrimSuffix(name, filepath.Ext(name))] = true
	}
	return done
}
