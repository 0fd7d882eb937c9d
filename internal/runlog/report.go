// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfbatch/pkg/types"
)

// reportFile holds the YAML report of the most recent run.
const reportFile = "last-run.yaml"

// WriteReport writes a YAML summary of the run to
// outputDir/.pdfbatch/last-run.yaml, replacing any previous report.
func WriteReport(outputDir string, sum types.RunSummary) error {
	dir := filepath.Join(outputDir, ledgerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	data, err := yaml.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}

	path := filepath.Join(dir, reportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}
