// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdfbatch/internal/engine"
	"github.com/pdiddy/pdfbatch/pkg/types"
)

const binDocling = "docling"

// runner runs an external conversion binary. *engine.Tool satisfies it;
// tests substitute a fake.
type runner interface {
	Name() string
	Run(ctx context.Context, args []string, env []string) error
}

// Docling converts PDFs to Markdown with document-structure recognition
// (headings, tables) by invoking the docling executable per file.
type Docling struct {
	tool runner
}

// NewDocling resolves the docling binary on PATH and returns the
// structure-aware converter.
func NewDocling() (*Docling, error) {
	tool, err := engine.Lookup(binDocling)
	if err != nil {
		return nil, err
	}
	return &Docling{tool: tool}, nil
}

// Variant implements Converter.
func (*Docling) Variant() types.Variant { return types.VariantDocling }

// Convert runs docling against a temporary output directory and reads back
// the Markdown it produced. The pages limit is ignored; docling always
// converts the full document.
func (d *Docling) Convert(ctx context.Context, pdfPath string, pages int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfbatch-docling-*")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	args := []string{"--to", "md", "--output", tmpDir, pdfPath}
	if err := d.tool.Run(ctx, args, nil); err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", &EngineError{Engine: d.tool.Name(), Path: pdfPath, Err: err}
	}

	return readEngineOutput(d.tool.Name(), pdfPath, filepath.Join(tmpDir, stem(pdfPath)+".md"))
}

// readEngineOutput reads the file an external engine was expected to write,
// converting a missing or empty file into an EngineError.
func readEngineOutput(engineName, pdfPath, outPath string) (string, error) {
	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", &EngineError{Engine: engineName, Path: pdfPath, Err: fmt.Errorf("produced no output: %w", err)}
	}
	if len(data) == 0 {
		return "", &EngineError{Engine: engineName, Path: pdfPath, Err: fmt.Errorf("produced empty output")}
	}
	return string(data), nil
}
