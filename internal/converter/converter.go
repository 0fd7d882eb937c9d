// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package converter wraps the three external conversion engines behind a
// uniform interface: in-process text extraction (pymu), structure-aware
// Markdown conversion (docling), and GPU-accelerated Markdown conversion
// (marker).
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/pdfbatch/pkg/types"
)

// Converter transforms one PDF file into text or Markdown. Implementations
// do not retry; a failed conversion is reported once and left to the caller.
type Converter interface {
	// Convert reads the PDF at pdfPath and returns the converted content.
	// pages limits extraction to the first N pages when non-negative; the
	// docling and marker variants ignore it and always convert the full
	// document.
	Convert(ctx context.Context, pdfPath string, pages int) (string, error)

	// Variant identifies the engine behind this converter.
	Variant() types.Variant
}

// ErrNotReadable marks a file that could not be opened for reading.
var ErrNotReadable = errors.New("input file not readable")

// EngineError reports that a conversion engine rejected a file: corrupt
// PDF, unsupported encoding, or an engine process failure.
type EngineError struct {
	Engine string
	Path   string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: converting %s: %v", e.Engine, filepath.Base(e.Path), e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// New builds the converter for the configured variant. External-engine
// variants fail here when their binary is not on PATH, before any batch
// starts.
func New(cfg types.ConvertConfig) (Converter, error) {
	switch cfg.Variant {
	case types.VariantPymu:
		return NewPymu(), nil
	case types.VariantDocling:
		return NewDocling()
	case types.VariantMarker:
		return NewMarker(cfg.NumDevices, cfg.NumWorkers)
	}
	return nil, fmt.Errorf("unknown converter %q", cfg.Variant)
}

// Preflight checks that a PDF is readable and structurally valid before it
// is handed to an engine. Readability failures unwrap to ErrNotReadable;
// structural failures are reported as an EngineError from the validator.
func Preflight(pdfPath string) error {
	f, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotReadable, err)
	}
	f.Close()

	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return &EngineError{Engine: "pdfcpu", Path: pdfPath, Err: fmt.Errorf("invalid PDF: %w", err)}
	}
	return nil
}

// stem returns the file name without directory or extension.
func stem(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
