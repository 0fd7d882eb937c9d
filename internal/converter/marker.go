// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/pdfbatch/internal/engine"
	"github.com/pdiddy/pdfbatch/pkg/types"
)

const binMarker = "marker_chunk_convert"

// Marker converts PDFs to Markdown with GPU-accelerated formatting
// preservation by invoking the marker_chunk_convert executable. The tool
// operates on directories, so each file is staged into a temporary input
// directory via symlink.
type Marker struct {
	tool    runner
	devices int
	workers int
}

// NewMarker resolves the marker binary on PATH and returns the GPU
// converter. devices and workers shard the engine's own parallelism via
// the NUM_DEVICES and NUM_WORKERS environment variables.
func NewMarker(devices, workers int) (*Marker, error) {
	tool, err := engine.Lookup(binMarker)
	if err != nil {
		return nil, err
	}
	return &Marker{tool: tool, devices: devices, workers: workers}, nil
}

// Variant implements Converter.
func (*Marker) Variant() types.Variant { return types.VariantMarker }

// Convert stages the PDF into a temp directory, runs marker against it,
// and reads back the Markdown. The pages limit is ignored; marker always
// converts the full document.
func (m *Marker) Convert(ctx context.Context, pdfPath string, pages int) (string, error) {
	tmpIn, err := os.MkdirTemp("", "pdfbatch-marker-in-*")
	if err != nil {
		return "", fmt.Errorf("creating temp input directory: %w", err)
	}
	defer os.RemoveAll(tmpIn)

	tmpOut, err := os.MkdirTemp("", "pdfbatch-marker-out-*")
	if err != nil {
		return "", fmt.Errorf("creating temp output directory: %w", err)
	}
	defer os.RemoveAll(tmpOut)

	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", pdfPath, err)
	}
	if err := os.Symlink(abs, filepath.Join(tmpIn, filepath.Base(pdfPath))); err != nil {
		return "", fmt.Errorf("staging %s: %w", pdfPath, err)
	}

	env := []string{
		"NUM_DEVICES=" + strconv.Itoa(m.devices),
		"NUM_WORKERS=" + strconv.Itoa(m.workers),
	}
	if err := m.tool.Run(ctx, []string{tmpIn, tmpOut}, env); err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", &EngineError{Engine: m.tool.Name(), Path: pdfPath, Err: err}
	}

	return readEngineOutput(m.tool.Name(), pdfPath, filepath.Join(tmpOut, stem(pdfPath)+".md"))
}

var _ runner = (*engine.Tool)(nil)
