// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared configuration and data model for pdfbatch.
package types

import (
	"fmt"
	"time"
)

// Variant identifies the conversion engine a run dispatches to.
type Variant string

const (
	// VariantPymu is in-process plain-text extraction, the fastest option.
	VariantPymu Variant = "pymu"

	// VariantDocling is structure-aware conversion with table recognition,
	// delegated to the docling executable.
	VariantDocling Variant = "docling"

	// VariantMarker is GPU-accelerated formatting-preserving conversion,
	// delegated to the marker_chunk_convert executable.
	VariantMarker Variant = "marker"
)

// OutputExt returns the file extension for converted output: ".txt" for the
// plain-text variant, ".md" for the Markdown-producing variants.
func (v Variant) OutputExt() string {
	if v == VariantPymu {
		return ".txt"
	}
	return ".md"
}

// ParseVariant validates a converter name from the CLI or a config file.
func ParseVariant(name string) (Variant, error) {
	switch v := Variant(name); v {
	case VariantPymu, VariantDocling, VariantMarker:
		return v, nil
	}
	return "", fmt.Errorf("unknown converter %q (expected docling, marker, or pymu)", name)
}

// ConvertConfig holds settings for a conversion run.
type ConvertConfig struct {
	// Variant selects the conversion engine: pymu, docling, or marker.
	Variant Variant `json:"converter" yaml:"converter"`

	// InputDir is the directory scanned for PDF files.
	InputDir string `json:"input" yaml:"input"`

	// OutputDir is the directory converted files are written to.
	OutputDir string `json:"output" yaml:"output"`

	// BatchSize is the number of files processed per batch (default 100).
	// Batches run strictly sequentially.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// NumProcesses bounds concurrent conversions for the CPU variants
	// (default 4).
	NumProcesses int `json:"num_processes" yaml:"num_processes"`

	// Pages limits extraction to the first N pages. Only the pymu variant
	// honors it; -1 (default) extracts all pages.
	Pages int `json:"pages" yaml:"pages"`

	// NumDevices is the GPU device count for the marker variant (default 1).
	NumDevices int `json:"num_devices" yaml:"num_devices"`

	// NumWorkers is the worker count per device for the marker variant
	// (default 16).
	NumWorkers int `json:"num_workers" yaml:"num_workers"`

	// JobTimeout bounds a single file's conversion. Zero (default) leaves
	// conversions unbounded, so a hung engine call occupies its worker slot
	// for the rest of the batch.
	JobTimeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Workers returns the concurrency bound for a batch: device count times
// workers per device for the GPU variant, process count otherwise.
func (c ConvertConfig) Workers() int {
	if c.Variant == VariantMarker {
		return c.NumDevices * c.NumWorkers
	}
	return c.NumProcesses
}

// Validate checks that the configuration is internally consistent.
func (c ConvertConfig) Validate() error {
	if _, err := ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Workers() < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Workers())
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.JobTimeout)
	}
	return nil
}
