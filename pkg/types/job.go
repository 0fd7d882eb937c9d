// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Job is one file's conversion task. Jobs are created at dispatch time for
// every input file whose output does not yet exist, and are immutable.
type Job struct {
	// InputPath is the source PDF file.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the final destination for the converted text.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Variant is the conversion engine handling this job.
	Variant Variant `json:"variant" yaml:"variant"`

	// Pages is the page limit passed to the engine (-1 for all pages).
	Pages int `json:"pages" yaml:"pages"`
}

// ResultStatus indicates the outcome of a single job.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFailure ResultStatus = "failure"
)

// Result is a worker's report for one job. Results feed the run summary and
// the failure log; they are not persisted individually beyond that.
type Result struct {
	Job    Job          `json:"job" yaml:"job"`
	Status ResultStatus `json:"status" yaml:"status"`

	// Err holds the failure message when Status is ResultFailure.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FailureRecord identifies one failed file within a run.
type FailureRecord struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// RunSummary holds the outcome of a conversion run.
type RunSummary struct {
	// RunID uniquely identifies the run in the ledger.
	RunID string `json:"run_id" yaml:"run_id"`

	Variant   Variant `json:"converter" yaml:"converter"`
	InputDir  string  `json:"input" yaml:"input"`
	OutputDir string  `json:"output" yaml:"output"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Converted counts files successfully written this run.
	Converted int `json:"converted" yaml:"converted"`

	// Skipped counts input files whose output already existed.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Failed counts files whose conversion was logged as a failure.
	Failed int `json:"failed" yaml:"failed"`

	// Failures lists the failed files with their error text.
	Failures []FailureRecord `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Total returns the total number of input files considered.
func (s RunSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any files failed conversion.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}
