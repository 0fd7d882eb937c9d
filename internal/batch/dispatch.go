// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pdfbatch/internal/converter"
	"github.com/pdiddy/pdfbatch/pkg/types"
)

// Dispatcher partitions pending files into batches and runs each batch
// through a bounded worker pool. A failed job is recorded and logged; it
// never aborts the batch.
type Dispatcher struct {
	conv converter.Converter
	cfg  types.ConvertConfig

	// preflight validates an input file before conversion. Tests
	// substitute a no-op.
	preflight func(string) error
}

// New creates a dispatcher for the given converter and configuration.
func New(conv converter.Converter, cfg types.ConvertConfig) *Dispatcher {
	return &Dispatcher{
		conv:      conv,
		cfg:       cfg,
		preflight: converter.Preflight,
	}
}

// Run converts files, writing per-file status lines to w and returning the
// run summary. files is the skip-filtered list; skipped is the count of
// files the filter excluded, carried into the summary. Batches execute
// strictly sequentially; within a batch, jobs run concurrently up to the
// configured parallelism. Run returns an error only for run-level failures
// (unusable failure log, cancellation); per-file failures are reflected in
// the summary.
func (d *Dispatcher) Run(ctx context.Context, files []string, skipped int, w io.Writer) (types.RunSummary, error) {
	sum := types.RunSummary{
		RunID:     uuid.NewString(),
		Variant:   d.cfg.Variant,
		InputDir:  d.cfg.InputDir,
		OutputDir: d.cfg.OutputDir,
		StartedAt: time.Now().UTC(),
		Skipped:   skipped,
	}

	flog, err := OpenFailureLog(d.cfg.OutputDir)
	if err != nil {
		return sum, err
	}
	defer flog.Close()

	out := &syncWriter{w: w}
	ext := d.cfg.Variant.OutputExt()
	numBatches := (len(files) + d.cfg.BatchSize - 1) / d.cfg.BatchSize
	var mu sync.Mutex

	for start := 0; start < len(files); start += d.cfg.BatchSize {
		end := min(start+d.cfg.BatchSize, len(files))
		if numBatches > 1 {
			fmt.Fprintf(out, "Batch %d/%d: %d file(s)\n", start/d.cfg.BatchSize+1, numBatches, end-start)
		}

		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(d.cfg.Workers())

		for _, file := range files[start:end] {
			base := filepath.Base(file)
			job := types.Job{
				InputPath:  file,
				OutputPath: filepath.Join(d.cfg.OutputDir, strings.TrimSuffix(base, filepath.Ext(base))+ext),
				Variant:    d.cfg.Variant,
				Pages:      d.cfg.Pages,
			}

			eg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := d.runJob(gctx, job)

				mu.Lock()
				if res.Status == types.ResultSuccess {
					sum.Converted++
				} else {
					sum.Failed++
					sum.Failures = append(sum.Failures, types.FailureRecord{File: base, Error: res.Err})
				}
				mu.Unlock()

				if res.Status == types.ResultSuccess {
					fmt.Fprintf(out, "converted: %s -> %s\n", base, filepath.Base(job.OutputPath))
					return nil
				}
				fmt.Fprintf(out, "failed:  %s (%s)\n", base, res.Err)
				if err := flog.Append(base, res.Err); err != nil {
					return fmt.Errorf("appending to failure log: %w", err)
				}
				return nil
			})
		}

		// Wait returns non-nil only for cancellation or a broken failure
		// log; job failures are carried in the summary instead.
		if err := eg.Wait(); err != nil {
			sum.FinishedAt = time.Now().UTC()
			return sum, err
		}
	}

	sum.FinishedAt = time.Now().UTC()
	fmt.Fprintf(out, "\nRun summary: %d converted, %d skipped, %d failed (total: %d)\n",
		sum.Converted, sum.Skipped, sum.Failed, sum.Total())
	return sum, nil
}

// runJob converts a single file to completion, mapping every failure mode
// to a Result so the batch keeps going.
func (d *Dispatcher) runJob(ctx context.Context, job types.Job) types.Result {
	if d.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.JobTimeout)
		defer cancel()
	}

	if err := d.preflight(job.InputPath); err != nil {
		return failure(job, err)
	}

	content, err := d.conv.Convert(ctx, job.InputPath, job.Pages)
	if err != nil {
		return failure(job, err)
	}

	if err := WriteOutput(job.OutputPath, content); err != nil {
		return failure(job, err)
	}
	return types.Result{Job: job, Status: types.ResultSuccess}
}

func failure(job types.Job, err error) types.Result {
	return types.Result{Job: job, Status: types.ResultFailure, Err: err.Error()}
}

// syncWriter serializes status lines from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
