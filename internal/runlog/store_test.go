// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfbatch/pkg/types"
)

func sampleRun(id string, started time.Time) types.RunSummary {
	return types.RunSummary{
		RunID:      id,
		Variant:    types.VariantPymu,
		InputDir:   "/data/in",
		OutputDir:  "/data/out",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Converted:  7,
		Skipped:    2,
		Failed:     1,
		Failures: []types.FailureRecord{
			{File: "bad.pdf", Error: "corrupt xref table"},
		},
	}
}

func TestStoreRecordAndList(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleRun("run-1", base)))
	require.NoError(t, store.Record(ctx, sampleRun("run-2", base.Add(time.Hour))))

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, types.VariantPymu, runs[0].Variant)
	assert.Equal(t, 7, runs[0].Converted)
	assert.Equal(t, 2, runs[0].Skipped)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, base.Add(time.Hour), runs[0].StartedAt)
}

func TestStoreListLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sum := sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.Record(ctx, sum))
	}

	runs, err := store.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestStoreFailures(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, sampleRun("run-1", time.Now().UTC())))

	failures, err := store.Failures(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.pdf", failures[0].File)
	assert.Equal(t, "corrupt xref table", failures[0].Error)

	none, err := store.Failures(ctx, "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), sampleRun("run-1", time.Now().UTC())))
	require.NoError(t, store.Close())

	// Schema creation is idempotent and earlier rows survive.
	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	sum := sampleRun("run-1", time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))

	require.NoError(t, WriteReport(dir, sum))

	data, err := os.ReadFile(filepath.Join(dir, ledgerDir, reportFile))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "run_id: run-1")
	assert.Contains(t, content, "converter: pymu")
	assert.Contains(t, content, "file: bad.pdf")

	// A later run replaces the report.
	sum.RunID = "run-2"
	require.NoError(t, WriteReport(dir, sum))
	data, err = os.ReadFile(filepath.Join(dir, ledgerDir, reportFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: run-2")
	assert.NotContains(t, string(data), "run_id: run-1")
}
