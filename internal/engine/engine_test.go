// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(name string, args []string, env []string, stdout, stderr io.Writer) error

	gotArgs []string
	gotEnv  []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, env []string, stdout, stderr io.Writer) error {
	m.gotArgs = args
	m.gotEnv = env
	if m.runFunc != nil {
		return m.runFunc(name, args, env, stdout, stderr)
	}
	return nil
}

func TestLookup(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"docling": true}}

	tool, err := lookup("docling", exec)
	require.NoError(t, err)
	assert.Equal(t, "docling", tool.Name())

	_, err = lookup("marker_chunk_convert", exec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found on PATH")
}

func TestToolRun(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"docling": true}}
	tool, err := lookup("docling", exec)
	require.NoError(t, err)

	err = tool.Run(context.Background(), []string{"--to", "md", "in.pdf"}, []string{"NUM_DEVICES=2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--to", "md", "in.pdf"}, exec.gotArgs)
	assert.Equal(t, []string{"NUM_DEVICES=2"}, exec.gotEnv)
}

func TestToolRunFailureIncludesOutput(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"docling": true},
		runFunc: func(name string, args []string, env []string, stdout, stderr io.Writer) error {
			io.WriteString(stderr, "cannot parse input\n")
			return errors.New("exit status 1")
		},
	}
	tool, err := lookup("docling", exec)
	require.NoError(t, err)

	err = tool.Run(context.Background(), []string{"in.pdf"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parse input")
}

func TestToolRunCancelled(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"docling": true},
		runFunc: func(name string, args []string, env []string, stdout, stderr io.Writer) error {
			return errors.New("signal: killed")
		},
	}
	tool, err := lookup("docling", exec)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = tool.Run(ctx, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTail(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := tail(long, 400)
	assert.Len(t, got, 403) // "..." prefix plus 400 bytes
	assert.Equal(t, "short", tail("short", 400))
}
