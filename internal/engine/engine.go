// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine locates and runs external conversion executables.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, env []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, env []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// Tool is an external executable resolved on the system search path. The
// invocation contract (arguments, environment, outputs) is owned by the
// tool itself.
type Tool struct {
	bin  string
	path string
	exec executor
}

// Lookup resolves bin on PATH. It fails when the binary is missing, so a
// run aborts before any batch starts rather than failing per file.
func Lookup(bin string) (*Tool, error) {
	return lookup(bin, defaultExec)
}

func lookup(bin string, exec executor) (*Tool, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", bin, err)
	}
	return &Tool{bin: bin, path: path, exec: exec}, nil
}

// Name returns the binary name the tool was resolved from.
func (t *Tool) Name() string { return t.bin }

// Run executes the tool with the given arguments and extra environment
// variables, waiting for it to exit. Combined output is captured and
// included in the error when the tool fails; context cancellation kills
// the process.
func (t *Tool) Run(ctx context.Context, args []string, env []string) error {
	var out bytes.Buffer
	if err := t.exec.Run(ctx, t.bin, args, env, &out, &out); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("running %s: %w", t.bin, ctx.Err())
		}
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", t.bin, err, tail(msg, 400))
		}
		return fmt.Errorf("running %s: %w", t.bin, err)
	}
	return nil
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
