// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlbridge/internal/cli/output"
)

// StubEngine writes a shell script standing in for the SQLGlot engine and
// returns the interpreter and script paths to configure the bridge with.
// The body runs with the engine subcommand and flags in "$@" and the SQL
// payload, if any, on stdin.
func StubEngine(t *testing.T, body string) (python, script string) {
	t.Helper()
	script = filepath.Join(t.TempDir(), "engine.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub engine: %v", err)
	}
	return "/bin/sh", script
}

// CountingStubEngine is StubEngine plus a counter file recording one byte
// per invocation, for asserting how often the engine was spawned.
func CountingStubEngine(t *testing.T, body string) (python, script, countFile string) {
	t.Helper()
	dir := t.TempDir()
	countFile = filepath.Join(dir, "count")
	script = filepath.Join(dir, "engine.sh")
	content := fmt.Sprintf("#!/bin/sh\nprintf x >> %q\n%s\n", countFile, body)
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write stub engine: %v", err)
	}
	return "/bin/sh", script, countFile
}

// Invocations reports how many times a counting stub engine ran.
func Invocations(t *testing.T, countFile string) int {
	t.Helper()
	data, err := os.ReadFile(countFile)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return len(data)
}

// TestRenderer wraps a Renderer with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}
