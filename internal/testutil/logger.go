// Package testutil provides test utilities for structured logging. The
// engine runner logs every child-process invocation at Debug; routing those
// records through the test's own log keeps subprocess-heavy tests quiet
// unless they fail.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a logger that routes records through t.Log, so
// engine invocation logs only surface on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
