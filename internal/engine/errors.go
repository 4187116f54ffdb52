package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conditions detected before or during engine invocation.
var (
	// ErrScriptNotFound means the configured engine script does not exist on disk.
	ErrScriptNotFound = errors.New("engine script not found")

	// ErrEngineTimeout means an invocation exceeded the configured timeout
	// and the child process was killed.
	ErrEngineTimeout = errors.New("engine invocation timed out")

	// ErrEmptyInput means transpile or format was requested with a blank payload.
	ErrEmptyInput = errors.New("no SQL provided")
)

// ExecError means the engine ran but exited non-zero. The diagnostic is the
// child's combined output, verbatim, and is meant to be shown to the user.
type ExecError struct {
	Args       []string
	ExitCode   int
	Diagnostic string
}

func (e *ExecError) Error() string {
	diag := strings.TrimSpace(e.Diagnostic)
	if diag == "" {
		return fmt.Sprintf("engine %s failed with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	}
	return diag
}

// DialectError means the dialect list could not be fetched or was malformed.
// The cache stays unpopulated so a later call may retry.
type DialectError struct {
	Reason string
	Err    error
}

func (e *DialectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch dialects: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to fetch dialects: %s", e.Reason)
}

func (e *DialectError) Unwrap() error {
	return e.Err
}
