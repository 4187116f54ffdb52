// Package engine bridges to the external SQLGlot engine. It runs the engine
// script as a child process, caches the supported-dialect list, and maps
// high-level operations onto engine subcommands.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes the engine script as a child process and reports its
// combined output and exit status. It is a pure transport: a non-zero exit
// code is returned in the Result, not as an error. Interpretation belongs to
// the Bridge.
type Runner struct {
	python  string
	script  string
	timeout time.Duration
	logger  *slog.Logger
}

// RunnerConfig holds runner configuration.
type RunnerConfig struct {
	// Python is the interpreter used to run the engine script.
	Python string
	// Script is the path to the engine script.
	Script string
	// Timeout bounds a single invocation. Zero means no timeout.
	Timeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Result is the outcome of a single engine invocation.
type Result struct {
	ExitCode int
	Output   string
}

// NewRunner creates a runner for the configured engine script.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	return &Runner{
		python:  python,
		script:  cfg.Script,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Script returns the configured engine script path.
func (r *Runner) Script() string {
	return r.script
}

// Python returns the configured interpreter.
func (r *Runner) Python() string {
	return r.python
}

// Invoke runs the engine with the given subcommand arguments. If input is
// non-empty it becomes the child's entire stdin; otherwise no stdin is
// attached. The call blocks until the child exits and returns its combined
// stdout and stderr.
func (r *Runner) Invoke(ctx context.Context, args []string, input string) (Result, error) {
	if r.script == "" {
		return Result{}, fmt.Errorf("%w: no script configured", ErrScriptNotFound)
	}
	if _, err := os.Stat(r.script); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrScriptNotFound, r.script)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmdArgs := append([]string{r.script}, args...)
	cmd := exec.CommandContext(runCtx, r.python, cmdArgs...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	// Don't let grandchildren holding the output pipe stall the wait after
	// the child is killed.
	cmd.WaitDelay = time.Second

	start := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if err != nil {
		// The runner's own deadline is a timeout; anything inherited from
		// the caller's context is a cancellation, not an engine failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("engine invocation aborted: %w", ctxErr)
		}
		if r.timeout > 0 && runCtx.Err() == context.DeadlineExceeded {
			r.logger.Warn("engine invocation timed out", "args", args, "timeout", r.timeout)
			return Result{}, fmt.Errorf("%w after %s", ErrEngineTimeout, r.timeout)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res := Result{ExitCode: exitErr.ExitCode(), Output: string(out)}
			r.logger.Debug("engine exited non-zero",
				"args", args, "exit_code", res.ExitCode, "elapsed", elapsed)
			return res, nil
		}
		// Start failure: missing interpreter, permission problem, etc.
		return Result{}, fmt.Errorf("failed to run engine: %w", err)
	}

	r.logger.Debug("engine invocation succeeded",
		"args", args, "output_bytes", len(out), "elapsed", elapsed)
	return Result{ExitCode: 0, Output: string(out)}, nil
}
