package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Op is a user-level operation handled by the bridge.
type Op string

// Supported operations.
const (
	OpTranspile    Op = "transpile"
	OpFormat       Op = "format"
	OpDialects     Op = "list-dialects"
	OpCheckInstall Op = "check-install"
)

// Options are the engine flags shared by transpile and format.
type Options struct {
	// Read is the source dialect. Empty means engine default.
	Read string
	// Write is the target dialect. Empty means engine default.
	Write string
	// Identify requests that all identifiers be quoted in the output.
	Identify bool
}

// Request describes a single bridge operation. Transpile and format carry the
// SQL payload; list-dialects and check-install never do.
type Request struct {
	Op      Op
	Payload string
	Options Options
}

// OutcomeKind tells the caller what to do with an Outcome.
type OutcomeKind int

const (
	// OutcomeReplace: substitute Text for the original input span, verbatim.
	OutcomeReplace OutcomeKind = iota
	// OutcomeDisplay: show Text or List to the user.
	OutcomeDisplay
	// OutcomeAdvise: the engine is not usable; Text holds remediation steps.
	OutcomeAdvise
)

// Outcome is the interpreted result of a bridge operation.
type Outcome struct {
	Kind OutcomeKind
	Text string
	List []string
}

// InstallAdvice is shown when the engine cannot be reached at all. A missing
// installation is an expected condition, not an execution error.
const InstallAdvice = "sqlglot engine not available.\n" +
	"Install it with: python -m pip install sqlglot\n" +
	"Then point sqlbridge at the engine script via --script or sqlbridge.yaml."

// Bridge translates user-level operations into engine invocations and
// interprets exit status and output. One child process per Run, no retries.
type Bridge struct {
	runner *Runner
	cache  *DialectCache
	logger *slog.Logger
}

// NewBridge creates a bridge with a fresh dialect cache.
func NewBridge(runner *Runner, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		runner: runner,
		cache:  NewDialectCache(runner),
		logger: logger,
	}
}

// Cache exposes the dialect cache, mainly for explicit Reset.
func (b *Bridge) Cache() *DialectCache {
	return b.cache
}

// BuildArgs constructs the engine argument list for a subcommand. Order is
// fixed: subcommand, --read, --write, --identify.
func BuildArgs(subcommand string, opts Options) []string {
	args := []string{subcommand}
	if opts.Read != "" {
		args = append(args, "--read", opts.Read)
	}
	if opts.Write != "" {
		args = append(args, "--write", opts.Write)
	}
	if opts.Identify {
		args = append(args, "--identify")
	}
	return args
}

// Run executes one operation against the engine.
func (b *Bridge) Run(ctx context.Context, req Request) (Outcome, error) {
	switch req.Op {
	case OpTranspile, OpFormat:
		text, err := b.rewrite(ctx, string(req.Op), req.Payload, req.Options)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeReplace, Text: text}, nil

	case OpDialects:
		dialects, err := b.cache.Dialects(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeDisplay, List: dialects}, nil

	case OpCheckInstall:
		return b.checkInstall(ctx), nil

	default:
		return Outcome{}, fmt.Errorf("unknown operation: %s", req.Op)
	}
}

// Transpile converts SQL between dialects and returns the engine's output
// verbatim, including trailing newline handling exactly as emitted.
func (b *Bridge) Transpile(ctx context.Context, sql string, opts Options) (string, error) {
	return b.rewrite(ctx, "transpile", sql, opts)
}

// Format pretty-prints SQL. Formatting is a fixed point: formatting already
// formatted output yields the same text.
func (b *Bridge) Format(ctx context.Context, sql string, opts Options) (string, error) {
	return b.rewrite(ctx, "format", sql, opts)
}

// Dialects returns the supported dialect names, cached after the first call.
func (b *Bridge) Dialects(ctx context.Context) ([]string, error) {
	return b.cache.Dialects(ctx)
}

// CheckInstall queries the engine version. It never returns an error: a
// missing or broken installation yields an advisory outcome instead.
func (b *Bridge) CheckInstall(ctx context.Context) Outcome {
	return b.checkInstall(ctx)
}

func (b *Bridge) rewrite(ctx context.Context, subcommand, sql string, opts Options) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", ErrEmptyInput
	}

	args := BuildArgs(subcommand, opts)
	res, err := b.runner.Invoke(ctx, args, sql)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &ExecError{Args: args, ExitCode: res.ExitCode, Diagnostic: res.Output}
	}
	return res.Output, nil
}

func (b *Bridge) checkInstall(ctx context.Context) Outcome {
	res, err := b.runner.Invoke(ctx, []string{"version"}, "")
	if err != nil {
		b.logger.Debug("install check failed", "error", err)
		return Outcome{Kind: OutcomeAdvise, Text: InstallAdvice}
	}
	if res.ExitCode != 0 {
		b.logger.Debug("install check failed",
			"exit_code", res.ExitCode, "output", strings.TrimSpace(res.Output))
		return Outcome{Kind: OutcomeAdvise, Text: InstallAdvice}
	}
	return Outcome{Kind: OutcomeDisplay, Text: strings.TrimSpace(res.Output)}
}
