package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		sub  string
		opts Options
		want []string
	}{
		{
			name: "all flags",
			sub:  "transpile",
			opts: Options{Read: "Postgres", Write: "DuckDB", Identify: true},
			want: []string{"transpile", "--read", "Postgres", "--write", "DuckDB", "--identify"},
		},
		{
			name: "no flags",
			sub:  "format",
			opts: Options{},
			want: []string{"format"},
		},
		{
			name: "write only",
			sub:  "transpile",
			opts: Options{Write: "duckdb"},
			want: []string{"transpile", "--write", "duckdb"},
		},
		{
			name: "read only",
			sub:  "transpile",
			opts: Options{Read: "mysql"},
			want: []string{"transpile", "--read", "mysql"},
		},
		{
			name: "identify only",
			sub:  "format",
			opts: Options{Identify: true},
			want: []string{"format", "--identify"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildArgs(tt.sub, tt.opts))
		})
	}
}

func TestRunTranspileReturnsReplaceOutcome(t *testing.T) {
	b := NewBridge(stubEngine(t, `printf 'SELECT 1 /* duckdb */'`), nil)

	out, err := b.Run(context.Background(), Request{
		Op:      OpTranspile,
		Payload: "SELECT 1",
		Options: Options{Write: "DuckDB"},
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplace, out.Kind)
	assert.Equal(t, "SELECT 1 /* duckdb */", out.Text)
}

func TestRunPreservesEngineOutputVerbatim(t *testing.T) {
	// Trailing newline handling is the engine's call, not ours.
	b := NewBridge(stubEngine(t, `printf 'SELECT\n    1\n'`), nil)

	out, err := b.Run(context.Background(), Request{Op: OpFormat, Payload: "select 1"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n    1\n", out.Text)
}

func TestRunFailureCarriesDiagnosticVerbatim(t *testing.T) {
	b := NewBridge(stubEngine(t, `printf 'Error: SQL transpilation failed' >&2; exit 1`), nil)

	_, err := b.Run(context.Background(), Request{Op: OpTranspile, Payload: "not sql"})
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.ExitCode)
	assert.Equal(t, "Error: SQL transpilation failed", execErr.Diagnostic)
}

func TestFormatIsAFixedPoint(t *testing.T) {
	// The stub's "formatting" (uppercasing) is idempotent, like the real
	// engine's pretty printer on well-formed input.
	b := NewBridge(stubEngine(t, `tr 'a-z' 'A-Z'`), nil)

	first, err := b.Format(context.Background(), "select 1", Options{})
	require.NoError(t, err)
	second, err := b.Format(context.Background(), first, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBlankPayloadRejectedBeforeInvocation(t *testing.T) {
	runner, count := countingStub(t, `cat`)
	b := NewBridge(runner, nil)

	for _, payload := range []string{"", "   ", "\n\t\n"} {
		_, err := b.Transpile(context.Background(), payload, Options{})
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Equal(t, 0, invocations(t, count))
}

func TestRunDialectsServedFromCache(t *testing.T) {
	runner, count := countingStub(t, `printf '["duckdb", "postgres"]'`)
	b := NewBridge(runner, nil)

	for i := 0; i < 3; i++ {
		out, err := b.Run(context.Background(), Request{Op: OpDialects})
		require.NoError(t, err)
		assert.Equal(t, OutcomeDisplay, out.Kind)
		assert.Equal(t, []string{"duckdb", "postgres"}, out.List)
	}
	assert.Equal(t, 1, invocations(t, count))
}

func TestCheckInstallTrimsVersion(t *testing.T) {
	b := NewBridge(stubEngine(t, `printf '  27.16.0\n'`), nil)

	out := b.CheckInstall(context.Background())
	assert.Equal(t, OutcomeDisplay, out.Kind)
	assert.Equal(t, "27.16.0", out.Text)
}

func TestCheckInstallMissingScriptAdvises(t *testing.T) {
	runner := NewRunner(RunnerConfig{
		Python: "/bin/sh",
		Script: filepath.Join(t.TempDir(), "missing.sh"),
	})
	b := NewBridge(runner, nil)

	out, err := b.Run(context.Background(), Request{Op: OpCheckInstall})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvise, out.Kind)
	assert.Equal(t, InstallAdvice, out.Text)
}

func TestCheckInstallEngineFailureAdvises(t *testing.T) {
	b := NewBridge(stubEngine(t, `echo 'sqlglot not importable' >&2; exit 1`), nil)

	out := b.CheckInstall(context.Background())
	assert.Equal(t, OutcomeAdvise, out.Kind)
	assert.Contains(t, out.Text, "pip install sqlglot")
}

func TestRunUnknownOperation(t *testing.T) {
	b := NewBridge(stubEngine(t, `cat`), nil)

	_, err := b.Run(context.Background(), Request{Op: "explode"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}
