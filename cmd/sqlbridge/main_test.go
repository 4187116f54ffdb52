// Package main provides tests for the SQLBridge CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlbridge/internal/cli"
	"github.com/leapstack-labs/sqlbridge/internal/cli/config"
	"github.com/leapstack-labs/sqlbridge/internal/cli/testutil"
)

func execRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execRoot(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "SQLBridge")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execRoot(t, "", "--help")
	require.NoError(t, err)

	for _, expected := range []string{"transpile", "fmt", "dialects", "doctor", "watch", "repl"} {
		assert.Contains(t, out, expected)
	}
}

func TestTranspileCommand(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf 'SELECT 1 /* duckdb */'`)

	out, _, err := execRoot(t, "",
		"transpile", "--python", python, "--script", script,
		"--sql", "SELECT 1", "--write", "duckdb")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 /* duckdb */", out)
}

func TestTranspileFromStdin(t *testing.T) {
	python, script := testutil.StubEngine(t, `cat`)

	out, _, err := execRoot(t, "select a from b",
		"transpile", "--python", python, "--script", script)
	require.NoError(t, err)
	assert.Equal(t, "select a from b", out)
}

func TestTranspileForwardsFlagsToEngine(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '%s ' "$@"`)

	out, _, err := execRoot(t, "x",
		"transpile", "--python", python, "--script", script,
		"--read", "Postgres", "--write", "DuckDB", "--identify")
	require.NoError(t, err)
	assert.Equal(t, "transpile --read Postgres --write DuckDB --identify ", out)
}

func TestTranspileEngineFailure(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf 'Error: unknown dialect: klingon' >&2; exit 1`)

	out, _, err := execRoot(t, "SELECT 1",
		"transpile", "--python", python, "--script", script, "--write", "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect: klingon")
	assert.Empty(t, out, "no replacement text on failure")
}

func TestTranspileEmptyInput(t *testing.T) {
	python, script := testutil.StubEngine(t, `cat`)

	_, _, err := execRoot(t, "   \n",
		"transpile", "--python", python, "--script", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL provided")
}

func TestFmtCommand(t *testing.T) {
	python, script := testutil.StubEngine(t, `tr 'a-z' 'A-Z'`)

	out, _, err := execRoot(t, "select 1", "fmt", "--python", python, "--script", script)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)
}

func TestFmtWriteBack(t *testing.T) {
	python, script := testutil.StubEngine(t, `tr 'a-z' 'A-Z'`)

	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("select 1\n"), 0o644))

	_, _, err := execRoot(t, "", "fmt", "-w", path, "--python", python, "--script", script)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1\n", string(data))
}

func TestFmtWriteBackRequiresFiles(t *testing.T) {
	python, script := testutil.StubEngine(t, `cat`)

	_, _, err := execRoot(t, "", "fmt", "-w", "--python", python, "--script", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file arguments")
}

func TestDialectsCommandJSON(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '["duckdb", "mysql", "postgres"]'`)

	out, _, err := execRoot(t, "",
		"dialects", "--python", python, "--script", script, "--output", "json")
	require.NoError(t, err)

	var dialects []string
	require.NoError(t, json.Unmarshal([]byte(out), &dialects))
	assert.Equal(t, []string{"duckdb", "mysql", "postgres"}, dialects)
}

func TestDialectsCommandMarkdown(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '["duckdb"]'`)

	out, _, err := execRoot(t, "",
		"dialects", "--python", python, "--script", script, "--output", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "- duckdb")
}

func TestDoctorHealthyEngine(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '27.16.0\n'`)

	out, _, err := execRoot(t, "",
		"doctor", "--python", python, "--script", script, "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Installed bool   `json:"installed"`
		Version   string `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.Installed)
	assert.Equal(t, "27.16.0", doc.Version)
}

func TestDoctorMissingEngineAdvisesInstall(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.py")

	out, _, err := execRoot(t, "",
		"doctor", "--script", missing, "--output", "markdown")
	require.NoError(t, err, "a missing engine is an expected condition, not a CLI failure")
	assert.Contains(t, out, "pip install sqlglot")
}

func TestConfigFileProvidesEngine(t *testing.T) {
	python, script := testutil.StubEngine(t, `cat`)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sqlbridge.yaml")
	cfgContent := "engine:\n  python: " + python + "\n  script: " + script + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	out, _, err := execRoot(t, "SELECT 1", "transpile", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execRoot(t, "", "unknown-command")
	assert.Error(t, err)
}

func TestDialectFlagCompletionQueriesEngine(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '["duckdb", "postgres"]'`)

	out, _, err := execRoot(t, "",
		"__complete", "transpile", "--python", python, "--script", script, "--read", "")
	require.NoError(t, err)
	assert.Contains(t, out, "duckdb")
	assert.Contains(t, out, "postgres")
}

func TestDialectFlagCompletionFromEnv(t *testing.T) {
	python, script := testutil.StubEngine(t, `printf '["snowflake"]'`)
	t.Setenv("SQLBRIDGE_ENGINE_PYTHON", python)
	t.Setenv("SQLBRIDGE_ENGINE_SCRIPT", script)

	out, _, err := execRoot(t, "", "__complete", "transpile", "--write", "")
	require.NoError(t, err)
	assert.Contains(t, out, "snowflake")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			_, _, err := execRoot(t, "", "completion", shell)
			assert.NoError(t, err)
		})
	}
}
