package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/sqlbridge/internal/cli/config"
	clitestutil "github.com/leapstack-labs/sqlbridge/internal/cli/testutil"
	"github.com/leapstack-labs/sqlbridge/internal/engine"
	"github.com/leapstack-labs/sqlbridge/internal/testutil"
)

func stubContext(t *testing.T, body string) *CommandContext {
	t.Helper()
	python, script := clitestutil.StubEngine(t, body)
	logger := testutil.NewTestLogger(t)
	runner := engine.NewRunner(engine.RunnerConfig{Python: python, Script: script, Logger: logger})
	return &CommandContext{
		Cfg:    &config.Config{Engine: config.EngineConfig{Python: python, Script: script}},
		Logger: logger,
		Bridge: engine.NewBridge(runner, logger),
	}
}

func TestDotCommandQuit(t *testing.T) {
	cmd, _, _ := newTestCommand()
	cmdCtx := stubContext(t, `cat`)
	opts := engine.Options{}

	assert.True(t, handleDotCommand(cmd, cmdCtx, &opts, ".quit"))
	assert.True(t, handleDotCommand(cmd, cmdCtx, &opts, ".exit"))
}

func TestDotCommandSetDialects(t *testing.T) {
	cmd, out, _ := newTestCommand()
	cmdCtx := stubContext(t, `cat`)
	opts := engine.Options{Write: "duckdb"}

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".read postgres"))
	assert.Equal(t, "postgres", opts.Read)

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".write -"))
	assert.Empty(t, opts.Write, ".write - clears the dialect")

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".identify on"))
	assert.True(t, opts.Identify)

	assert.Contains(t, out.String(), "read dialect set to postgres")
}

func TestDotCommandDialects(t *testing.T) {
	cmd, out, _ := newTestCommand()
	cmdCtx := stubContext(t, `printf '["duckdb", "mysql"]'`)
	opts := engine.Options{}

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".dialects"))
	assert.Contains(t, out.String(), "duckdb, mysql")
}

func TestDotCommandDialectsFetchFailure(t *testing.T) {
	cmd, _, errOut := newTestCommand()
	cmdCtx := stubContext(t, `exit 1`)
	opts := engine.Options{}

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".dialects"))
	assert.Contains(t, errOut.String(), "Error:")
}

func TestDotCommandUnknown(t *testing.T) {
	cmd, out, _ := newTestCommand()
	cmdCtx := stubContext(t, `cat`)
	opts := engine.Options{}

	assert.False(t, handleDotCommand(cmd, cmdCtx, &opts, ".bogus"))
	assert.Contains(t, out.String(), "Unknown command")
}
