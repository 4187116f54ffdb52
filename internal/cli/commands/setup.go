package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbridge/internal/cli/config"
	"github.com/leapstack-labs/sqlbridge/internal/cli/output"
	"github.com/leapstack-labs/sqlbridge/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Bridge   *engine.Bridge
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext wired to the configured engine.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	runner := engine.NewRunner(engine.RunnerConfig{
		Python:  cfg.Engine.Python,
		Script:  cfg.Engine.Script,
		Timeout: cfg.Engine.Timeout,
		Logger:  logger,
	})

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Bridge:   engine.NewBridge(runner, logger),
		Renderer: r,
	}
}

// Options builds engine options from config defaults overridden by the
// command's flags. Absent flags fall back to configured defaults; an unset
// default means "omit the flag", engine decides.
func (c *CommandContext) Options(cmd *cobra.Command) engine.Options {
	opts := engine.Options{
		Read:     c.Cfg.Defaults.Read,
		Write:    c.Cfg.Defaults.Write,
		Identify: c.Cfg.Defaults.Identify,
	}
	if cmd.Flags().Changed("read") {
		opts.Read, _ = cmd.Flags().GetString("read")
	}
	if cmd.Flags().Changed("write") {
		opts.Write, _ = cmd.Flags().GetString("write")
	}
	if cmd.Flags().Changed("identify") {
		opts.Identify, _ = cmd.Flags().GetBool("identify")
	}
	return opts
}

// getConfig returns the current configuration, falling back to environment
// variables when no LoadConfig ran (e.g. commands invoked in isolation).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	timeout, _ := time.ParseDuration(os.Getenv("SQLBRIDGE_ENGINE_TIMEOUT"))
	return &config.Config{
		Engine: config.EngineConfig{
			Python:  getEnvOrDefault("SQLBRIDGE_ENGINE_PYTHON", config.DefaultPython),
			Script:  os.Getenv("SQLBRIDGE_ENGINE_SCRIPT"),
			Timeout: timeout,
		},
		Defaults: config.DialectDefaults{
			Read:     os.Getenv("SQLBRIDGE_DEFAULTS_READ"),
			Write:    os.Getenv("SQLBRIDGE_DEFAULTS_WRITE"),
			Identify: os.Getenv("SQLBRIDGE_DEFAULTS_IDENTIFY") == "true",
		},
		OutputFormat: getEnvOrDefault("SQLBRIDGE_OUTPUT", config.DefaultOutput),
		Verbose:      os.Getenv("SQLBRIDGE_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
