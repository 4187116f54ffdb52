// Package cli provides the command-line interface for SQLBridge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbridge/internal/cli/commands"
	"github.com/leapstack-labs/sqlbridge/internal/cli/config"
	"github.com/leapstack-labs/sqlbridge/internal/engine"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlbridge",
		Short: "SQLBridge - editor bridge for the SQLGlot engine",
		Long: `SQLBridge runs the SQLGlot transpilation engine as a child process so
editors can pipe a selected SQL span through it and replace the span with
the result.

Operations: transpile between dialects, format, list supported dialects,
and check the engine installation.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Logging goes to stderr so stdout stays clean for the
			// replacement text editors consume.
			logger := slog.New(slog.DiscardHandler)
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Editor bridge for the SQLGlot engine
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlbridge.yaml)")
	rootCmd.PersistentFlags().String("python", "", "Interpreter used to run the engine script")
	rootCmd.PersistentFlags().String("script", "", "Path to the engine script")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Engine invocation timeout (0 = none)")
	rootCmd.PersistentFlags().String("read", "", "Source SQL dialect (engine default if empty)")
	rootCmd.PersistentFlags().String("write", "", "Target SQL dialect (engine default if empty)")
	rootCmd.PersistentFlags().Bool("identify", false, "Quote all identifiers in output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Dialect flags complete against the engine's dialect list. Completion
	// requests run through the hidden __complete command, which skips the
	// PersistentPreRunE config load, so resolve the config here.
	dialectCompletion := func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg := config.GetCurrentConfig()
		if cfg == nil {
			loaded, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cfg = loaded
		}
		runner := engine.NewRunner(engine.RunnerConfig{
			Python:  cfg.Engine.Python,
			Script:  cfg.Engine.Script,
			Timeout: 2 * time.Second,
		})
		dialects, err := engine.NewDialectCache(runner).Dialects(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return dialects, cobra.ShellCompDirectiveNoFileComp
	}
	_ = rootCmd.RegisterFlagCompletionFunc("read", dialectCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("write", dialectCompletion)

	// Add subcommands
	rootCmd.AddCommand(commands.NewTranspileCommand())
	rootCmd.AddCommand(commands.NewFmtCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command until completion or interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for SQLBridge.

To load completions:

Bash:
  $ source <(sqlbridge completion bash)

Zsh:
  $ sqlbridge completion zsh > "${fpath[1]}/_sqlbridge"

Fish:
  $ sqlbridge completion fish | source

PowerShell:
  PS> sqlbridge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
