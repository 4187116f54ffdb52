package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbridge/internal/engine"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive transpile loop",
		Long: `Read SQL interactively, transpile each statement on the terminating
semicolon, and print the result. Dot-commands adjust dialects on the fly.`,
		Example: `  sqlbridge repl --read postgres --write duckdb`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runREPL(cmd, cmdCtx)
		},
	}
}

func runREPL(cmd *cobra.Command, cmdCtx *CommandContext) error {
	opts := cmdCtx.Options(cmd)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlbridge> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "SQLBridge transpile REPL")
	_, _ = fmt.Fprintln(out, "End statements with ';'. Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt("sqlbridge> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, &opts, line); quit {
				break
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt("      ...> ")
			continue
		}
		rl.SetPrompt("sqlbridge> ")

		sql := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		result, err := cmdCtx.Bridge.Transpile(cmd.Context(), sql, opts)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintln(out, strings.TrimRight(result, "\n"))
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand processes a REPL dot-command. Returns true to quit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, opts *engine.Options, line string) bool {
	out := cmd.OutOrStdout()
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		_, _ = fmt.Fprintln(out, "Commands:")
		_, _ = fmt.Fprintln(out, "  .read <dialect>    set the read dialect (.read - to clear)")
		_, _ = fmt.Fprintln(out, "  .write <dialect>   set the write dialect (.write - to clear)")
		_, _ = fmt.Fprintln(out, "  .identify on|off   toggle identifier quoting")
		_, _ = fmt.Fprintln(out, "  .dialects          list supported dialects")
		_, _ = fmt.Fprintln(out, "  .quit              exit")

	case ".read":
		setDialect(out, &opts.Read, "read", parts)

	case ".write":
		setDialect(out, &opts.Write, "write", parts)

	case ".identify":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "identify is %v\n", opts.Identify)
			return false
		}
		opts.Identify = parts[1] == "on" || parts[1] == "true"
		_, _ = fmt.Fprintf(out, "identify set to %v\n", opts.Identify)

	case ".dialects":
		dialects, err := cmdCtx.Bridge.Dialects(cmd.Context())
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintln(out, strings.Join(dialects, ", "))

	default:
		_, _ = fmt.Fprintf(out, "Unknown command %s (try .help)\n", parts[0])
	}
	return false
}

func setDialect(out io.Writer, target *string, name string, parts []string) {
	if len(parts) < 2 {
		if *target == "" {
			_, _ = fmt.Fprintf(out, "%s dialect is unset (engine default)\n", name)
		} else {
			_, _ = fmt.Fprintf(out, "%s dialect is %s\n", name, *target)
		}
		return
	}
	if parts[1] == "-" {
		*target = ""
		_, _ = fmt.Fprintf(out, "%s dialect cleared\n", name)
		return
	}
	*target = parts[1]
	_, _ = fmt.Fprintf(out, "%s dialect set to %s\n", name, parts[1])
}
