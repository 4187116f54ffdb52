package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	WriteBack bool // rewrite input files in place
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:     "fmt [file...]",
		Aliases: []string{"format"},
		Short:   "Format SQL with the engine's pretty printer",
		Long: `Pretty-print SQL through the SQLGlot engine. Formatting is a fixed
point: formatting already formatted SQL yields the same text.

With no files, SQL is read from the --sql flag or stdin and the result is
written to stdout. With -w, files are rewritten in place.`,
		Example: `  # Format stdin to stdout
  cat query.sql | sqlbridge fmt

  # Rewrite files in place
  sqlbridge fmt -w models/*.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			if opts.WriteBack {
				if len(args) == 0 {
					return fmt.Errorf("-w requires file arguments")
				}
				for _, path := range args {
					if err := formatFile(cmd, cmdCtx, path); err != nil {
						return err
					}
				}
				return nil
			}

			if len(args) <= 1 {
				sql, err := readSQL(cmd, args)
				if err != nil {
					return err
				}
				result, err := cmdCtx.Bridge.Format(cmd.Context(), sql, cmdCtx.Options(cmd))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
				return nil
			}

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				result, err := cmdCtx.Bridge.Format(cmd.Context(), string(data), cmdCtx.Options(cmd))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	cmd.Flags().String("sql", "", "SQL to format (instead of a file or stdin)")
	cmd.Flags().BoolVarP(&opts.WriteBack, "write-back", "w", false, "Rewrite input files in place")

	return cmd
}

func formatFile(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := cmdCtx.Bridge.Format(cmd.Context(), string(data), cmdCtx.Options(cmd))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if result == string(data) {
		cmdCtx.Logger.Debug("file already formatted", "path", path)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(result), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmdCtx.Logger.Info("formatted", "path", path)
	return nil
}
