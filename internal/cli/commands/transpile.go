package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTranspileCommand creates the transpile command.
func NewTranspileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transpile [file]",
		Short: "Transpile SQL between dialects",
		Long: `Read SQL from a file, the --sql flag, or stdin, convert it with the
SQLGlot engine, and write the converted SQL to stdout verbatim.

Editors pipe the selected span through this command and replace the span
with the output. Nothing is added or stripped beyond what the engine emits.`,
		Example: `  # Postgres to DuckDB from stdin
  echo 'SELECT 1' | sqlbridge transpile --read postgres --write duckdb

  # From a file, quoting all identifiers
  sqlbridge transpile query.sql --write snowflake --identify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}

			result, err := cmdCtx.Bridge.Transpile(cmd.Context(), sql, cmdCtx.Options(cmd))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().String("sql", "", "SQL to transpile (instead of a file or stdin)")

	return cmd
}
