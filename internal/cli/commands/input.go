package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// readSQL resolves the SQL payload for transpile/fmt.
// Priority: --sql flag > file argument > stdin.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if cmd.Flags().Changed("sql") {
		sql, _ := cmd.Flags().GetString("sql")
		return sql, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
