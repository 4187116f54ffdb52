package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display SQLBridge version information. Use doctor for the engine version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SQLBridge v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Editor bridge for the SQLGlot engine")
		},
	}
}
