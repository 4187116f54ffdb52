package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbridge/internal/cli/output"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List SQL dialects supported by the engine",
		Long: `Query the SQLGlot engine for its supported dialect names.

The list is fetched once per process and cached; it only changes when the
engine itself is upgraded.`,
		Example: `  sqlbridge dialects
  sqlbridge dialects --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			dialects, err := cmdCtx.Bridge.Dialects(cmd.Context())
			if err != nil {
				return err
			}

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(dialects)
			case output.ModeMarkdown:
				r.Println("## Supported dialects")
				r.Println("")
				for _, d := range dialects {
					r.Printf("- %s\n", d)
				}
				return nil
			default:
				return renderDialectsTable(r, dialects)
			}
		},
	}
}

func renderDialectsTable(r *output.Renderer, dialects []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Dialect"})
	for i, d := range dialects {
		t.AppendRow(table.Row{i + 1, d})
	}
	t.Render()
	r.Printf("%d dialects\n", len(dialects))
	return nil
}
