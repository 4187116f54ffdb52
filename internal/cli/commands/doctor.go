package commands

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbridge/internal/cli/output"
	"github.com/leapstack-labs/sqlbridge/internal/engine"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks    []InstallCheck `json:"checks"`
	Version   string         `json:"version,omitempty"`
	Advisory  string         `json:"advisory,omitempty"`
	Installed bool           `json:"installed"`
}

// InstallCheck is a single installation check result.
type InstallCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass" or "fail"
	Detail string `json:"detail,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the engine installation",
		Long: `Verify that the SQLGlot engine is usable: the interpreter is on PATH,
the engine script exists, and the engine answers a version query.

A missing installation is reported with install instructions, not treated
as a command failure; doctor always exits 0.`,
		Example: `  sqlbridge doctor
  sqlbridge doctor --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			out := runInstallChecks(cmd, cmdCtx)

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(out)
			case output.ModeMarkdown:
				renderDoctorMarkdown(r, out)
				return nil
			default:
				renderDoctorText(r, out)
				return nil
			}
		},
	}
}

func runInstallChecks(cmd *cobra.Command, cmdCtx *CommandContext) *DoctorOutput {
	cfg := cmdCtx.Cfg
	out := &DoctorOutput{}

	check := func(name string, ok bool, detail string) bool {
		status := "pass"
		if !ok {
			status = "fail"
		}
		out.Checks = append(out.Checks, InstallCheck{Name: name, Status: status, Detail: detail})
		return ok
	}

	interpreterOK := true
	if _, err := exec.LookPath(cfg.Engine.Python); err != nil {
		interpreterOK = false
	}
	check("interpreter", interpreterOK, cfg.Engine.Python)

	scriptOK := cfg.Engine.Script != ""
	scriptDetail := cfg.Engine.Script
	if scriptOK {
		if _, err := os.Stat(cfg.Engine.Script); err != nil {
			scriptOK = false
		}
	} else {
		scriptDetail = "not configured (set engine.script or --script)"
	}
	check("engine script", scriptOK, filepath.Clean(scriptDetail))

	result := cmdCtx.Bridge.CheckInstall(cmd.Context())
	if result.Kind == engine.OutcomeDisplay {
		out.Installed = true
		out.Version = result.Text
		check("engine version", true, result.Text)
	} else {
		out.Advisory = result.Text
		check("engine version", false, "version query failed")
	}

	return out
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header1.Render("SQLBridge Installation Check"))
	r.Println("")

	for _, c := range out.Checks {
		icon := styles.Success.Render("ok")
		if c.Status != "pass" {
			icon = styles.Error.Render("FAIL")
		}
		r.Printf("  %-16s %s  %s\n", c.Name, icon, styles.Muted.Render(c.Detail))
	}
	r.Println("")

	if out.Installed {
		r.Println(styles.Success.Render("sqlglot " + out.Version))
		return
	}
	r.Println(styles.Warning.Render(out.Advisory))
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# SQLBridge Installation Check")
	r.Println("")
	for _, c := range out.Checks {
		status := "PASS"
		if c.Status != "pass" {
			status = "FAIL"
		}
		r.Printf("- **[%s]** %s", status, c.Name)
		if c.Detail != "" {
			r.Printf(": %s", c.Detail)
		}
		r.Println("")
	}
	r.Println("")
	if out.Installed {
		r.Printf("Engine version: **%s**\n", out.Version)
		return
	}
	r.Println(out.Advisory)
}
