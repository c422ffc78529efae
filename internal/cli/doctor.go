package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/doctor"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/ui"
	"github.com/spf13/cobra"
)

// DoctorFlags holds the doctor command's flags.
type DoctorFlags struct {
	JSON bool
	Fix  bool
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []doctor.Group `json:"categories"`
	Summary    SummaryOutput  `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand runs every check that applies to the resolved config.
func doctorCommand(cmd *cobra.Command, flags DoctorFlags) error {
	if flags.JSON {
		machineMode = true
	}
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	checks := collectChecks(cmd)
	results := doctor.RunAll(ctx, checks)
	if flags.Fix {
		results = doctor.FixAll(ctx, checks, results)
	}

	if flags.JSON {
		return WriteJSONSuccess(out, newDoctorOutput(checks, results))
	}

	ui.ApplyColorMode(colorSetting(), writerIsTerminal(out))
	renderDoctor(out, checks, results, flags.Fix)
	return nil
}

// collectChecks always checks the config. SSH and dashboard checks need a
// usable config, so a broken one leaves them out.
func collectChecks(cmd *cobra.Command) []doctor.Check {
	checks := doctor.NewConfigChecks(cfgFile)

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return checks
	}

	if cfg.SSH != "" {
		checks = append(checks, doctor.NewSSHChecks(cfg.SSH)...)
	}
	return append(checks, &doctor.DashboardCheck{
		Address: displayAddress(cfg),
		Count:   countNodes(cfg),
		Timeout: cfg.Timeout,
	})
}

// countNodes fetches the node list through the same client the dashboard uses.
func countNodes(cfg *config.Config) doctor.CountFunc {
	return func(ctx context.Context) (int, error) {
		client, release, err := newClient(cfg, logger.Default())
		if err != nil {
			return 0, err
		}
		defer release()

		resp, err := client.NodeList(ctx)
		if err != nil {
			return 0, err
		}
		return len(resp.Data.Summary), nil
	}
}

// colorSetting honors --no-color even when the config can't be loaded.
func colorSetting() string {
	if noColor {
		return "never"
	}
	if cfg, _, err := config.Resolve(cfgFile); err == nil {
		return cfg.Output.Color
	}
	return "auto"
}

func newDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	counts := doctor.CountByStatus(results)
	return DoctorOutput{
		Categories: doctor.GroupResults(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			Fixable:  doctor.FixableCount(results),
			AllClear: !doctor.HasIssues(results),
		},
	}
}

// renderDoctor writes the human-readable report.
func renderDoctor(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("raytop diagnostic report"))
	fmt.Fprintln(w)

	for _, group := range doctor.GroupResults(checks, results) {
		fmt.Fprintln(w, headerStyle.Render(group.Name))
		for _, result := range group.Results {
			symbol, style := ui.SymbolComplete, successStyle
			switch result.Status {
			case doctor.StatusWarn:
				style = warnStyle
			case doctor.StatusFail:
				symbol, style = ui.SymbolFail, errorStyle
			}

			fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)
			if result.Suggestion != "" && result.Status != doctor.StatusPass {
				for _, line := range strings.Split(result.Suggestion, "\n") {
					fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(w)
}
