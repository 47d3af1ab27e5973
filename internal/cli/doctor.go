package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/doctor"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/stream"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// doctorTimeout bounds the whole diagnostic run.
const doctorTimeout = 30 * time.Second

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and connectivity",
	Long: `Run diagnostic checks against the config, the SSH tunnel (when one is
configured), the backend's health endpoint and the monitoring stream.

Exits 1 when any check fails.

Examples:
  vdash doctor
  vdash doctor --json
  vdash doctor --server http://gpu-box:5111`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), doctorJSON)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(ctx context.Context, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	checks, cleanup := collectChecks(logger.Noop())
	defer cleanup()

	results := doctor.RunAllParallel(ctx, checks)

	var err error
	if asJSON {
		err = outputDoctorJSON(out, results)
	} else {
		outputDoctorText(out, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

// collectChecks gathers the checks the current config allows. The config
// checks always run; the rest need a config that loads.
func collectChecks(log logger.Logger) ([]doctor.Check, func()) {
	checks := doctor.NewConfigChecks(cfgFile)

	cfg, _, err := loadConfig()
	if err != nil {
		return checks, func() {}
	}

	rt, err := openSession(cfg, log)
	if err != nil {
		return checks, func() {}
	}

	if rt.tunnel != nil {
		checks = append(checks,
			&doctor.SSHAgentCheck{},
			&doctor.TunnelCheck{Host: cfg.SSH, Tunnel: rt.tunnel},
		)
	}

	if healthURL, err := stream.HealthURL(cfg.Server); err == nil {
		checks = append(checks, &doctor.HealthCheck{URL: healthURL, Client: rt.httpClient()})
	}
	checks = append(checks, &doctor.StreamCheck{URL: rt.url, Dialer: rt.dialer})

	return checks, rt.close
}

func outputDoctorJSON(w io.Writer, results []doctor.CheckResult) error {
	order, grouped := doctor.GroupByCategory(results)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(order)),
	}
	for _, cat := range order {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputDoctorText(w io.Writer, results []doctor.CheckResult) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("vdash diagnostic report"))
	fmt.Fprintln(w)

	order, grouped := doctor.GroupByCategory(results)
	for _, category := range order {
		fmt.Fprintln(w, headerStyle.Render(category))
		for _, result := range grouped[category] {
			renderCheckResult(w, result)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	}
	fmt.Fprintln(w)
}

func renderCheckResult(w io.Writer, result doctor.CheckResult) {
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	var symbol string
	var style lipgloss.Style
	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case doctor.StatusWarn:
		symbol = ui.SymbolWarn
		style = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		symbol = ui.SymbolFail
		style = lipgloss.NewStyle().Foreground(ui.ColorError)
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
		}
	}
}
