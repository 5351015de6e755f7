package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/doctor"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var (
	doctorFlags       EndpointFlags
	doctorTimeoutFlag string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and robot connectivity",
	Long: `Run a series of checks and report anything that would get in the way of
driving: the config file, the robot's address, whether its command port
accepts connections, whether it echoes keep-alives, and its battery level.

Examples:
  hexctl doctor
  hexctl doctor --target 192.168.4.1:8080
  hexctl doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), os.Stdout)
	},
}

func init() {
	AddEndpointFlags(doctorCmd, &doctorFlags)
	doctorCmd.Flags().StringVar(&doctorTimeoutFlag, "timeout", "", "per-check network timeout (default from timing.connect_timeout)")
	rootCmd.AddCommand(doctorCmd)
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

func doctorCommand(ctx context.Context, w io.Writer) error {
	timeout, err := ParseTimeout(doctorTimeoutFlag)
	if err != nil {
		return err
	}

	results := runDoctor(ctx, Config(), doctorFlags, timeout)

	if machineMode {
		if err := WriteJSONSuccess(w, buildDoctorOutput(results)); err != nil {
			return err
		}
	} else {
		outputDoctorText(w, results)
	}

	if doctor.Worst(results) == doctor.StatusFail {
		os.Exit(1)
	}
	return nil
}

// runDoctor runs the config checks, then the robot checks if an endpoint
// can be worked out. Config errors don't stop the robot checks: defaults
// still give an address to try.
func runDoctor(ctx context.Context, cfgPath string, flags EndpointFlags, timeout time.Duration) []doctor.CheckResult {
	results := doctor.RunAll(ctx, []doctor.Check{
		&doctor.ConfigFileCheck{ConfigPath: cfgPath},
		&doctor.ConfigSchemaCheck{ConfigPath: cfgPath},
	})

	cfg, _, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	ep, err := flags.Resolve(cfg)
	if err != nil {
		return append(results, doctor.CheckResult{
			Name:       "address",
			Category:   "ROBOT",
			Status:     doctor.StatusFail,
			Message:    errorMessage(err),
			Suggestion: "Set a valid address with 'hexctl config set robot.address <ip>'",
		})
	}

	if timeout == 0 {
		timeout = linkOptions(cfg.Timing).ConnectTimeout
	}

	alias := flags.Address
	if alias == "" && flags.Target == "" {
		alias = cfg.Robot.Address
	}

	checks := doctor.RobotChecks(ep, alias, timeout, telemetryOptions(cfg.Timing))
	return append(results, doctor.RunAll(ctx, checks)...)
}

func buildDoctorOutput(results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupResults(results)
	out := DoctorOutput{Categories: []CategoryOutput{}}
	for _, name := range doctor.Categories {
		if rs := grouped[name]; len(rs) > 0 {
			out.Categories = append(out.Categories, CategoryOutput{Name: name, Results: rs})
		}
	}

	counts := doctor.CountByStatus(results)
	out.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: doctor.Worst(results) == doctor.StatusPass,
	}
	return out
}

func outputDoctorText(w io.Writer, results []doctor.CheckResult) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("hexctl Diagnostic Report"))
	fmt.Fprintln(w)

	grouped := doctor.GroupResults(results)
	for _, category := range doctor.Categories {
		rs := grouped[category]
		if len(rs) == 0 {
			continue
		}

		fmt.Fprintln(w, headerStyle.Render(category))
		for _, r := range rs {
			renderCheckResult(w, r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if doctor.Worst(results) != doctor.StatusPass {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	}
	fmt.Fprintln(w)
}

func renderCheckResult(w io.Writer, result doctor.CheckResult) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolComplete
		style = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	case doctor.StatusWarn:
		symbol = ui.SymbolComplete // Still shows as done, but with warning styling
		style = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		symbol = ui.SymbolFail
		style = lipgloss.NewStyle().Foreground(ui.ColorError)
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", muted.Render(line))
		}
	}
}
