package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var (
	statusFlags       EndpointFlags
	statusTimeoutFlag string
	statusBattery     bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the robot is reachable",
	Long: `Open and close a TCP connection to the robot's command port and report
the round trip. Nothing is sent.

Examples:
  hexctl status
  hexctl status --battery
  hexctl status --target 192.168.4.1:8080 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.Context())
	},
}

func init() {
	AddEndpointFlags(statusCmd, &statusFlags)
	statusCmd.Flags().StringVar(&statusTimeoutFlag, "timeout", "", "probe timeout (default from timing.connect_timeout)")
	statusCmd.Flags().BoolVar(&statusBattery, "battery", false, "also read the battery level")
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the --json output of status.
type StatusOutput struct {
	Endpoint  string          `json:"endpoint"`
	Reachable bool            `json:"reachable"`
	Latency   string          `json:"latency,omitempty"`
	Error     *JSONError      `json:"error,omitempty"`
	Battery   *battery.Status `json:"battery,omitempty"`
}

// probeEndpoint checks reachability and, when asked, battery level. A probe
// failure is part of the result, not an error.
func probeEndpoint(ctx context.Context, ep link.Endpoint, timeout time.Duration, withBattery bool, topts telemetry.Options) StatusOutput {
	out := StatusOutput{Endpoint: ep.String()}

	latency, err := link.ProbeTCP(ctx, ep, timeout)
	if err != nil {
		out.Error = ErrorToJSON(err)
		return out
	}
	out.Reachable = true
	out.Latency = latency.String()

	if withBattery {
		if status, err := telemetry.Query(ctx, ep, topts); err == nil {
			out.Battery = &status
		}
	}
	return out
}

func statusCommand(ctx context.Context) error {
	timeout, err := ParseTimeout(statusTimeoutFlag)
	if err != nil {
		return err
	}

	store, err := loadSettings()
	if err != nil {
		return err
	}
	cfg := store.Config()

	ep, err := statusFlags.Resolve(&cfg)
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = linkOptions(cfg.Timing).ConnectTimeout
	}

	out := probeEndpoint(ctx, ep, timeout, statusBattery, telemetryOptions(cfg.Timing))

	if machineMode {
		return WriteJSONSuccess(os.Stdout, out)
	}

	printStatus(out)
	if !out.Reachable {
		// Non-zero exit for scripts, without repeating the message.
		os.Exit(1)
	}
	return nil
}

func printStatus(out StatusOutput) {
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	if !out.Reachable {
		fail := lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail)
		fmt.Printf("%s %s %s\n", fail, out.Endpoint, out.Error.Message)
		if out.Error.Suggestion != "" {
			fmt.Println("  " + muted.Render(out.Error.Suggestion))
		}
		return
	}

	ok := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess)
	latency := out.Latency
	if d, err := time.ParseDuration(out.Latency); err == nil {
		latency = ui.FormatDuration(d)
	}
	fmt.Printf("%s %s reachable %s\n", ok, out.Endpoint, muted.Render(latency))

	if statusBattery {
		fmt.Println("  Battery " + ui.RenderBattery(out.Battery))
	}
}
