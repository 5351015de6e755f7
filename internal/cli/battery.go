package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var batteryFlags EndpointFlags

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Show the robot's battery level",
	Long: `Ask the robot for its battery level over a short-lived side connection.

This doesn't open the command link, so it's safe to run while another
hexctl is driving.

Examples:
  hexctl battery
  hexctl battery --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return batteryCommand(cmd.Context())
	},
}

func init() {
	AddEndpointFlags(batteryCmd, &batteryFlags)
	rootCmd.AddCommand(batteryCmd)
}

// BatteryOutput is the --json output of battery.
type BatteryOutput struct {
	Endpoint string         `json:"endpoint"`
	Battery  battery.Status `json:"battery"`
	Level    string         `json:"level"`
}

func batteryCommand(ctx context.Context) error {
	store, err := loadSettings()
	if err != nil {
		return err
	}
	cfg := store.Config()

	ep, err := batteryFlags.Resolve(&cfg)
	if err != nil {
		return err
	}

	var spinner *ui.Spinner
	if !machineMode {
		spinner = ui.NewSpinner("Reading battery from " + ep.String())
		spinner.Start()
	}

	status, err := telemetry.Query(ctx, ep, telemetryOptions(cfg.Timing))
	if err != nil {
		if spinner != nil {
			spinner.Fail("Couldn't read battery")
		}
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, BatteryOutput{
			Endpoint: ep.String(),
			Battery:  status,
			Level:    status.Level().String(),
		})
	}

	spinner.Success("Battery " + ui.RenderBattery(&status))
	fmt.Println("  " + ui.RenderBatteryBar(&status, 20))
	return nil
}
