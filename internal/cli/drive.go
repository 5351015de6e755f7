package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/hexctl/internal/drive"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/robot"
)

var (
	driveFlags       EndpointFlags
	driveHoldFlag    string
	driveNoConnect   bool
	driveLogFileFlag string
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Drive the robot from the keyboard",
	Long: `Open a full-screen view and drive the robot with the keyboard.

Hold an arrow key (or w/a/s/d) to walk; the command repeats while the key is
held and stops when it's released. Number keys pick a gait.

Keyboard shortcuts:
  ↑ ↓ ← → / w a s d   Walk
  space               Stop
  t / l / n           Stand / Lay down / Dance
  1-4                 Tripod, wave, ripple gait, staircase mode
  c / x               Connect / Disconnect
  b                   Refresh battery
  ?                   Show all keys
  q / Ctrl+C          Quit

Examples:
  hexctl drive
  hexctl drive --address 192.168.4.1
  hexctl drive --target 192.168.4.1:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return driveCommand(cmd.Context())
	},
}

func init() {
	AddEndpointFlags(driveCmd, &driveFlags)
	driveCmd.Flags().StringVar(&driveHoldFlag, "hold", "", "how long a key counts as held after its last repeat (default 500ms)")
	driveCmd.Flags().BoolVar(&driveNoConnect, "no-connect", false, "start disconnected; press c to connect")
	driveCmd.Flags().StringVar(&driveLogFileFlag, "log-file", "", "write logs here while the screen is in use")
	rootCmd.AddCommand(driveCmd)
}

func driveCommand(parent context.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"drive needs an interactive terminal",
			"Use 'hexctl send' or 'hexctl serve' from scripts")
	}

	hold, err := ParseTimeout(driveHoldFlag)
	if err != nil {
		return err
	}

	store, err := loadSettings()
	if err != nil {
		return err
	}
	cfg := store.Config()

	ep, err := driveFlags.Resolve(&cfg)
	if err != nil {
		return err
	}

	// Logging to the terminal would tear the full-screen view.
	if driveLogFileFlag != "" {
		f, err := os.OpenFile(driveLogFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+driveLogFileFlag, "Check the path is writable")
		}
		defer f.Close()
		logger.Setup(f, verbose)
	} else {
		logger.SetDefault(logger.Noop())
	}

	opts := robotOptions(cfg)
	if driveLogFileFlag == "" {
		opts.Logger = logger.Noop()
	}
	m := robot.NewManager(opts)
	defer m.Disconnect()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return drive.Run(ctx, m, ep, drive.Options{
		HoldTimeout: hold,
		AutoConnect: !driveNoConnect,
	})
}
