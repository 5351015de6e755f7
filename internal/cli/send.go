package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var (
	sendFlags    EndpointFlags
	sendHoldFlag string
	sendGapFlag  string
)

var sendCmd = &cobra.Command{
	Use:   "send <command>...",
	Short: "Send commands to the robot",
	Long: `Connect, send each command in order, and disconnect.

Commands are case-insensitive: FORWARD BACKWARD LEFT RIGHT STOP STAND
LAY_DOWN DANCE TRIPOD_GAIT WAVE_GAIT RIPPLE_GAIT STAIRCASE_MODE.

With --hold, motion commands (FORWARD, BACKWARD, LEFT, RIGHT) are repeated
for that long as if the key were held.

Examples:
  hexctl send stand
  hexctl send wave_gait forward --hold 2s
  hexctl send stop lay_down`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeCommands,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendCommand(cmd.Context(), args)
	},
}

func init() {
	AddEndpointFlags(sendCmd, &sendFlags)
	sendCmd.Flags().StringVar(&sendHoldFlag, "hold", "", "hold motion commands for this long (e.g. 2s)")
	sendCmd.Flags().StringVar(&sendGapFlag, "gap", "200ms", "pause between commands")
	rootCmd.AddCommand(sendCmd)
}

// SendResult is the --json output of send.
type SendResult struct {
	Endpoint string   `json:"endpoint"`
	Sent     []string `json:"sent"`
}

// parseCommands resolves every argument before anything is sent.
func parseCommands(args []string) ([]command.Command, error) {
	cmds := make([]command.Command, 0, len(args))
	for _, arg := range args {
		c, ok := command.Parse(arg)
		if !ok {
			return nil, errors.NewUnknownCommand(arg)
		}
		if c == command.GetBattery {
			return nil, errors.New(errors.ErrCommand,
				"GET_BATTERY can't be sent on the command link",
				"Use 'hexctl battery' instead")
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func sendCommand(parent context.Context, args []string) error {
	cmds, err := parseCommands(args)
	if err != nil {
		return err
	}

	hold, err := ParseTimeout(sendHoldFlag)
	if err != nil {
		return err
	}
	gap, err := ParseTimeout(sendGapFlag)
	if err != nil {
		return err
	}

	store, err := loadSettings()
	if err != nil {
		return err
	}
	cfg := store.Config()

	ep, err := sendFlags.Resolve(&cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := robot.NewManager(robotOptions(cfg))
	defer m.Disconnect()

	if err := connectWithProgress(ctx, m, ep, os.Stdout); err != nil {
		return err
	}

	sent, err := runSequence(ctx, m, cmds, hold, gap)
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, SendResult{Endpoint: ep.String(), Sent: sent})
	}
	return nil
}

// sequencer is the part of the manager a command sequence needs.
type sequencer interface {
	SendOnce(cmd command.Command) error
	Press(cmd command.Command) error
	Release()
}

// runSequence sends cmds in order with gap between them. Motion commands are
// held for hold when it is set. It stops early if ctx ends, releasing
// anything held.
func runSequence(ctx context.Context, s sequencer, cmds []command.Command, hold, gap time.Duration) ([]string, error) {
	sent := make([]string, 0, len(cmds))

	for i, c := range cmds {
		if i > 0 && gap > 0 {
			if err := sleepCtx(ctx, gap); err != nil {
				return sent, err
			}
		}

		if hold > 0 && c.Continuous() {
			if err := s.Press(c); err != nil {
				return sent, err
			}
			err := sleepCtx(ctx, hold)
			s.Release()
			if err != nil {
				return sent, err
			}
			printSent(fmt.Sprintf("Held %s for %s", c, ui.FormatDuration(hold)))
		} else {
			if err := s.SendOnce(c); err != nil {
				return sent, err
			}
			printSent("Sent " + c.String())
		}
		sent = append(sent, c.String())
	}
	return sent, nil
}

func printSent(msg string) {
	if machineMode {
		return
	}
	fmt.Println(ui.SymbolSuccess + " " + msg)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// completeCommands offers robot commands for shell completion.
func completeCommands(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range command.All() {
		if c == command.GetBattery {
			continue
		}
		out = append(out, c.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
