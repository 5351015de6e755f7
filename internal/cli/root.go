package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "hexctl",
	Short: "Drive a hexapod robot over its TCP command link",
	Long: `hexctl connects to a hexapod robot's command port and drives it.

Hold keys in 'hexctl drive' to walk, send one-off commands with 'hexctl send',
check the battery, or expose the robot over HTTP with 'hexctl serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(os.Stderr, verbose)

		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/hexctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if machineMode {
			_ = WriteJSONFromError(os.Stdout, err)
			os.Exit(1)
		}

		if isUnknownCommandError(err) {
			if hint := suggestSend(extractUnknownCommand(err)); hint != "" {
				fmt.Fprintln(os.Stderr, ui.SymbolFail+" "+err.Error())
				fmt.Fprintln(os.Stderr, "  "+hint)
				os.Exit(1)
			}
		}

		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls "foo" out of `unknown command "foo" for "hexctl"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// suggestSend returns a hint when someone types a robot command where a
// hexctl subcommand was expected, e.g. "hexctl stand".
func suggestSend(name string) string {
	cmd, ok := command.Parse(name)
	if !ok || cmd == command.GetBattery {
		return ""
	}
	return fmt.Sprintf("Did you mean 'hexctl send %s'?", cmd)
}

// newError is a shorthand used by commands for flag validation failures.
func newError(message, suggestion string) error {
	return errors.New(errors.ErrConfig, message, suggestion)
}
