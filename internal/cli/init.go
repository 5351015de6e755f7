package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/target"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Save the robot's address and port",
	Long: `Create or update ~/.config/hexctl/config.yaml with the robot's endpoint.

Prompts for the address and port, offering Host aliases from ~/.ssh/config,
then checks the robot is reachable before saving.

Examples:
  hexctl init
  hexctl init --address 192.168.4.1 --port 8080 --non-interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), initOpts)
	},
}

func init() {
	initCmd.Flags().StringVar(&initOpts.Address, "address", "", "robot address")
	initCmd.Flags().IntVar(&initOpts.Port, "port", 0, "robot command port")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts, use flags and defaults")
	initCmd.Flags().BoolVar(&initOpts.SkipProbe, "skip-probe", false, "save without checking the robot is reachable")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Address        string // Pre-specified address
	Port           int    // Pre-specified port
	NonInteractive bool   // Skip prompts
	SkipProbe      bool   // Don't test the connection
}

// manualEntry is the select value for typing an address by hand.
const manualEntry = ""

// Init writes the robot endpoint to the config file.
func Init(ctx context.Context, opts InitOptions) error {
	store, err := config.OpenStore(Config())
	if err != nil {
		return err
	}

	address := store.Address()
	if opts.Address != "" {
		address = opts.Address
	}
	port := store.Port()
	if opts.Port != 0 {
		port = opts.Port
	}

	if !opts.NonInteractive {
		address, port, err = promptEndpoint(address, port)
		if err != nil {
			return err
		}
	}

	if err := config.ValidateAddress(address); err != nil {
		return err
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	if !opts.SkipProbe {
		ep := link.Endpoint{Address: target.ResolveHost(address), Port: port}
		if !probeBeforeSave(ctx, ep, opts.NonInteractive) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.SetAddress(address); err != nil {
		return err
	}
	if err := store.SetPort(port); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Printf("%s Saved %s to %s\n", ui.SymbolSuccess,
		link.Endpoint{Address: address, Port: port}, store.Path())
	fmt.Println("  Run 'hexctl drive' to start driving.")
	return nil
}

// hostOptions lists ~/.ssh/config aliases as address choices, plus manual entry.
func hostOptions(entries []target.HostEntry) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(entries)+1)
	for _, e := range entries {
		label := e.Alias
		if e.Hostname != "" && e.Hostname != e.Alias {
			label = fmt.Sprintf("%s (%s)", e.Alias, e.Hostname)
		}
		options = append(options, huh.NewOption(label, e.Alias))
	}
	return append(options, huh.NewOption("Type an address", manualEntry))
}

func promptEndpoint(address string, port int) (string, int, error) {
	choice := manualEntry
	if entries, _ := target.ListHosts(); len(entries) > 0 {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which robot?").
					Description("Aliases from ~/.ssh/config").
					Options(hostOptions(entries)...).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return "", 0, inputError(err)
		}
	}

	if choice != manualEntry {
		address = choice
	}

	portText := strconv.Itoa(port)
	groups := []*huh.Group{}
	if choice == manualEntry {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Robot address").
				Description("The robot's IPv4 address or hostname").
				Placeholder(config.DefaultAddress).
				Value(&address).
				Validate(func(s string) error {
					if err := config.ValidateAddress(s); err != nil {
						return fmt.Errorf("%s", errorMessage(err))
					}
					return nil
				}),
		))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Command port").
			Placeholder(strconv.Itoa(config.DefaultPort)).
			Value(&portText).
			Validate(func(s string) error {
				if _, err := config.ParsePort(s); err != nil {
					return fmt.Errorf("%s", errorMessage(err))
				}
				return nil
			}),
	))

	if err := huh.NewForm(groups...).Run(); err != nil {
		return "", 0, inputError(err)
	}

	p, err := config.ParsePort(portText)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(address), p, nil
}

// probeBeforeSave checks the endpoint answers. On failure it asks whether to
// save anyway, or in non-interactive mode saves with a warning.
func probeBeforeSave(ctx context.Context, ep link.Endpoint, nonInteractive bool) bool {
	spinner := ui.NewSpinner("Checking " + ep.String())
	spinner.Start()

	latency, err := link.ProbeTCP(ctx, ep, link.DefaultConnectTimeout)
	if err == nil {
		spinner.Success(fmt.Sprintf("Robot answered at %s (%s)", ep, ui.FormatDuration(latency)))
		return true
	}

	spinner.Fail(ErrorToJSON(err).Message)
	if nonInteractive {
		fmt.Println("  Saving anyway; the robot may just be off.")
		return true
	}

	save := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Robot didn't answer. Save anyway?").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return save
}

func inputError(err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Failed to get user input",
		"Check terminal compatibility or use --non-interactive with --address and --port")
}

// errorMessage returns just the message of a structured error, for inline
// form validation.
func errorMessage(err error) string {
	if j := ErrorToJSON(err); j != nil {
		return j.Message
	}
	return ""
}
