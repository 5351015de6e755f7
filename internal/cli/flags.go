package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/target"
)

// EndpointFlags holds the flags that pick which robot to talk to.
type EndpointFlags struct {
	Address string
	Port    int
	Target  string
}

// AddEndpointFlags registers --address, --port and --target on a command.
func AddEndpointFlags(cmd *cobra.Command, flags *EndpointFlags) {
	cmd.Flags().StringVarP(&flags.Address, "address", "a", "", "robot address (IPv4, hostname, or ~/.ssh/config alias)")
	cmd.Flags().IntVarP(&flags.Port, "port", "p", 0, "robot command port")
	cmd.Flags().StringVarP(&flags.Target, "target", "t", "", "robot as address:port, e.g. scanned from its QR code")
}

// Resolve returns the endpoint to use: --target, then --address/--port, then
// the saved settings. SSH config aliases are resolved to their HostName.
func (f EndpointFlags) Resolve(cfg *config.Config) (link.Endpoint, error) {
	ep := link.Endpoint{Address: cfg.Robot.Address, Port: cfg.Robot.Port}

	if f.Target != "" {
		if f.Address != "" || f.Port != 0 {
			return link.Endpoint{}, newError(
				"--target can't be combined with --address or --port",
				"Use either --target 192.168.1.1:8080 or --address/--port")
		}
		t, err := target.ParseEndpoint(f.Target, ep.Port)
		if err != nil {
			return link.Endpoint{}, err
		}
		ep = t
	}

	if f.Address != "" {
		ep.Address = f.Address
	}
	if f.Port != 0 {
		ep.Port = f.Port
	}

	ep.Address = target.ResolveHost(ep.Address)

	if err := config.ValidateAddress(ep.Address); err != nil {
		return link.Endpoint{}, err
	}
	if err := config.ValidatePort(ep.Port); err != nil {
		return link.Endpoint{}, err
	}
	return ep, nil
}

// ParseTimeout parses a timeout flag into a duration.
// Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	if duration < 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is negative", flag),
			"Timeouts must be positive")
	}
	return duration, nil
}
