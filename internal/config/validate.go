package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/hexctl/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but hexctl only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade hexctl or recreate the config with 'hexctl init'")
	}

	if err := ValidateAddress(cfg.Robot.Address); err != nil {
		return err
	}
	if err := ValidatePort(cfg.Robot.Port); err != nil {
		return err
	}
	if err := validateTiming(cfg.Timing); err != nil {
		return err
	}

	if cfg.API.Listen != "" {
		if _, port, err := net.SplitHostPort(cfg.API.Listen); err != nil || port == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("api.listen '%s' isn't a host:port address", cfg.API.Listen),
				"Use something like 127.0.0.1:8787 or :8787")
		}
	}

	switch cfg.Output.Color {
	case "", "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown output.color '%s'", cfg.Output.Color),
			"Use one of: auto, always, never")
	}

	return nil
}

// ValidateAddress accepts an IPv4 address or a hostname. A host:port pair is
// rejected; the port is configured separately.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New(errors.ErrConfig,
			"Robot address is empty",
			"Set robot.address to the robot's IP, e.g. 192.168.1.1")
	}

	if ip := net.ParseIP(address); ip != nil {
		if ip.To4() == nil {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' is not an IPv4 address", address),
				"The robot's access point hands out IPv4 addresses, e.g. 192.168.1.1")
		}
		return nil
	}

	if strings.ContainsAny(address, " :/") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid robot address", address),
			"Use just the IP or hostname; set the port separately")
	}

	return nil
}

// ValidatePort checks the port is in 1..65535.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Port %d is out of range", port),
			"Ports range from 1 to 65535; the robot listens on 8080 by default")
	}
	return nil
}

// ParsePort parses and validates a port string.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a port number", s),
			"Ports are whole numbers from 1 to 65535")
	}
	return port, ValidatePort(port)
}

func validateTiming(t TimingConfig) error {
	durations := []struct {
		key string
		val time.Duration
	}{
		{"timing.connect_timeout", t.ConnectTimeout},
		{"timing.read_timeout", t.ReadTimeout},
		{"timing.write_timeout", t.WriteTimeout},
		{"timing.repeat_interval", t.RepeatInterval},
		{"timing.min_command_interval", t.MinCommandInterval},
		{"timing.health_interval", t.HealthInterval},
		{"timing.battery_poll_interval", t.BatteryPollInterval},
		{"timing.battery_connect_timeout", t.BatteryConnectTimeout},
		{"timing.battery_read_timeout", t.BatteryReadTimeout},
	}

	for _, d := range durations {
		if d.val < 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s can't be negative (got %s)", d.key, d.val),
				"Use a duration like 100ms, 5s or 1m")
		}
	}

	if t.MaxFailedProbes < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("timing.max_failed_probes can't be negative (got %d)", t.MaxFailedProbes),
			"The default is 10")
	}

	if t.RepeatInterval > 0 && t.RepeatInterval < 10*time.Millisecond {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("timing.repeat_interval %s is too short", t.RepeatInterval),
			"Use at least 10ms; the robot can't keep up with faster commands")
	}

	return nil
}
