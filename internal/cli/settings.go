package cli

import (
	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

// loadSettings opens the config store named by --config (or the default
// location), validates it, and applies its output settings.
func loadSettings() (*config.Store, error) {
	store, err := config.OpenStore(Config())
	if err != nil {
		return nil, err
	}

	cfg := store.Config()
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	if !noColor {
		ui.SetColorMode(cfg.Output.Color)
	}
	return store, nil
}

// linkOptions maps the timing section onto command link options.
func linkOptions(t config.TimingConfig) link.Options {
	opts := link.DefaultOptions()
	if t.ConnectTimeout > 0 {
		opts.ConnectTimeout = t.ConnectTimeout
	}
	if t.ReadTimeout > 0 {
		opts.ReadTimeout = t.ReadTimeout
	}
	if t.WriteTimeout > 0 {
		opts.WriteTimeout = t.WriteTimeout
	}
	return opts
}

// telemetryOptions maps the timing section onto battery query options.
func telemetryOptions(t config.TimingConfig) telemetry.Options {
	opts := telemetry.DefaultOptions()
	if t.BatteryConnectTimeout > 0 {
		opts.ConnectTimeout = t.BatteryConnectTimeout
	}
	if t.BatteryReadTimeout > 0 {
		opts.ReadTimeout = t.BatteryReadTimeout
	}
	return opts
}

// robotOptions builds manager options from config. Zero timing values keep
// the manager's defaults.
func robotOptions(cfg config.Config) robot.Options {
	t := cfg.Timing

	opts := robot.DefaultOptions()
	opts.Link = linkOptions(t)
	opts.Telemetry = telemetryOptions(t)
	opts.Logger = logger.New("robot")

	if t.RepeatInterval > 0 {
		opts.RepeatInterval = t.RepeatInterval
	}
	if t.MinCommandInterval > 0 {
		opts.MinCommandInterval = t.MinCommandInterval
	}
	if t.HealthInterval > 0 {
		opts.HealthInterval = t.HealthInterval
	}
	if t.MaxFailedProbes > 0 {
		opts.MaxFailedProbes = t.MaxFailedProbes
	}
	if t.BatteryPollInterval > 0 {
		opts.BatteryPollInterval = t.BatteryPollInterval
	}
	return opts
}
