package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/hexctl"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. HEXCTL_ROBOT_ADDRESS.
	EnvPrefix = "HEXCTL"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'hexctl init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// DefaultPath returns ~/.config/hexctl/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set $HOME or pass --config")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. ~/.config/hexctl/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	global, err := DefaultPath()
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if not
// found. Environment overrides apply in both cases. The returned path is where
// the config was read from, or where it would be saved.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		if err != nil {
			return nil, "", err
		}
		def, _ := DefaultPath()
		return cfg, def, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	return cfg, nil
}

// setDefaults registers every key so env overrides work even when the file
// omits them. Viper parses the duration strings for time.Duration fields.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("robot.address", d.Robot.Address)
	v.SetDefault("robot.port", d.Robot.Port)
	v.SetDefault("timing.connect_timeout", d.Timing.ConnectTimeout.String())
	v.SetDefault("timing.read_timeout", d.Timing.ReadTimeout.String())
	v.SetDefault("timing.write_timeout", d.Timing.WriteTimeout.String())
	v.SetDefault("timing.repeat_interval", d.Timing.RepeatInterval.String())
	v.SetDefault("timing.min_command_interval", d.Timing.MinCommandInterval.String())
	v.SetDefault("timing.health_interval", d.Timing.HealthInterval.String())
	v.SetDefault("timing.max_failed_probes", d.Timing.MaxFailedProbes)
	v.SetDefault("timing.battery_poll_interval", d.Timing.BatteryPollInterval.String())
	v.SetDefault("timing.battery_connect_timeout", d.Timing.BatteryConnectTimeout.String())
	v.SetDefault("timing.battery_read_timeout", d.Timing.BatteryReadTimeout.String())
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("output.color", d.Output.Color)
}
