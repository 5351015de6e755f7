package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Default robot endpoint, matching the robot's access point.
const (
	DefaultAddress = "192.168.1.1"
	DefaultPort    = 8080
)

// Config represents the complete config.yaml file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	Robot   RobotConfig  `yaml:"robot" mapstructure:"robot"`
	Timing  TimingConfig `yaml:"timing" mapstructure:"timing"`
	API     APIConfig    `yaml:"api" mapstructure:"api"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`
}

// RobotConfig holds the last-used endpoint.
type RobotConfig struct {
	// Address is an IPv4 address, a hostname, or a ~/.ssh/config Host alias.
	Address string `yaml:"address" mapstructure:"address"`

	// Port is the robot's TCP command port.
	Port int `yaml:"port" mapstructure:"port"`
}

// TimingConfig tunes the connection manager. Zero values fall back to the
// built-in defaults.
type TimingConfig struct {
	// ConnectTimeout bounds the command link handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// ReadTimeout bounds each blocking read on the command link.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds each write on the command link.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// RepeatInterval is how often a held motion command is re-sent.
	RepeatInterval time.Duration `yaml:"repeat_interval" mapstructure:"repeat_interval"`

	// MinCommandInterval drops a repeat of the same command sent sooner than this.
	MinCommandInterval time.Duration `yaml:"min_command_interval" mapstructure:"min_command_interval"`

	// HealthInterval is the keep-alive probe period.
	HealthInterval time.Duration `yaml:"health_interval" mapstructure:"health_interval"`

	// MaxFailedProbes is how many keep-alives may fail in a row before the
	// connection is declared lost.
	MaxFailedProbes int `yaml:"max_failed_probes" mapstructure:"max_failed_probes"`

	// BatteryPollInterval is how often battery level is refreshed while connected.
	BatteryPollInterval time.Duration `yaml:"battery_poll_interval" mapstructure:"battery_poll_interval"`

	// BatteryConnectTimeout and BatteryReadTimeout bound the battery side channel.
	BatteryConnectTimeout time.Duration `yaml:"battery_connect_timeout" mapstructure:"battery_connect_timeout"`
	BatteryReadTimeout    time.Duration `yaml:"battery_read_timeout" mapstructure:"battery_read_timeout"`
}

// APIConfig controls the HTTP bridge started by 'hexctl serve'.
type APIConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	// Color mode: auto, always, never.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Robot: RobotConfig{
			Address: DefaultAddress,
			Port:    DefaultPort,
		},
		Timing: TimingConfig{
			ConnectTimeout:        5 * time.Second,
			ReadTimeout:           5 * time.Second,
			WriteTimeout:          2 * time.Second,
			RepeatInterval:        100 * time.Millisecond,
			MinCommandInterval:    20 * time.Millisecond,
			HealthInterval:        30 * time.Second,
			MaxFailedProbes:       10,
			BatteryPollInterval:   60 * time.Second,
			BatteryConnectTimeout: 3 * time.Second,
			BatteryReadTimeout:    5 * time.Second,
		},
		API: APIConfig{
			Listen: "127.0.0.1:8787",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
