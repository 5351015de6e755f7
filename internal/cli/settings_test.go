package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
)

func useConfigFile(t *testing.T, content string) string {
	t.Helper()
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	old := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = old })
	return path
}

func TestRobotOptions_Defaults(t *testing.T) {
	opts := robotOptions(*config.DefaultConfig())
	def := robot.DefaultOptions()

	assert.Equal(t, def.RepeatInterval, opts.RepeatInterval)
	assert.Equal(t, def.MinCommandInterval, opts.MinCommandInterval)
	assert.Equal(t, def.HealthInterval, opts.HealthInterval)
	assert.Equal(t, def.MaxFailedProbes, opts.MaxFailedProbes)
	assert.Equal(t, def.BatteryPollInterval, opts.BatteryPollInterval)
	assert.Equal(t, link.DefaultOptions(), opts.Link)
	assert.Equal(t, telemetry.DefaultOptions().ConnectTimeout, opts.Telemetry.ConnectTimeout)
	assert.NotNil(t, opts.Logger)
}

func TestRobotOptions_FromTiming(t *testing.T) {
	cfg := *config.DefaultConfig()
	cfg.Timing = config.TimingConfig{
		ConnectTimeout:        2 * time.Second,
		WriteTimeout:          time.Second,
		RepeatInterval:        150 * time.Millisecond,
		MinCommandInterval:    40 * time.Millisecond,
		HealthInterval:        10 * time.Second,
		MaxFailedProbes:       3,
		BatteryPollInterval:   2 * time.Minute,
		BatteryConnectTimeout: 4 * time.Second,
		BatteryReadTimeout:    6 * time.Second,
	}

	opts := robotOptions(cfg)

	assert.Equal(t, 2*time.Second, opts.Link.ConnectTimeout)
	assert.Equal(t, link.DefaultReadTimeout, opts.Link.ReadTimeout)
	assert.Equal(t, time.Second, opts.Link.WriteTimeout)
	assert.True(t, opts.Link.Drain)
	assert.Equal(t, 150*time.Millisecond, opts.RepeatInterval)
	assert.Equal(t, 40*time.Millisecond, opts.MinCommandInterval)
	assert.Equal(t, 10*time.Second, opts.HealthInterval)
	assert.Equal(t, 3, opts.MaxFailedProbes)
	assert.Equal(t, 2*time.Minute, opts.BatteryPollInterval)
	assert.Equal(t, 4*time.Second, opts.Telemetry.ConnectTimeout)
	assert.Equal(t, 6*time.Second, opts.Telemetry.ReadTimeout)
}

func TestLoadSettings(t *testing.T) {
	useConfigFile(t, "version: 1\nrobot:\n  address: 10.0.0.5\n  port: 9000\n")

	store, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", store.Address())
	assert.Equal(t, 9000, store.Port())
}

func TestLoadSettings_Invalid(t *testing.T) {
	useConfigFile(t, "robot:\n  address: 10.0.0.5\n  port: 0\n")

	_, err := loadSettings()
	assert.Error(t, err)
}
