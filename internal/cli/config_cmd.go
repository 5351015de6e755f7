package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/hexctl/internal/config"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit hexctl settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config after defaults and HEXCTL_* environment overrides
are applied, and the file it was read from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a single value in config.yaml, keeping comments and layout.

Keys:
  ` + strings.Join(config.Keys, "\n  ") + `

Examples:
  hexctl config set robot.address 192.168.4.1
  hexctl config set timing.repeat_interval 150ms`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigOutput is the --json output of config show.
type ConfigOutput struct {
	Path   string         `json:"path"`
	Exists bool           `json:"exists"`
	Config *config.Config `json:"config"`
}

func configShowCommand() error {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if machineMode {
		return WriteJSONSuccess(os.Stdout, ConfigOutput{Path: path, Exists: exists, Config: cfg})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render config", "")
	}

	note := ""
	if !exists {
		note = " (not created yet; showing defaults)"
	}
	fmt.Printf("# %s%s\n", path, note)
	fmt.Print(string(data))
	return nil
}

// checkValue validates value for key before it's written.
func checkValue(key, value string) error {
	switch {
	case key == "robot.address":
		return config.ValidateAddress(value)
	case key == "robot.port":
		_, err := config.ParsePort(value)
		return err
	case key == "timing.max_failed_probes":
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a positive whole number", value),
				"Try something like 10")
		}
	case strings.HasPrefix(key, "timing."):
		if _, err := time.ParseDuration(value); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a duration", value),
				"Try something like 5s, 2m, or 500ms.")
		}
	case key == "output.color":
		switch value {
		case "auto", "always", "never":
		default:
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown output.color '%s'", value),
				"Use one of: auto, always, never")
		}
	}
	return nil
}

func configSetCommand(key, value string) error {
	if !config.IsKnownKey(key) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Run 'hexctl config set --help' to list the keys")
	}
	if err := checkValue(key, value); err != nil {
		return err
	}

	_, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{"key": key, "value": value, "path": path})
	}
	fmt.Printf("%s Set %s = %s in %s\n", ui.SymbolSuccess, key, value, path)
	return nil
}
