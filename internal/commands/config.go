package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srynk/pulse/internal/config"
	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change the settings stored in config.json.

The API key is never stored; set GEMINI_API_KEY (or PULSE_API_KEY) instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long:  "Change a setting. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		if len(args) == 1 {
			return settingValues(args[0])
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(cmd, args[0], args[1])
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

// settingValues completes the value of a `config set` key
func settingValues(key string) ([]string, cobra.ShellCompDirective) {
	switch key {
	case "default_model":
		return config.AvailableModels(), cobra.ShellCompDirectiveNoFileComp
	case "theme":
		return render.TUIThemeNames(), cobra.ShellCompDirectiveNoFileComp
	case "markdown.style":
		// style files are accepted too
		return render.StyleNames(), cobra.ShellCompDirectiveDefault
	case "verbose", "copy_to_clipboard":
		return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
	case "log_level":
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func runConfigShow(cmd *cobra.Command) error {
	cfg := loadConfig(newCLILogger(cmd.ErrOrStderr(), "warn"))

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, string(data))

	key := "not set"
	if cfg.APIKey != "" {
		key = "set"
	}
	fmt.Fprintf(out, "api key (%s / %s): %s\n", models.APIKeyEnv, models.FallbackAPIKeyEnv, key)
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	cfg, err := deps.LoadFileConfig()
	if err != nil {
		return fmt.Errorf("refusing to overwrite unreadable config: %w", err)
	}

	if err := config.SetValue(&cfg, key, value); err != nil {
		return err
	}
	if err := deps.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
