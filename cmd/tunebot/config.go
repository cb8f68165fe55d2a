package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tunebot/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewLoader().Load(configPath)
		if err != nil {
			return err
		}
		cfg.Discord.Token = maskSecret(cfg.Discord.Token)
		cfg.Search.YouTubeAPIKey = maskSecret(cfg.Search.YouTubeAPIKey)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader()
		cfg, err := loader.Load(configPath)
		if err != nil {
			return err
		}
		if err := config.ValidateConfig(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return fmt.Errorf("%s is invalid", loader.GetConfigPath())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", loader.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}
