// Package main is the entry point for the tunebot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunebot/pkg/config"
	"tunebot/pkg/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tunebot",
	Short: "tunebot - a Discord music bot",
	Long: `tunebot is a Discord music bot with paginated queue listings and
interactive track search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		// The fx config module resolves its file through the environment.
		return os.Setenv(config.ConfigPathEnv, configPath)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
