// Package cmd implements the CLI commands for listing-notifier.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "listing-notifier",
	Short: "Notify subscribers about new real-estate listings",
	Long: "Polls listing search feeds for every configured registration, remembers which " +
		"listings were already reported, and sends the new ones to the registration's " +
		"Telegram recipients.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
