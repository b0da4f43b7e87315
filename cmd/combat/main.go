// Package main is the entry point for the combat CLI
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-combat/internal/config"
)

var (
	settings    *config.Settings
	logLevel    string
	playerLevel int
)

var rootCmd = &cobra.Command{
	Use:   "combat",
	Short: "RPG combat core",
	Long:  `Stage combatants, roll dice, initiate combat and resolve party hiding from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		settings, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			settings.LogLevel = logLevel
		}
		if cmd.Flags().Changed("player-level") {
			settings.PlayerLevel = playerLevel
		}
		if err := settings.Validate(); err != nil {
			return err
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: settings.Level(),
		})))
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&playerLevel, "player-level", 1, "party level used for difficulty")

	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(initiateCmd)
	rootCmd.AddCommand(hideCmd)
}
