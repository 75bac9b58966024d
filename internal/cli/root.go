// Package cli implements the foodrescue management command.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var settingsPath string

	cmd := &cobra.Command{
		Use:          "foodrescue",
		Short:        "Food rescue logistics platform",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"path to a TOML settings file (defaults to $FOODRESCUE_SETTINGS)")

	cmd.AddCommand(
		serveCmd(&settingsPath),
		migrateCmd(&settingsPath),
		createOperatorCmd(&settingsPath),
		seedCmd(&settingsPath),
		collectStaticCmd(),
	)
	return cmd
}
