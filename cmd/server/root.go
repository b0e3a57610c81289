package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Favorites request gateway",
	Long: `favorites serves the favorites endpoints. Every favorites request passes
the admission checks (nonce, site, login, cookie consent) before it is
handled. An admin page edits the plugin settings.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
