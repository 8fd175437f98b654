package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "artemis",
	Short: "Self-hosted feed aggregator",
	Long: `artemis ingests registered RSS and Atom feeds on a fixed schedule,
persists previously-unseen items, and serves feeds and their entries
over a small JSON API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env if present; real environment takes precedence.
		godotenv.Load()
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
