package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and ingestion scheduler",
	Long: `Run the artemis server: applies pending migrations, starts the
periodic ingestion scheduler and serves the feed API until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := core.NewLogger(config.LogLevel)

	srv, err := server.New(config, logger)
	if err != nil {
		return err
	}

	return srv.Start()
}
