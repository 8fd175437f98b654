package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Apply pending database migrations and report what is in place. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	config, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := core.NewLogger(config.LogLevel)

	db, err := core.OpenDatabase(config.Database.Path, logger.ForComponent("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	mgr := migrations.NewManager(db, logger.ForComponent("migrations"))
	if err := mgr.Migrate(cmd.Context()); err != nil {
		return err
	}

	applied, err := mgr.Applied(cmd.Context())
	if err != nil {
		return err
	}

	for _, m := range applied {
		fmt.Printf("%4d  %-24s applied %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}
