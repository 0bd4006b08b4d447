package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prepwise/backend/internal/config"
	"github.com/prepwise/backend/internal/database"
	"github.com/prepwise/backend/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logging.Setup(cfg.LogLevel)

		if cfg.StorageDriver != config.StorageDriverPostgres {
			return fmt.Errorf("migrate requires STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("migration completed")
		return nil
	},
}
