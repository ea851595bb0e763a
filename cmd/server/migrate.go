package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and exit",
	Long: `Apply the schema to the database named by DB_DSN.  Every statement is
CREATE TABLE IF NOT EXISTS, so running it twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		db, err := database.Open(cmd.Context(), cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("schema applied", "statements", len(database.Schema))
		return nil
	},
}
