package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradewatch/signal-service/internal/config"
	"github.com/tradewatch/signal-service/internal/database"
	"github.com/tradewatch/signal-service/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.NewLogger(cfg.Logging)

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Info().Str("path", cfg.Database.MigrationsPath).Msg("migrations applied")
	return nil
}
