package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minju-kim98/personal-ai-hub/internal/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := LoadConfig()
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		logger := newLogger(cfg)

		pg, err := postgres.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		applied, err := pg.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "files", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
