package main

import (
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to DATABASE_DSN",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig()
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return db.RunMigrations(cfg.DatabaseDSN, logger)
	},
}
