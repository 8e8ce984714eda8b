package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/albaranes-api/internal/config"
	"github.com/yukikurage/albaranes-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}

		if err := database.Connect(cfg); err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}

		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			logrus.Fatalf("Failed to run database migrations: %v", err)
		}

		logrus.Info("Database migrations completed")
	},
}
