package main

import (
	"fmt"

	"github.com/janavarta/news-platform/internal/config"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/pkg/log"
	"github.com/janavarta/news-platform/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}

		logger := log.InitLog(log.AtomicLevelFrom(cfg.Service.LogLevel))
		zap.ReplaceGlobals(logger)

		db, err := store.InitDB(cfg)
		if err != nil {
			return fmt.Errorf("initializing data store: %w", err)
		}
		s := store.NewStore(db)
		defer s.Close()

		if cfg.Service.MigrationFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
		} else if err := s.InitialMigration(); err != nil {
			return fmt.Errorf("running initial migration: %w", err)
		}

		zap.S().Info("db migrated")
		return nil
	},
}
