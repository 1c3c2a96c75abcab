package main

import (
	"github.com/brianvfarias/daily-diet-api/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the meals table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := config.OpenDB(cfg, log)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Info("migration complete", zap.String("client", cfg.DB.Client))
			return nil
		},
	}
}
