package main

import (
	"fmt"
	"os"

	"github.com/brianvfarias/daily-diet-api/config"
	"github.com/brianvfarias/daily-diet-api/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "daily-diet",
		Short:         "Session-scoped meal log with diet streak analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap builds the logger and the process configuration.
func bootstrap() (*config.Config, *zap.Logger, error) {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return nil, nil, err
	}
	return cfg, log, nil
}
