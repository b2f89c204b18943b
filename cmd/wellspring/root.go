package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brightfield/wellspring/internal/config"
	"github.com/brightfield/wellspring/internal/storage"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	// Shared state initialized by PersistentPreRunE
	cfg    *config.Config
	store  storage.Storage
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wellspring",
	Short: "Wellspring - nonprofit coaching platform backend",
	Long: `Wellspring is the backend for a nonprofit wellness-coaching platform.

It serves the journey API (intake surveys in, generated wellness plans
out, progress check-ins), tracks donations with membership tiers and
reward points, and runs the admin batch sweeps (donation processing,
email queue, tier reconciliation, coach assignment).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if verbose {
			cfg.Verbose = true
		}

		zapCfg := zap.NewProductionConfig()
		if cfg.Verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		store, err = storage.NewStorage(context.Background(), &storage.Config{Path: cfg.DBPath})
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "wellspring.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
