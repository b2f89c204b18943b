package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brightfield/wellspring/internal/httpapi"
	"github.com/brightfield/wellspring/internal/journey"
	"github.com/brightfield/wellspring/internal/sweep"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and background sweeps",
	Long: `Start the HTTP API and the periodic admin sweeps in one process.

The server drains in-flight requests and stops the sweeps cleanly on
SIGINT/SIGTERM.

Examples:
  # Serve with defaults (port 8080, data/wellspring.db)
  wellspring serve

  # Serve on another port without the background sweeps
  wellspring serve --addr :9090 --no-sweeps`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		noSweeps, _ := cmd.Flags().GetBool("no-sweeps")
		if addr == "" {
			addr = cfg.Addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		journeys, err := journey.NewService(store, logger, nil)
		if err != nil {
			return err
		}
		handler := httpapi.NewServer(journeys, store, logger, &cfg.HTTP)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("api server listening", zap.String("addr", addr))
			return httpapi.ListenAndServe(gctx, addr, handler)
		})

		if !noSweeps {
			sweepCfg, err := cfg.SweepConfig()
			if err != nil {
				return err
			}
			sweeper, err := sweep.NewSweeper(&sweep.Deps{
				Store:  store,
				Config: sweepCfg,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			if err := sweeper.Start(gctx); err != nil {
				return err
			}
			g.Go(func() error {
				<-gctx.Done()
				sweeper.Stop()
				return nil
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().Bool("no-sweeps", false, "serve the API without background sweeps")
	rootCmd.AddCommand(serveCmd)
}
