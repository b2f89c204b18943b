package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brightfield/wellspring/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [job]",
	Short: "Run admin sweep passes on demand",
	Long: `Run a single pass of one sweep job, or of every job when no name
is given. Jobs: donations, emails, tiers, coaches.

Each pass takes the job's advisory lock first; if another process
holds it the pass is skipped, not queued.

Examples:
  # One pass of every job
  wellspring sweep

  # Just complete pending donations
  wellspring sweep donations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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

		names := []string{"donations", "emails", "tiers", "coaches"}
		if len(args) == 1 {
			names = args[:1]
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		for _, name := range names {
			n, acquired, err := sweeper.RunOnce(ctx, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: sweep %s failed: %v\n", name, err)
				os.Exit(1)
			}
			if !acquired {
				fmt.Printf("%s %-10s lock held elsewhere, skipped\n", yellow("○"), name)
				continue
			}
			fmt.Printf("%s %-10s processed %d item(s)\n", green("✓"), name, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
