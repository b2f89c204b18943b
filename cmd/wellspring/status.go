package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show platform statistics",
	Long:  `Display member, journey, donation, and email-queue statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		stats, err := store.GetStatistics(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get statistics: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Wellspring Status ==="))

		fmt.Printf("%s\n", yellow("Members & Journeys:"))
		fmt.Printf("  Members:          %d\n", stats.Members)
		fmt.Printf("  Active journeys:  %d\n", stats.ActiveJourneys)
		if stats.ActiveJourneys > 0 {
			fmt.Printf("  Average progress: %.1f%%\n", stats.AverageProgress)
		} else {
			fmt.Printf("  Average progress: %s\n", gray("n/a"))
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("Donations:"))
		fmt.Printf("  Completed: %d ($%.2f total)\n", stats.CompletedDonations, stats.DonationTotal)
		fmt.Printf("  Pending:   %d\n", stats.PendingDonations)
		fmt.Println()

		fmt.Printf("%s\n", yellow("Email Queue:"))
		fmt.Printf("  Queued: %d\n", stats.QueuedEmails)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
