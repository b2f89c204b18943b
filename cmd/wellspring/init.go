package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brightfield/wellspring/internal/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database, optionally with a demo member",
	Long: `Create the database schema. With --demo, also seed a demo member
and coach so the API can be exercised immediately; the demo member's
API token is printed once.

Examples:
  wellspring init
  wellspring init --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")
		ctx := context.Background()

		// Schema is applied when storage opens in PersistentPreRunE;
		// reaching this point means the database is ready.
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Database initialized at %s\n", green("✓"), cfg.DBPath)

		if !demo {
			return nil
		}

		member := &types.Member{
			Email: "demo@wellspring.local",
			Name:  "Demo Member",
		}
		if err := store.CreateMember(ctx, member); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to seed demo member: %v\n", err)
			os.Exit(1)
		}

		coach := &types.Coach{
			Name:   "Demo Coach",
			Email:  "coach@wellspring.local",
			Active: true,
		}
		if err := store.CreateCoach(ctx, coach); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to seed demo coach: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Seeded demo member %s\n", green("✓"), member.Email)
		fmt.Printf("  API token: %s\n", member.APIToken)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("demo", false, "seed a demo member and coach")
	rootCmd.AddCommand(initCmd)
}
