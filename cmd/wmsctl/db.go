package main

import (
	"fmt"
	"time"

	"rack-wms/database"
	seed "rack-wms/seeder"

	"github.com/spf13/cobra"
)

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func seedCmd(flags *globalFlags) *cobra.Command {
	var (
		demo     int
		demoSeed uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert master data, optionally followed by demo receipts",
		Long: `Insert the standard locations, racks and products when missing.

Examples:
  # Master data only
  wmsctl seed

  # Plus 25 random license plates in the receiving zone
  wmsctl seed --demo 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.RunSeeders(e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "master data seeded")
			if demo <= 0 {
				return nil
			}

			if demoSeed == 0 {
				demoSeed = uint64(time.Now().Unix())
			}
			plates, err := seed.SeedDemoReceipts(cmd.Context(), e.db, e.inventory, demo, demoSeed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "received %d demo license plates\n", len(plates))
			return nil
		},
	}
	cmd.Flags().IntVar(&demo, "demo", 0, "Number of demo license plates to receive")
	cmd.Flags().Uint64Var(&demoSeed, "demo-seed", 0, "Random seed for demo data (default: current time)")
	return cmd
}
