// wmsctl operates the rack warehouse ledger from a terminal.
//
// Usage:
//
//	wmsctl migrate
//	wmsctl seed --demo 20
//	wmsctl racks list
//	wmsctl racks import racks.xlsx
//	wmsctl receive --sku SKU001 --qty 12 --plate LP-1001
//	wmsctl putaway LP-1001 A-1-1
//	wmsctl dispatch LP-1001 5
//	wmsctl history --limit 20
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

type globalFlags struct {
	output string
	sqlite string
	actor  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "wmsctl",
		Short:         "Operate the rack warehouse ledger",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "table", "Output format: table, json")
	rootCmd.PersistentFlags().StringVar(&flags.sqlite, "sqlite", "", "Use this sqlite file instead of the configured database")
	rootCmd.PersistentFlags().StringVar(&flags.actor, "actor", "wmsctl", "Name recorded on ledger entries")

	rootCmd.AddCommand(migrateCmd(flags))
	rootCmd.AddCommand(seedCmd(flags))
	rootCmd.AddCommand(racksCmd(flags))
	rootCmd.AddCommand(receiveCmd(flags))
	rootCmd.AddCommand(putawayCmd(flags))
	rootCmd.AddCommand(dispatchCmd(flags))
	rootCmd.AddCommand(historyCmd(flags))
	rootCmd.AddCommand(queueCmd(flags))
	rootCmd.AddCommand(alertCmd(flags))
	rootCmd.AddCommand(tokenCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
