package main

import (
	"fmt"
	"os"
	"strconv"

	"rack-wms/reports"

	"github.com/spf13/cobra"
)

func racksCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "racks",
		Short: "List, create and import racks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List racks with their load",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			racks, err := e.racks.List(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, racks)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create CODE ZONE CAPACITY",
		Short: "Create a rack",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("capacity must be a number: %w", err)
			}
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			rack, err := e.racks.Create(cmd.Context(), args[0], args[1], capacity, flags.actor)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, rack)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Create or update racks from a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			summary, err := e.racks.Import(cmd.Context(), f, flags.actor)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, summary)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "template FILE.xlsx",
		Short: "Write an import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := reports.RackTemplate()
			if err != nil {
				return err
			}
			defer f.Close()
			return f.SaveAs(args[0])
		},
	})
	return cmd
}
