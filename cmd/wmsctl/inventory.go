package main

import (
	"fmt"
	"strconv"

	"rack-wms/models"
	"rack-wms/repositories"
	"rack-wms/services"
	"rack-wms/types"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
)

var validate = validator.New()

type receiveArgs struct {
	SKU      string `validate:"required"`
	Location string `validate:"required"`
	Plate    string `validate:"required"`
	Qty      string `validate:"required"`
	Lot      string
}

func receiveCmd(flags *globalFlags) *cobra.Command {
	var in receiveArgs
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive a license plate into a location",
		Long: `Receive stock. The product is classified before the balance is written.

Examples:
  wmsctl receive --sku SKU001 --qty 12 --plate LP-1001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(in); err != nil {
				return err
			}
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			masters := repositories.NewMasterDataRepository(e.db)
			product, err := masters.ProductBySKU(cmd.Context(), in.SKU)
			if err != nil {
				return err
			}
			location, err := masters.LocationByCode(cmd.Context(), in.Location)
			if err != nil {
				return err
			}

			view, err := e.inventory.UpsertBalance(cmd.Context(), services.UpsertRequest{
				ProductID:    product.ID,
				LocationID:   location.ID,
				Quantity:     types.RawQuantity(in.Qty),
				LotNumber:    in.Lot,
				SerialNumber: in.Plate,
				TxnType:      models.TxnReceive,
				Actor:        flags.actor,
			})
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, view)
		},
	}
	cmd.Flags().StringVar(&in.SKU, "sku", "", "Product SKU")
	cmd.Flags().StringVar(&in.Location, "location", "R-0-0", "Location code")
	cmd.Flags().StringVar(&in.Plate, "plate", "", "License plate")
	cmd.Flags().StringVar(&in.Qty, "qty", "", "Quantity")
	cmd.Flags().StringVar(&in.Lot, "lot", "", "Lot number")
	return cmd
}

func putawayCmd(flags *globalFlags) *cobra.Command {
	var suggest bool
	cmd := &cobra.Command{
		Use:   "putaway LICENSE_PLATE [RACK]",
		Short: "Store a received license plate in a rack",
		Long: `Store a received license plate. Without RACK, or with --suggest, the first
rack of the matching zone with free room is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			var rackCode string
			if len(args) == 2 && !suggest {
				rackCode = args[1]
			} else {
				suggestion, err := e.inventory.SuggestRack(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rackCode = suggestion.SuggestedRack.RackCode
			}

			view, err := e.inventory.Putaway(cmd.Context(), args[0], rackCode, flags.actor)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, view)
		},
	}
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Ignore RACK and use the suggested rack")
	return cmd
}

func dispatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch LICENSE_PLATE QTY",
		Short: "Ship quantity from a stored license plate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			result, err := e.inventory.Dispatch(cmd.Context(), args[0], qty, flags.actor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return output(cmd.OutOrStdout(), flags.output, &result.Inventory)
		},
	}
}

func historyCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent dispatches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			records, err := e.inventory.DispatchHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default from DISPATCH_HISTORY_DEFAULT)")
	return cmd
}

func queueCmd(flags *globalFlags) *cobra.Command {
	var lowStock bool
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show license plates waiting for putaway",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			list := e.inventory.PutawayQueue
			if lowStock {
				list = e.inventory.LowStock
			}
			views, err := list(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), flags.output, views)
		},
	}
	cmd.Flags().BoolVar(&lowStock, "low-stock", false, "Show low stock balances instead")
	return cmd
}
