package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"rack-wms/models"
	"rack-wms/repositories"
)

func str(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func output(w io.Writer, format string, result interface{}) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	switch r := result.(type) {
	case []models.Rack:
		fmt.Fprintln(tw, "RACK\tZONE\tLOAD\tCAPACITY\tFREE")
		for _, rack := range r {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", rack.RackCode, rack.ZoneType, rack.CurrentLoad, rack.Capacity, rack.Free())
		}
	case *models.Rack:
		fmt.Fprintf(tw, "RACK\t%s\nZONE\t%s\nCAPACITY\t%d\n", r.RackCode, r.ZoneType, r.Capacity)
	case *repositories.ImportSummary:
		fmt.Fprintf(tw, "CREATED\t%d\nUPDATED\t%d\n", r.Created, r.Updated)
	case []models.InventoryView:
		fmt.Fprintln(tw, "LICENSE PLATE\tPRODUCT\tRACK\tCLASS\tON HAND\tAVAILABLE\tSTATUS")
		for _, v := range r {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				str(v.SerialNumber), productName(v.Product), str(v.RackCode), v.Classification, v.OnHandQty, v.Quantity, v.StorageStatus)
		}
	case *models.InventoryView:
		fmt.Fprintf(tw, "LICENSE PLATE\t%s\nCLASS\t%s\nRACK\t%s\nON HAND\t%d\nSTATUS\t%s\n",
			str(r.SerialNumber), r.Classification, str(r.RackCode), r.OnHandQty, r.StorageStatus)
	case []models.DispatchRecord:
		fmt.Fprintln(tw, "AT\tLICENSE PLATE\tPRODUCT\tQTY\tBY")
		for _, d := range r {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				d.CreatedAt.Format("2006-01-02 15:04:05"), str(d.LicensePlate), productName(d.Product), d.Qty, d.CreatedBy)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return nil
}

func productName(p *models.Product) string {
	if p == nil {
		return "-"
	}
	return p.Name
}
