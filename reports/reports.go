// Package reports renders ledger data to xlsx workbooks and reads rack
// definitions back from them.
package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"rack-wms/models"
	"rack-wms/repositories"

	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheet       = "Sheet1"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeRows(f *excelize.File, header []string, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// BalancesWorkbook lists one row per balance.
func BalancesWorkbook(views []models.InventoryView) (*excelize.File, error) {
	header := []string{"License Plate", "SKU", "Product", "Location", "Rack", "Classification",
		"On Hand", "Available", "Stock Status", "Storage Status", "Last Updated"}

	rows := make([][]interface{}, 0, len(views))
	for _, v := range views {
		var sku, product, location string
		if v.Product != nil {
			sku, product = v.Product.SKU, v.Product.Name
		}
		if v.Location != nil {
			location = v.Location.Code
		}
		rows = append(rows, []interface{}{
			str(v.SerialNumber), sku, product, location, str(v.RackCode), string(v.Classification),
			v.OnHandQty, v.Quantity, v.Status, string(v.StorageStatus), v.LastUpdated.Format(time.RFC3339),
		})
	}

	f := excelize.NewFile()
	if err := writeRows(f, header, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func DispatchHistoryWorkbook(records []models.DispatchRecord) (*excelize.File, error) {
	header := []string{"Dispatched At", "License Plate", "SKU", "Product", "Qty", "Reference", "Reason", "By"}

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		var sku, product string
		if r.Product != nil {
			sku, product = r.Product.SKU, r.Product.Name
		}
		rows = append(rows, []interface{}{
			r.CreatedAt.Format(time.RFC3339), str(r.LicensePlate), sku, product, r.Qty,
			strings.TrimSpace(r.ReferenceType + " " + str(r.ReferenceID)), r.Reason, r.CreatedBy,
		})
	}

	f := excelize.NewFile()
	if err := writeRows(f, header, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Bytes serializes and closes f.
func Bytes(f *excelize.File) ([]byte, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RowError points at one bad spreadsheet row. Row numbers are 1-based as
// shown in Excel.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ReadRackSheet reads rack code, zone type and capacity from the first
// sheet. Columns are found by header name; without a recognizable header
// they are taken in that order.
func ReadRackSheet(r io.Reader) ([]repositories.RackInput, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook contains no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet must contain a header row and at least one data row")
	}

	codeCol, zoneCol, capCol := 0, 1, 2
	for i, h := range rows[0] {
		switch normalizeHeader(h) {
		case "rackcode", "code", "rack":
			codeCol = i
		case "zonetype", "zone", "classification":
			zoneCol = i
		case "capacity", "cap":
			capCol = i
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var (
		inputs []repositories.RackInput
		errs   []RowError
		seen   = map[string]int{}
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		code := cell(row, codeCol)
		if code == "" && cell(row, capCol) == "" {
			continue
		}
		if code == "" {
			errs = append(errs, RowError{Row: rowNum, Message: "rack code is required"})
			continue
		}
		if first, dup := seen[code]; dup {
			errs = append(errs, RowError{Row: rowNum, Message: fmt.Sprintf("rack %s already listed on row %d", code, first)})
			continue
		}
		seen[code] = rowNum

		capacity, err := strconv.Atoi(cell(row, capCol))
		if err != nil || capacity <= 0 {
			errs = append(errs, RowError{Row: rowNum, Message: "capacity must be a whole number greater than 0"})
			continue
		}
		inputs = append(inputs, repositories.RackInput{
			RackCode: code,
			ZoneType: cell(row, zoneCol),
			Capacity: capacity,
		})
	}
	return inputs, errs, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// RackTemplate is an empty import sheet with the expected header.
func RackTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeRows(f, []string{"Rack Code", "Zone Type", "Capacity"}, [][]interface{}{
		{"A-1-1", string(models.ClassNormal), 100},
	}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
