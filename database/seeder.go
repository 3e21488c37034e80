package database

import (
	"errors"
	"fmt"

	"rack-wms/models"

	"gorm.io/gorm"
)

// RunSeeders inserts the master data a fresh warehouse starts with. Rows
// that already exist are left alone.
func RunSeeders(db *gorm.DB) error {
	if err := SeedLocations(db); err != nil {
		return err
	}
	if err := SeedRacks(db); err != nil {
		return err
	}
	return SeedProducts(db)
}

func SeedLocations(db *gorm.DB) error {
	locations := []models.Location{
		{Code: "R-0-0", Name: "Receiving Zone", Zone: "R", Aisle: "0", Rack: "0", Shelf: "0", LocationType: models.LocationTypeReceiving},
		{Code: "A-1-1", Name: "Zone A Rack 1", Zone: "A", Aisle: "1", Rack: "1", Shelf: "1", LocationType: "storage"},
		{Code: "A-1-2", Name: "Zone A Rack 2", Zone: "A", Aisle: "1", Rack: "2", Shelf: "1", LocationType: "storage"},
		{Code: "B-1-1", Name: "Zone B Rack 1", Zone: "B", Aisle: "1", Rack: "1", Shelf: "1", LocationType: "storage"},
	}

	for _, l := range locations {
		if err := createIfMissing(db, &models.Location{}, "code = ?", l.Code, &l); err != nil {
			return err
		}
	}
	return nil
}

func SeedRacks(db *gorm.DB) error {
	racks := []models.Rack{
		{RackCode: "A-1-1", ZoneType: models.ClassNormal, Capacity: 100, CreatedBy: "system"},
		{RackCode: "A-1-2", ZoneType: models.ClassFragile, Capacity: 100, CreatedBy: "system"},
		{RackCode: "B-1-1", ZoneType: models.ClassToxic, Capacity: 150, CreatedBy: "system"},
		{RackCode: "C-1-1", ZoneType: models.ClassInflammable, Capacity: 120, CreatedBy: "system"},
	}

	for _, r := range racks {
		if err := createIfMissing(db, &models.Rack{}, "rack_code = ?", r.RackCode, &r); err != nil {
			return err
		}
	}
	return nil
}

func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{Name: "Widget A", SKU: "SKU001", Category: "Electronics", MinStockLevel: 10},
		{Name: "Widget B", SKU: "SKU002", Category: "Electronics", MinStockLevel: 5},
		{Name: "Gadget X", SKU: "SKU003", Category: "Gadgets", MinStockLevel: 3},
		{Name: "Tool Kit", SKU: "SKU004", Category: "Tools", MinStockLevel: 2},
		{Name: "Part Alpha", SKU: "SKU005", Category: "Parts", MinStockLevel: 100},
	}

	for _, p := range products {
		if err := createIfMissing(db, &models.Product{}, "sku = ?", p.SKU, &p); err != nil {
			return err
		}
	}
	return nil
}

func createIfMissing(db *gorm.DB, existing interface{}, query string, key string, row interface{}) error {
	err := db.Where(query, key).First(existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed lookup %s: %w", key, err)
	}
	if err := db.Create(row).Error; err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	return nil
}
