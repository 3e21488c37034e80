// Package testutil opens throwaway sqlite databases seeded with the standard
// master data for repository, service and controller tests.
package testutil

import (
	"path/filepath"
	"testing"

	"rack-wms/database"
	"rack-wms/migration"
	"rack-wms/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "wms.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, migration.Migrate(db))
	require.NoError(t, database.RunSeeders(db))
	return db
}

func Product(t *testing.T, db *gorm.DB, sku string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.Where("sku = ?", sku).First(&p).Error)
	return p
}

func Location(t *testing.T, db *gorm.DB, code string) models.Location {
	t.Helper()
	var l models.Location
	require.NoError(t, db.Where("code = ?", code).First(&l).Error)
	return l
}

func Rack(t *testing.T, db *gorm.DB, code string) models.Rack {
	t.Helper()
	var r models.Rack
	require.NoError(t, db.Where("rack_code = ?", code).First(&r).Error)
	return r
}

// SetRack overwrites or creates a rack with an exact zone, capacity and load.
func SetRack(t *testing.T, db *gorm.DB, code string, zone models.Classification, capacity, load int) models.Rack {
	t.Helper()
	var r models.Rack
	err := db.Where("rack_code = ?", code).First(&r).Error
	if err != nil {
		r = models.Rack{RackCode: code}
	}
	r.ZoneType = zone
	r.Capacity = capacity
	r.CurrentLoad = load
	require.NoError(t, db.Save(&r).Error)
	return r
}

// Receive inserts a balance sitting in the receiving zone.
func Receive(t *testing.T, db *gorm.DB, serial string, class models.Classification, qty int) models.InventoryBalance {
	t.Helper()
	product := Product(t, db, "SKU001")
	dock := Location(t, db, "R-0-0")
	b := models.InventoryBalance{
		ProductID:      product.ID,
		LocationID:     dock.ID,
		SerialNumber:   &serial,
		OnHandQty:      qty,
		Classification: class,
		UpdatedBy:      "test",
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func Balance(t *testing.T, db *gorm.DB, serial string) models.InventoryBalance {
	t.Helper()
	var b models.InventoryBalance
	require.NoError(t, db.Preload("Location").Preload("Product").
		Where("serial_number = ?", serial).Order("created_at desc").First(&b).Error)
	return b
}

func Transactions(t *testing.T, db *gorm.DB, serial string) []models.InventoryTransaction {
	t.Helper()
	var txns []models.InventoryTransaction
	require.NoError(t, db.Where("serial_number = ?", serial).Order("created_at asc, id asc").Find(&txns).Error)
	return txns
}
