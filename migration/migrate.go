package migration

import (
	"rack-wms/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the ledger schema. Master data comes first so
// the balance and transaction foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Location{},
		&models.Rack{},
		&models.InventoryBalance{},
		&models.InventoryTransaction{},
	)
}
