package seed

import (
	"context"
	"fmt"
	"strconv"

	"rack-wms/models"
	"rack-wms/services"
	"rack-wms/types"

	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

// SeedDemoReceipts receives n random license plates of the seeded products
// into the receiving zone. Products are classified the normal way.
func SeedDemoReceipts(ctx context.Context, db *gorm.DB, svc *services.InventoryService, n int, seed uint64) ([]string, error) {
	var products []models.Product
	if err := db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products to receive, run the master data seeder first")
	}

	var dock models.Location
	if err := db.WithContext(ctx).Where("location_type = ?", models.LocationTypeReceiving).
		Order("id asc").First(&dock).Error; err != nil {
		return nil, fmt.Errorf("find receiving location: %w", err)
	}

	r := rand.New(rand.NewSource(seed))
	plates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		product := products[r.Intn(len(products))]
		plate := fmt.Sprintf("DEMO-%d-%04d", seed, i+1)
		_, err := svc.UpsertBalance(ctx, services.UpsertRequest{
			ProductID:     product.ID,
			LocationID:    dock.ID,
			Quantity:      types.RawQuantity(strconv.Itoa(1 + r.Intn(40))),
			LotNumber:     fmt.Sprintf("LOT%d", 100+r.Intn(900)),
			SerialNumber:  plate,
			TxnType:       models.TxnReceive,
			ReferenceType: models.RefManual,
			Reason:        "Demo receipt",
			Actor:         "seeder",
		})
		if err != nil {
			return plates, fmt.Errorf("receive %s: %w", plate, err)
		}
		plates = append(plates, plate)
	}
	return plates, nil
}
