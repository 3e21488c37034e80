package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rack-wms/models"
	"rack-wms/types"

	"gorm.io/gorm"
)

// MasterDataRepository reads products and locations. Nothing in the ledger
// writes to them.
type MasterDataRepository struct {
	db *gorm.DB
}

func NewMasterDataRepository(db *gorm.DB) *MasterDataRepository {
	return &MasterDataRepository{db}
}

func (r *MasterDataRepository) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Take(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &product, nil
}

func (r *MasterDataRepository) ProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", strings.TrimSpace(sku)).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("product %s not found", sku)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", sku, err)
	}
	return &product, nil
}

func (r *MasterDataRepository) LocationByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Take(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("location %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find location %d: %w", id, err)
	}
	return &location, nil
}

func (r *MasterDataRepository) LocationByCode(ctx context.Context, code string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).Take(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("location %s not found", code)
	}
	if err != nil {
		return nil, fmt.Errorf("find location %s: %w", code, err)
	}
	return &location, nil
}

// LocationForRack finds the physical location a rack code stands for: a
// location with the same code, or one whose zone, aisle and rack equal the
// dash separated parts of the code. It returns nil when there is none.
func LocationForRack(tx *gorm.DB, rackCode string) (*models.Location, error) {
	parts := strings.Split(rackCode, "-")
	part := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	var location models.Location
	err := tx.Where("code = ?", rackCode).
		Or("zone = ? AND aisle = ? AND rack = ?", part(0), part(1), part(2)).
		Order("id asc").
		Take(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location for rack %s: %w", rackCode, err)
	}
	return &location, nil
}
