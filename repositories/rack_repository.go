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

type RackRepository struct {
	db *gorm.DB
}

func NewRackRepository(db *gorm.DB) *RackRepository {
	return &RackRepository{db}
}

// RackInput is one rack definition coming from the API or a spreadsheet.
type RackInput struct {
	RackCode string
	ZoneType string
	Capacity int
}

type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (r *RackRepository) List(ctx context.Context) ([]models.Rack, error) {
	var racks []models.Rack
	if err := r.db.WithContext(ctx).Order("rack_code asc").Find(&racks).Error; err != nil {
		return nil, fmt.Errorf("list racks: %w", err)
	}
	return racks, nil
}

func (r *RackRepository) FindByCode(ctx context.Context, code string) (*models.Rack, error) {
	return findRackByCode(r.db.WithContext(ctx), code, false)
}

// LockByCode reads the rack inside tx and holds its row lock until commit.
func (r *RackRepository) LockByCode(tx *gorm.DB, code string) (*models.Rack, error) {
	return findRackByCode(tx, code, true)
}

func (r *RackRepository) LockByID(tx *gorm.DB, id uint) (*models.Rack, error) {
	var rack models.Rack
	err := forUpdate(tx, "racks").Where("id = ?", id).Take(&rack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("rack %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock rack %d: %w", id, err)
	}
	return &rack, nil
}

func findRackByCode(db *gorm.DB, code string, lock bool) (*models.Rack, error) {
	code = strings.TrimSpace(code)
	q := db
	if lock {
		q = forUpdate(q, "racks")
	}

	var rack models.Rack
	err := q.Where("rack_code = ?", code).Take(&rack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Target rack %s not found", code)
	}
	if err != nil {
		return nil, fmt.Errorf("find rack %s: %w", code, err)
	}
	return &rack, nil
}

// FindCandidate returns the first rack, by code, of the given zone that
// still has room.
func (r *RackRepository) FindCandidate(ctx context.Context, classification models.Classification) (*models.Rack, error) {
	zone := models.NormalizeClassification(string(classification))

	var rack models.Rack
	err := r.db.WithContext(ctx).
		Where("zone_type = ? AND current_load < capacity", zone).
		Order("rack_code asc").
		Take(&rack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("No suitable rack available for %s stock", zone)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s rack: %w", zone, err)
	}
	return &rack, nil
}

// Increment adds amount to the rack load. The update only applies when the
// result stays within capacity, so concurrent writers cannot overfill a rack
// even where row locks are unavailable.
func (r *RackRepository) Increment(tx *gorm.DB, rackID uint, amount int) error {
	if amount < 0 {
		return types.ValidationError("rack increment must not be negative, got %d", amount)
	}
	if amount == 0 {
		return nil
	}

	res := tx.Model(&models.Rack{}).
		Where("id = ? AND current_load + ? <= capacity", rackID, amount).
		Update("current_load", gorm.Expr("current_load + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("increment rack %d: %w", rackID, res.Error)
	}
	if res.RowsAffected == 0 {
		return types.CapacityExceeded("rack %d cannot take %d more units", rackID, amount)
	}
	return nil
}

// Decrement releases up to amount units and returns how many were released.
// The load never drops below zero.
func (r *RackRepository) Decrement(tx *gorm.DB, rackID uint, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	rack, err := r.LockByID(tx, rackID)
	if err != nil {
		return 0, err
	}

	release := amount
	if rack.CurrentLoad < release {
		release = rack.CurrentLoad
	}
	if release == 0 {
		return 0, nil
	}

	res := tx.Model(&models.Rack{}).
		Where("id = ? AND current_load >= ?", rackID, release).
		Update("current_load", gorm.Expr("current_load - ?", release))
	if res.Error != nil {
		return 0, fmt.Errorf("decrement rack %d: %w", rackID, res.Error)
	}
	if res.RowsAffected == 0 {
		// load changed under us, retry against the fresh value
		return r.Decrement(tx, rackID, amount)
	}
	return release, nil
}

func (r *RackRepository) CreateRack(ctx context.Context, code, zoneType string, capacity int, actor string) (*models.Rack, error) {
	rack, err := buildRack(RackInput{RackCode: code, ZoneType: zoneType, Capacity: capacity})
	if err != nil {
		return nil, err
	}
	rack.CreatedBy = actor
	rack.UpdatedBy = actor

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Rack{}).Where("rack_code = ?", rack.RackCode).Count(&count).Error; err != nil {
			return fmt.Errorf("check rack %s: %w", rack.RackCode, err)
		}
		if count > 0 {
			return types.ValidationError("rack %s already exists", rack.RackCode)
		}
		if err := tx.Create(rack).Error; err != nil {
			return fmt.Errorf("create rack %s: %w", rack.RackCode, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rack, nil
}

// ImportRacks creates new racks and updates zone and capacity of existing
// ones in a single transaction. A row that would leave a rack below its
// current load aborts the whole import.
func (r *RackRepository) ImportRacks(ctx context.Context, rows []RackInput, actor string) (*ImportSummary, error) {
	summary := &ImportSummary{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			incoming, err := buildRack(row)
			if err != nil {
				return types.ValidationError("row %d: %s", i+1, err.(*types.AppError).Detail)
			}

			existing, err := r.LockByCode(tx, incoming.RackCode)
			if types.KindOf(err) == types.KindNotFound {
				incoming.CreatedBy = actor
				incoming.UpdatedBy = actor
				if err := tx.Create(incoming).Error; err != nil {
					return fmt.Errorf("create rack %s: %w", incoming.RackCode, err)
				}
				summary.Created++
				continue
			}
			if err != nil {
				return err
			}

			if incoming.Capacity < existing.CurrentLoad {
				return types.ValidationError("row %d: capacity %d of rack %s is below its current load %d",
					i+1, incoming.Capacity, existing.RackCode, existing.CurrentLoad)
			}
			if err := tx.Model(existing).Updates(map[string]interface{}{
				"zone_type":  incoming.ZoneType,
				"capacity":   incoming.Capacity,
				"updated_by": actor,
			}).Error; err != nil {
				return fmt.Errorf("update rack %s: %w", existing.RackCode, err)
			}
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func buildRack(in RackInput) (*models.Rack, error) {
	code := strings.TrimSpace(in.RackCode)
	if code == "" {
		return nil, types.ValidationError("rackCode is required")
	}
	if in.Capacity <= 0 {
		return nil, types.ValidationError("capacity must be greater than 0")
	}
	return &models.Rack{
		RackCode: code,
		ZoneType: models.NormalizeClassification(in.ZoneType),
		Capacity: in.Capacity,
	}, nil
}
