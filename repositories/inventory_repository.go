package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rack-wms/models"
	"rack-wms/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db    *gorm.DB
	racks *RackRepository
	log   *zap.Logger
}

func NewInventoryRepository(db *gorm.DB, log *zap.Logger) *InventoryRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryRepository{db: db, racks: NewRackRepository(db), log: log}
}

// UpsertInput identifies a balance by product, location, lot and serial and
// carries the new on-hand quantity plus the ledger entry describing why.
type UpsertInput struct {
	ProductID      uint
	LocationID     uint
	LotNumber      *string
	SerialNumber   *string
	Quantity       int
	Classification models.Classification
	ExpiryDate     *time.Time
	TxnType        string
	ReferenceType  string
	ReferenceID    *string
	Reason         string
	Actor          string
}

// BestEffort reports a secondary effect that is allowed to fail without
// failing the operation that triggered it.
type BestEffort struct {
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

type DeleteResult struct {
	Message     string                  `json:"message"`
	Inventory   models.InventoryBalance `json:"inventory"`
	RackRelease BestEffort              `json:"rack_release"`
	AuditLog    BestEffort              `json:"audit_log"`
}

func (r *InventoryRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Product").Preload("Location")
}

func (r *InventoryRepository) List(ctx context.Context) ([]models.InventoryBalance, error) {
	var balances []models.InventoryBalance
	if err := r.preloaded(ctx).Order("created_at asc, id asc").Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return balances, nil
}

func (r *InventoryRepository) ListByLocation(ctx context.Context, locationID uint) ([]models.InventoryBalance, error) {
	var balances []models.InventoryBalance
	err := r.preloaded(ctx).Where("location_id = ?", locationID).Order("created_at asc, id asc").Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("list inventory at location %d: %w", locationID, err)
	}
	return balances, nil
}

// PutawayQueue lists stock on hand that has no rack yet, oldest first.
func (r *InventoryRepository) PutawayQueue(ctx context.Context) ([]models.InventoryBalance, error) {
	var balances []models.InventoryBalance
	err := r.preloaded(ctx).
		Where("on_hand_qty > 0 AND (rack_code IS NULL OR rack_code = '')").
		Order("created_at asc, id asc").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("list putaway queue: %w", err)
	}
	return balances, nil
}

// LowStock lists balances whose available quantity is positive but below threshold.
func (r *InventoryRepository) LowStock(ctx context.Context, threshold int) ([]models.InventoryBalance, error) {
	const available = "(on_hand_qty - allocated_qty - hold_qty - damaged_qty)"

	var balances []models.InventoryBalance
	err := r.preloaded(ctx).
		Where(available+" > 0 AND "+available+" < ?", threshold).
		Order("created_at asc, id asc").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return balances, nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id types.SnowflakeID) (*models.InventoryBalance, error) {
	var balance models.InventoryBalance
	err := r.preloaded(ctx).Where("id = ?", id).Take(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Inventory item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find inventory %s: %w", id, err)
	}
	return &balance, nil
}

// FindBySerial returns the most recently created balance carrying the
// license plate.
func (r *InventoryRepository) FindBySerial(ctx context.Context, serial string) (*models.InventoryBalance, error) {
	return findBySerial(r.preloaded(ctx), serial)
}

// LockBySerial is FindBySerial inside tx with the balance row locked.
func (r *InventoryRepository) LockBySerial(tx *gorm.DB, serial string) (*models.InventoryBalance, error) {
	balance, err := findBySerial(forUpdate(tx, "inventory_balances"), serial)
	if err != nil {
		return nil, err
	}
	if err := loadReferences(tx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func findBySerial(q *gorm.DB, serial string) (*models.InventoryBalance, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, types.ValidationError("licensePlate is required")
	}

	var balance models.InventoryBalance
	err := q.Where("serial_number = ?", serial).Order("created_at desc, id desc").Take(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("No inventory found for license_plate %s", serial)
	}
	if err != nil {
		return nil, fmt.Errorf("find inventory %s: %w", serial, err)
	}
	return &balance, nil
}

// loadReferences fills Product and Location with plain reads so the
// locking clause of the balance query is not repeated on them.
func loadReferences(tx *gorm.DB, balance *models.InventoryBalance) error {
	var product models.Product
	if err := tx.Take(&product, balance.ProductID).Error; err == nil {
		balance.Product = &product
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load product %d: %w", balance.ProductID, err)
	}

	var location models.Location
	if err := tx.Take(&location, balance.LocationID).Error; err == nil {
		balance.Location = &location
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load location %d: %w", balance.LocationID, err)
	} else {
		balance.Location = nil
	}
	return nil
}

func whereNullable(q *gorm.DB, column string, value *string) *gorm.DB {
	if value == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *value)
}

// UpsertBalance sets the on-hand quantity of the balance identified by
// product, location, lot and serial, creating it when missing, and appends
// one ledger entry recording the resulting quantity. When the balance sits
// in a rack the rack load follows the change.
func (r *InventoryRepository) UpsertBalance(ctx context.Context, in UpsertInput) (*models.InventoryBalance, error) {
	if in.Quantity < 0 {
		return nil, types.ValidationError("quantity must not be negative")
	}
	if in.TxnType == "" {
		in.TxnType = models.TxnAdjust
	}
	if in.ReferenceType == "" {
		in.ReferenceType = models.RefManual
	}
	if in.Reason == "" {
		in.Reason = "Inventory upsert via API"
	}

	var id types.SnowflakeID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A missing balance has no row to lock, so first receives of the
		// same product queue on the product row instead.
		var product models.Product
		err := forUpdate(tx, "products").Select("id").Where("id = ?", in.ProductID).Take(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NotFound("product %d not found", in.ProductID)
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", in.ProductID, err)
		}

		q := forUpdate(tx, "inventory_balances").
			Where("product_id = ? AND location_id = ?", in.ProductID, in.LocationID)
		q = whereNullable(q, "lot_number", in.LotNumber)
		q = whereNullable(q, "serial_number", in.SerialNumber)

		var existing models.InventoryBalance
		err = q.Order("created_at desc, id desc").Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.InventoryBalance{
				ProductID:      in.ProductID,
				LocationID:     in.LocationID,
				LotNumber:      in.LotNumber,
				SerialNumber:   in.SerialNumber,
				OnHandQty:      in.Quantity,
				Classification: classificationOr(in.Classification, models.ClassNormal),
				ExpiryDate:     in.ExpiryDate,
				UpdatedBy:      in.Actor,
			}
			if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
				return fmt.Errorf("create inventory: %w", err)
			}
			id = created.ID
		case err != nil:
			return fmt.Errorf("find inventory: %w", err)
		default:
			if err := r.followRackLoad(tx, &existing, in.Quantity-existing.OnHandQty); err != nil {
				return err
			}

			updates := map[string]interface{}{
				"on_hand_qty":    in.Quantity,
				"classification": classificationOr(in.Classification, existing.Classification),
				"updated_by":     in.Actor,
			}
			if in.ExpiryDate != nil {
				updates["expiry_date"] = *in.ExpiryDate
			}
			if err := tx.Model(&existing).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return fmt.Errorf("update inventory %s: %w", existing.ID, err)
			}
			id = existing.ID
		}

		return AppendTransaction(tx, &models.InventoryTransaction{
			ProductID:     in.ProductID,
			LocationID:    in.LocationID,
			LotNumber:     in.LotNumber,
			SerialNumber:  in.SerialNumber,
			TxnType:       in.TxnType,
			Qty:           in.Quantity,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Reason:        in.Reason,
			CreatedBy:     in.Actor,
		})
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *InventoryRepository) followRackLoad(tx *gorm.DB, balance *models.InventoryBalance, delta int) error {
	if delta == 0 || !balance.HasRack() {
		return nil
	}

	rack, err := r.racks.LockByCode(tx, *balance.RackCode)
	if types.KindOf(err) == types.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if delta > 0 {
		if err := r.racks.Increment(tx, rack.ID, delta); err != nil {
			if types.KindOf(err) == types.KindCapacityExceeded {
				return types.CapacityExceeded("rack %s has %d free units, cannot take %d more", rack.RackCode, rack.Free(), delta)
			}
			return err
		}
		return nil
	}
	_, err = r.racks.Decrement(tx, rack.ID, -delta)
	return err
}

func classificationOr(value, fallback models.Classification) models.Classification {
	if strings.TrimSpace(string(value)) == "" {
		return models.NormalizeClassification(string(fallback))
	}
	return models.NormalizeClassification(string(value))
}

// AppendTransaction writes one ledger entry. Ledger entries are never
// updated or deleted.
func AppendTransaction(tx *gorm.DB, txn *models.InventoryTransaction) error {
	if err := tx.Omit(clause.Associations).Create(txn).Error; err != nil {
		return fmt.Errorf("append %s transaction: %w", txn.TxnType, err)
	}
	return nil
}

// DeleteBalance locks and removes the balance in one transaction. Releasing
// its rack load and writing the delete ledger entry happen afterwards from
// the locked row, and their failures are reported in the result instead of
// failing the delete.
func (r *InventoryRepository) DeleteBalance(ctx context.Context, id types.SnowflakeID, actor string) (*DeleteResult, error) {
	if actor == "" {
		actor = "admin"
	}

	var balance models.InventoryBalance
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx, "inventory_balances").Where("id = ?", id).Take(&balance).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NotFound("Inventory item %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("lock inventory %s: %w", id, err)
		}
		if err := loadReferences(tx, &balance); err != nil {
			return err
		}

		res := tx.Delete(&models.InventoryBalance{}, "id = ?", balance.ID)
		if res.Error != nil {
			return fmt.Errorf("delete inventory %s: %w", balance.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NotFound("Inventory item %s not found", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{
		Message:   "Inventory item removed successfully",
		Inventory: balance,
	}

	if balance.HasRack() && balance.OnHandQty > 0 {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			rack, err := r.racks.LockByCode(tx, *balance.RackCode)
			if err != nil {
				return err
			}
			_, err = r.racks.Decrement(tx, rack.ID, balance.OnHandQty)
			return err
		})
		if err != nil {
			result.RackRelease.Error = err.Error()
			r.log.Warn("rack load update skipped",
				zap.String("inventory_id", balance.ID.String()),
				zap.String("rack_code", *balance.RackCode),
				zap.Error(err))
		} else {
			result.RackRelease.Applied = true
		}
	}

	ref := balance.ID.String()
	err = AppendTransaction(r.db.WithContext(ctx), &models.InventoryTransaction{
		ProductID:     balance.ProductID,
		LocationID:    balance.LocationID,
		LotNumber:     balance.LotNumber,
		SerialNumber:  balance.SerialNumber,
		TxnType:       models.TxnDelete,
		Qty:           balance.OnHandQty,
		ReferenceType: models.RefInventoryID,
		ReferenceID:   &ref,
		Reason:        "Inventory row deleted by admin",
		CreatedBy:     actor,
	})
	if err != nil {
		result.AuditLog.Error = err.Error()
		r.log.Warn("transaction log skipped",
			zap.String("inventory_id", ref),
			zap.Error(err))
	} else {
		result.AuditLog.Applied = true
	}

	return result, nil
}

func (r *InventoryRepository) DispatchHistory(ctx context.Context, limit int) ([]models.InventoryTransaction, error) {
	var txns []models.InventoryTransaction
	err := r.preloaded(ctx).
		Where("txn_type = ?", models.TxnOutboundDispatch).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list dispatch history: %w", err)
	}
	return txns, nil
}

// Transactions returns the full ledger of a license plate, oldest first.
func (r *InventoryRepository) Transactions(ctx context.Context, serial string) ([]models.InventoryTransaction, error) {
	var txns []models.InventoryTransaction
	err := r.preloaded(ctx).
		Where("serial_number = ?", strings.TrimSpace(serial)).
		Order("created_at asc, id asc").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions of %s: %w", serial, err)
	}
	return txns, nil
}
