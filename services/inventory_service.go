package services

import (
	"context"
	"strings"
	"time"

	"rack-wms/config"
	"rack-wms/models"
	"rack-wms/repositories"
	"rack-wms/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Classifier resolves the hazard class of a product. It never fails.
type Classifier interface {
	Classify(ctx context.Context, name, description string) models.Classification
}

type normalOnly struct{}

func (normalOnly) Classify(context.Context, string, string) models.Classification {
	return models.ClassNormal
}

type InventoryOptions struct {
	LowStockThreshold int
	LenientQuantity   bool
	HistoryDefault    int
	HistoryMax        int
}

func DefaultInventoryOptions() InventoryOptions {
	return InventoryOptions{
		LowStockThreshold: 10,
		HistoryDefault:    100,
		HistoryMax:        500,
	}
}

func InventoryOptionsFromConfig() InventoryOptions {
	return InventoryOptions{
		LowStockThreshold: config.LowStockThreshold,
		LenientQuantity:   config.LenientQuantityParse,
		HistoryDefault:    config.DispatchHistoryDefault,
		HistoryMax:        config.DispatchHistoryMax,
	}
}

type InventoryService struct {
	db         *gorm.DB
	inventory  *repositories.InventoryRepository
	racks      *repositories.RackRepository
	masters    *repositories.MasterDataRepository
	classifier Classifier
	opts       InventoryOptions
	log        *zap.Logger
}

func NewInventoryService(db *gorm.DB, classifier Classifier, log *zap.Logger, opts InventoryOptions) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	if classifier == nil {
		classifier = normalOnly{}
	}
	defaults := DefaultInventoryOptions()
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = defaults.LowStockThreshold
	}
	if opts.HistoryDefault <= 0 {
		opts.HistoryDefault = defaults.HistoryDefault
	}
	if opts.HistoryMax <= 0 {
		opts.HistoryMax = defaults.HistoryMax
	}
	return &InventoryService{
		db:         db,
		inventory:  repositories.NewInventoryRepository(db, log),
		racks:      repositories.NewRackRepository(db),
		masters:    repositories.NewMasterDataRepository(db),
		classifier: classifier,
		opts:       opts,
		log:        log,
	}
}

func (s *InventoryService) Options() InventoryOptions {
	return s.opts
}

// UpsertRequest is the receive/adjust entry point. Quantity is kept raw so
// the parsing policy stays in one place.
type UpsertRequest struct {
	ProductID      uint
	LocationID     uint
	Quantity       types.RawQuantity
	LotNumber      string
	SerialNumber   string
	ExpiryDate     *time.Time
	Classification string
	TxnType        string
	ReferenceType  string
	ReferenceID    string
	Reason         string
	Actor          string
}

type RackSuggestion struct {
	Inventory     models.InventoryView `json:"inventory"`
	SuggestedRack models.Rack          `json:"suggested_rack"`
}

type DispatchResult struct {
	Message         string               `json:"message"`
	DispatchedQty   int                  `json:"dispatched_qty"`
	AvailableBefore int                  `json:"available_before"`
	AvailableAfter  int                  `json:"available_after"`
	Inventory       models.InventoryView `json:"inventory"`
}

const (
	msgFullyShipped = "Dispatch successful. Inventory quantity is 0 and status is now SHIPPED."
	msgDispatched   = "Dispatch successful."
)

// fail converts err into an AppError. Store errors are logged here and
// reach the caller only as a generic STORE_FAILURE.
func (s *InventoryService) fail(op string, err error) error {
	appErr := types.AsAppError(err)
	if appErr.Kind == types.KindStoreFailure {
		s.log.Error("inventory store failure", zap.String("op", op), zap.Error(err))
	}
	return appErr
}

func (s *InventoryService) views(op string, balances []models.InventoryBalance, err error) ([]models.InventoryView, error) {
	if err != nil {
		return nil, s.fail(op, err)
	}
	return models.ViewsOf(balances, s.opts.LowStockThreshold), nil
}

func (s *InventoryService) List(ctx context.Context) ([]models.InventoryView, error) {
	balances, err := s.inventory.List(ctx)
	return s.views("list", balances, err)
}

func (s *InventoryService) ListByLocation(ctx context.Context, locationID uint) ([]models.InventoryView, error) {
	balances, err := s.inventory.ListByLocation(ctx, locationID)
	return s.views("list_by_location", balances, err)
}

func (s *InventoryService) PutawayQueue(ctx context.Context) ([]models.InventoryView, error) {
	balances, err := s.inventory.PutawayQueue(ctx)
	return s.views("putaway_queue", balances, err)
}

func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	balances, err := s.inventory.LowStock(ctx, s.opts.LowStockThreshold)
	return s.views("low_stock", balances, err)
}

// HistoryLimit applies the default page size and the hard cap.
func (s *InventoryService) HistoryLimit(limit int) int {
	if limit <= 0 {
		limit = s.opts.HistoryDefault
	}
	if limit > s.opts.HistoryMax {
		limit = s.opts.HistoryMax
	}
	return limit
}

func (s *InventoryService) DispatchHistory(ctx context.Context, limit int) ([]models.DispatchRecord, error) {
	txns, err := s.inventory.DispatchHistory(ctx, s.HistoryLimit(limit))
	if err != nil {
		return nil, s.fail("dispatch_history", err)
	}
	records := make([]models.DispatchRecord, 0, len(txns))
	for i := range txns {
		records = append(records, txns[i].DispatchRecord())
	}
	return records, nil
}

func (s *InventoryService) Transactions(ctx context.Context, serial string) ([]models.InventoryTransaction, error) {
	if strings.TrimSpace(serial) == "" {
		return nil, types.ValidationError("licensePlate is required")
	}
	txns, err := s.inventory.Transactions(ctx, serial)
	if err != nil {
		return nil, s.fail("transactions", err)
	}
	return txns, nil
}

// SuggestRack proposes the first rack of the balance's zone with room left.
func (s *InventoryService) SuggestRack(ctx context.Context, serial string) (*RackSuggestion, error) {
	balance, err := s.inventory.FindBySerial(ctx, serial)
	if err != nil {
		return nil, s.fail("suggest", err)
	}
	if status := balance.StorageStatus(); status != models.StatusReceived {
		return nil, types.InvalidTransition("Putaway not allowed: inventory status is %s", status)
	}

	rack, err := s.racks.FindCandidate(ctx, balance.Classification)
	if err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return nil, types.NotFound("No suitable rack available")
		}
		return nil, s.fail("suggest", err)
	}
	return &RackSuggestion{
		Inventory:     balance.View(s.opts.LowStockThreshold),
		SuggestedRack: *rack,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func actorOr(actor, fallback string) string {
	if actor = strings.TrimSpace(actor); actor != "" {
		return actor
	}
	return fallback
}

// UpsertBalance classifies received stock, then writes the balance and its
// ledger entry. Classification happens before the ledger transaction opens.
func (s *InventoryService) UpsertBalance(ctx context.Context, req UpsertRequest) (*models.InventoryView, error) {
	qty, err := types.ParseQuantity(req.Quantity, s.opts.LenientQuantity)
	if err != nil {
		return nil, err
	}
	if req.ProductID == 0 {
		return nil, types.ValidationError("productId is required")
	}
	if req.LocationID == 0 {
		return nil, types.ValidationError("locationId is required")
	}

	product, err := s.masters.ProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, s.fail("upsert", err)
	}
	if _, err := s.masters.LocationByID(ctx, req.LocationID); err != nil {
		return nil, s.fail("upsert", err)
	}

	txnType := strings.ToLower(strings.TrimSpace(req.TxnType))
	if txnType == "" {
		txnType = models.TxnAdjust
	}

	class := models.Classification(strings.TrimSpace(req.Classification))
	if txnType == models.TxnReceive {
		class = s.classifier.Classify(ctx, product.Name, product.Description)
		s.log.Info("received stock classified",
			zap.String("product", product.Name),
			zap.String("classification", class.String()))
	}

	balance, err := s.inventory.UpsertBalance(ctx, repositories.UpsertInput{
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		LotNumber:      optional(req.LotNumber),
		SerialNumber:   optional(req.SerialNumber),
		Quantity:       qty,
		Classification: class,
		ExpiryDate:     req.ExpiryDate,
		TxnType:        txnType,
		ReferenceType:  strings.TrimSpace(req.ReferenceType),
		ReferenceID:    optional(req.ReferenceID),
		Reason:         strings.TrimSpace(req.Reason),
		Actor:          actorOr(req.Actor, "system"),
	})
	if err != nil {
		return nil, s.fail("upsert", err)
	}
	view := balance.View(s.opts.LowStockThreshold)
	return &view, nil
}

// Putaway moves a RECEIVED balance into a rack of its zone. Rack load,
// balance and ledger entry change in one transaction.
func (s *InventoryService) Putaway(ctx context.Context, serial, rackCode, actor string) (*models.InventoryView, error) {
	serial = strings.TrimSpace(serial)
	rackCode = strings.TrimSpace(rackCode)
	if serial == "" || rackCode == "" {
		return nil, types.ValidationError("licensePlate and rackCode are required")
	}
	actor = actorOr(actor, "system")

	target, err := s.racks.FindByCode(ctx, rackCode)
	if err != nil {
		return nil, s.fail("putaway", err)
	}
	if _, err := s.inventory.FindBySerial(ctx, serial); err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return nil, types.NotFound("License Plate %s not found in receiving zone", serial)
		}
		return nil, s.fail("putaway", err)
	}

	var balanceID types.SnowflakeID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.inventory.LockBySerial(tx, serial)
		if err != nil {
			return err
		}
		balanceID = balance.ID

		if status := balance.StorageStatus(); status != models.StatusReceived {
			return types.InvalidTransition("Putaway blocked: inventory status is %s. Only RECEIVED items can be put away.", status)
		}

		rack, err := s.racks.LockByID(tx, target.ID)
		if err != nil {
			return err
		}

		class := models.NormalizeClassification(string(balance.Classification))
		zone := models.NormalizeClassification(string(rack.ZoneType))
		if class != zone {
			return types.ZoneMismatch("Rack zone mismatch: inventory is %s, rack zone is %s", class, zone)
		}
		if !rack.CanHold(balance.OnHandQty) {
			return types.CapacityExceeded("Rack %s cannot hold %d units: load %d of %d",
				rack.RackCode, balance.OnHandQty, rack.CurrentLoad, rack.Capacity)
		}

		if err := s.racks.Increment(tx, rack.ID, balance.OnHandQty); err != nil {
			return err
		}

		locationID := balance.LocationID
		mapped, err := repositories.LocationForRack(tx, rack.RackCode)
		if err != nil {
			return err
		}
		if mapped != nil {
			locationID = mapped.ID
		}

		if err := tx.Model(&models.InventoryBalance{}).Where("id = ?", balance.ID).Updates(map[string]interface{}{
			"rack_code":   rack.RackCode,
			"location_id": locationID,
			"updated_by":  actor,
		}).Error; err != nil {
			return err
		}

		return repositories.AppendTransaction(tx, &models.InventoryTransaction{
			ProductID:     balance.ProductID,
			LocationID:    locationID,
			LotNumber:     balance.LotNumber,
			SerialNumber:  balance.SerialNumber,
			TxnType:       models.TxnPutaway,
			Qty:           balance.OnHandQty,
			ReferenceType: models.RefLicensePlate,
			ReferenceID:   &serial,
			Reason:        "Putaway to " + rack.RackCode,
			CreatedBy:     actor,
		})
	})
	if err != nil {
		return nil, s.fail("putaway", err)
	}

	updated, err := s.inventory.FindByID(ctx, balanceID)
	if err != nil {
		return nil, s.fail("putaway", err)
	}
	s.log.Info("putaway completed",
		zap.String("license_plate", serial),
		zap.String("rack_code", rackCode),
		zap.Int("qty", updated.OnHandQty))

	view := updated.View(s.opts.LowStockThreshold)
	return &view, nil
}

// Dispatch removes quantity from a STORED balance and releases the same
// amount from its rack.
func (s *InventoryService) Dispatch(ctx context.Context, serial string, qty int, actor string) (*DispatchResult, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, types.ValidationError("licensePlate is required")
	}
	if qty <= 0 {
		return nil, types.ValidationError("quantity_to_dispatch must be greater than 0")
	}
	actor = actorOr(actor, "system")

	var (
		balanceID  types.SnowflakeID
		before     int
		nextOnHand int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.inventory.LockBySerial(tx, serial)
		if err != nil {
			return err
		}
		balanceID = balance.ID

		if status := balance.StorageStatus(); status != models.StatusStored {
			return types.InvalidTransition("Dispatch blocked: inventory status is %s. Only STORED items can be dispatched.", status)
		}

		before = balance.Available()
		if before <= 0 {
			return types.NoAvailableQuantity("Dispatch blocked: no available quantity to dispatch")
		}
		if qty > before {
			return types.QuantityExceedsAvailable("Dispatch quantity (%d) exceeds available quantity (%d)", qty, before)
		}
		nextOnHand = balance.OnHandQty - qty
		if nextOnHand < 0 {
			return types.QuantityExceedsAvailable("Dispatch blocked: negative inventory is not allowed")
		}

		if balance.HasRack() {
			rack, err := s.racks.LockByCode(tx, *balance.RackCode)
			switch {
			case err == nil:
				if _, err := s.racks.Decrement(tx, rack.ID, qty); err != nil {
					return err
				}
			case types.KindOf(err) != types.KindNotFound:
				return err
			}
		}

		if err := tx.Model(&models.InventoryBalance{}).Where("id = ?", balance.ID).Updates(map[string]interface{}{
			"on_hand_qty": nextOnHand,
			"updated_by":  actor,
		}).Error; err != nil {
			return err
		}

		return repositories.AppendTransaction(tx, &models.InventoryTransaction{
			ProductID:     balance.ProductID,
			LocationID:    balance.LocationID,
			LotNumber:     balance.LotNumber,
			SerialNumber:  balance.SerialNumber,
			TxnType:       models.TxnOutboundDispatch,
			Qty:           qty,
			ReferenceType: models.RefLicensePlate,
			ReferenceID:   &serial,
			Reason:        "Outbound dispatch",
			CreatedBy:     actor,
		})
	})
	if err != nil {
		return nil, s.fail("dispatch", err)
	}

	updated, err := s.inventory.FindByID(ctx, balanceID)
	if err != nil {
		return nil, s.fail("dispatch", err)
	}

	message := msgDispatched
	if nextOnHand == 0 {
		message = msgFullyShipped
	}
	s.log.Info("dispatch completed",
		zap.String("license_plate", serial),
		zap.Int("qty", qty),
		zap.Int("on_hand", nextOnHand))

	return &DispatchResult{
		Message:         message,
		DispatchedQty:   qty,
		AvailableBefore: before,
		AvailableAfter:  updated.Available(),
		Inventory:       updated.View(s.opts.LowStockThreshold),
	}, nil
}

func (s *InventoryService) Delete(ctx context.Context, id types.SnowflakeID, actor string) (*repositories.DeleteResult, error) {
	result, err := s.inventory.DeleteBalance(ctx, id, actor)
	if err != nil {
		return nil, s.fail("delete", err)
	}
	return result, nil
}
