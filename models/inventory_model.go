package models

import (
	"strings"
	"time"

	"rack-wms/controllers/idgen"
	"rack-wms/types"

	"gorm.io/gorm"
)

type StorageStatus string

const (
	StatusReceived StorageStatus = "RECEIVED"
	StatusStored   StorageStatus = "STORED"
	StatusShipped  StorageStatus = "SHIPPED"
)

const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

// InventoryBalance is the stock record of one license plate at one location.
// Storage status is never stored, see StorageStatus.
type InventoryBalance struct {
	ID             types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID      uint              `json:"product_id" gorm:"not null;index:idx_balance_key"`
	Product        *Product          `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	LocationID     uint              `json:"location_id" gorm:"not null;index:idx_balance_key"`
	Location       *Location         `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	LotNumber      *string           `json:"lot_number" gorm:"size:64;index:idx_balance_key"`
	SerialNumber   *string           `json:"serial_number" gorm:"size:64;index"`
	OnHandQty      int               `json:"on_hand_qty" gorm:"not null;default:0"`
	AllocatedQty   int               `json:"allocated_qty" gorm:"not null;default:0"`
	HoldQty        int               `json:"hold_qty" gorm:"not null;default:0"`
	DamagedQty     int               `json:"damaged_qty" gorm:"not null;default:0"`
	Classification Classification    `json:"classification" gorm:"size:16;not null;default:'NORMAL'"`
	RackCode       *string           `json:"rack_code" gorm:"size:64;index"`
	ExpiryDate     *time.Time        `json:"expiry_date"`
	CreatedAt      time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time         `json:"updated_at"`
	UpdatedBy      string            `json:"updated_by"`
}

func (b *InventoryBalance) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == 0 {
		b.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

// Available is the quantity that may still be dispatched.
func (b *InventoryBalance) Available() int {
	return b.OnHandQty - b.AllocatedQty - b.HoldQty - b.DamagedQty
}

func (b *InventoryBalance) HasRack() bool {
	return b.RackCode != nil && strings.TrimSpace(*b.RackCode) != ""
}

func (b *InventoryBalance) StorageStatus() StorageStatus {
	return DeriveStorageStatus(b.OnHandQty, b.RackCode, b.Location)
}

// DeriveStorageStatus projects the lifecycle state from raw balance fields.
// A balance without a loaded location counts as received.
func DeriveStorageStatus(onHand int, rackCode *string, location *Location) StorageStatus {
	if onHand <= 0 {
		return StatusShipped
	}
	if rackCode != nil && strings.TrimSpace(*rackCode) != "" {
		return StatusStored
	}
	if location == nil || location.IsReceivingArea() {
		return StatusReceived
	}
	return StatusStored
}

// StockStatus buckets available stock against the low stock threshold.
func StockStatus(available, threshold int) string {
	switch {
	case available <= 0:
		return StockOut
	case available < threshold:
		return StockLow
	default:
		return StockIn
	}
}

// InventoryView is the read shape of a balance returned to clients.
type InventoryView struct {
	InventoryBalance
	Quantity      int           `json:"quantity"`
	Status        string        `json:"status"`
	StorageStatus StorageStatus `json:"storage_status"`
	LastUpdated   time.Time     `json:"last_updated"`
}

func (b *InventoryBalance) View(lowStockThreshold int) InventoryView {
	balance := *b
	balance.Classification = NormalizeClassification(string(b.Classification))
	return InventoryView{
		InventoryBalance: balance,
		Quantity:         b.Available(),
		Status:           StockStatus(b.Available(), lowStockThreshold),
		StorageStatus:    b.StorageStatus(),
		LastUpdated:      b.UpdatedAt,
	}
}

func ViewsOf(balances []InventoryBalance, lowStockThreshold int) []InventoryView {
	views := make([]InventoryView, 0, len(balances))
	for i := range balances {
		views = append(views, balances[i].View(lowStockThreshold))
	}
	return views
}
