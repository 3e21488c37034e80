package models

import (
	"time"

	"rack-wms/controllers/idgen"
	"rack-wms/types"

	"gorm.io/gorm"
)

const (
	TxnReceive          = "receive"
	TxnAdjust           = "adjust"
	TxnPutaway          = "putaway"
	TxnOutboundDispatch = "outbound_dispatch"
	TxnDelete           = "delete"
)

const (
	RefManual       = "MANUAL"
	RefLicensePlate = "LICENSE_PLATE"
	RefInventoryID  = "INVENTORY_ID"
)

// InventoryTransaction is one append-only ledger entry.
type InventoryTransaction struct {
	ID            types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID     uint              `json:"product_id" gorm:"index"`
	Product       *Product          `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	LocationID    uint              `json:"location_id" gorm:"index"`
	Location      *Location         `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	LotNumber     *string           `json:"lot_number" gorm:"size:64"`
	SerialNumber  *string           `json:"serial_number" gorm:"size:64;index"`
	TxnType       string            `json:"txn_type" gorm:"size:32;not null;index"`
	Qty           int               `json:"qty"`
	ReferenceType string            `json:"reference_type" gorm:"size:32"`
	ReferenceID   *string           `json:"reference_id" gorm:"size:64"`
	Reason        string            `json:"reason"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at" gorm:"index"`
}

func (t *InventoryTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

// DispatchRecord is one row of the dispatch history.
type DispatchRecord struct {
	ID            types.SnowflakeID `json:"id"`
	LicensePlate  *string           `json:"license_plate"`
	Qty           int               `json:"qty"`
	ReferenceType string            `json:"reference_type"`
	ReferenceID   *string           `json:"reference_id"`
	Reason        string            `json:"reason"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	Product       *Product          `json:"product"`
	Location      *Location         `json:"location"`
	TxnType       string            `json:"txn_type"`
}

func (t *InventoryTransaction) DispatchRecord() DispatchRecord {
	return DispatchRecord{
		ID:            t.ID,
		LicensePlate:  t.SerialNumber,
		Qty:           t.Qty,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		Reason:        t.Reason,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		Product:       t.Product,
		Location:      t.Location,
		TxnType:       t.TxnType,
	}
}
