package models

import "time"

// Rack is a capacity-limited storage slot dedicated to one hazard zone.
type Rack struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	RackCode    string         `json:"rack_code" gorm:"size:64;uniqueIndex;not null"`
	ZoneType    Classification `json:"zone_type" gorm:"size:16;not null;default:'NORMAL'"`
	Capacity    int            `json:"capacity" gorm:"not null"`
	CurrentLoad int            `json:"current_load" gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CreatedBy   string         `json:"created_by"`
	UpdatedBy   string         `json:"updated_by"`
}

func (r Rack) HasRoom() bool {
	return r.CurrentLoad < r.Capacity
}

func (r Rack) Free() int {
	if r.CurrentLoad >= r.Capacity {
		return 0
	}
	return r.Capacity - r.CurrentLoad
}

// CanHold reports whether qty more units fit without overflowing.
func (r Rack) CanHold(qty int) bool {
	return r.HasRoom() && r.CurrentLoad+qty <= r.Capacity
}
