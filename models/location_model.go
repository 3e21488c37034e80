package models

import (
	"strings"

	"gorm.io/gorm"
)

const LocationTypeReceiving = "receiving"

type Location struct {
	gorm.Model
	Code         string `json:"code" gorm:"size:64;uniqueIndex;not null"`
	Name         string `json:"name"`
	Zone         string `json:"zone" gorm:"size:16;index:idx_location_slot"`
	Aisle        string `json:"aisle" gorm:"size:16;index:idx_location_slot"`
	Rack         string `json:"rack" gorm:"size:16;index:idx_location_slot"`
	Shelf        string `json:"shelf" gorm:"size:16"`
	LocationType string `json:"location_type" gorm:"size:32;default:'storage'"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// IsReceivingArea reports whether stock sitting here is still waiting for putaway.
func (l *Location) IsReceivingArea() bool {
	if l == nil {
		return false
	}
	return l.LocationType == LocationTypeReceiving ||
		strings.ToUpper(l.Zone) == "R" ||
		strings.Contains(strings.ToLower(l.Name), "receiving")
}
