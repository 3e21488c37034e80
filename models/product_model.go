package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Name          string `json:"name" gorm:"not null"`
	SKU           string `json:"sku" gorm:"size:64;uniqueIndex"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	MinStockLevel int    `json:"min_stock_level" gorm:"default:0"`
}
