package models

import "time"

// MenuItem represents a sellable dish or drink on the menu.
type MenuItem struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name" binding:"required"`
	Description       *string   `json:"description,omitempty" db:"description"`
	Price             float64   `json:"price" db:"price" binding:"required,gt=0"`
	Category          *string   `json:"category,omitempty" db:"category"`
	PreparationTime   *int      `json:"preparation_time,omitempty" db:"preparation_time"` // minutes per unit
	IsAvailable       bool      `json:"is_available" db:"is_available"`
	TrackInventory    bool      `json:"track_inventory" db:"track_inventory"`
	CurrentStock      int       `json:"current_stock" db:"current_stock"` // only meaningful when TrackInventory
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItemFilters defines the available filters for querying menu items.
type MenuItemFilters struct {
	Category      *string `form:"category"`
	AvailableOnly bool    `form:"available_only"`
	Search        *string `form:"search"`
	Page          int     `form:"page"`
	PageSize      int     `form:"page_size"`
}
