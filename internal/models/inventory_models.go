package models

import "time"

// InventoryItem represents a raw ingredient held in stock. Quantity is a
// decimal (grams, millilitres, units) and never goes below zero; deductions
// are clamped.
type InventoryItem struct {
	ID              int64     `json:"id" db:"id"`
	ItemName        string    `json:"item_name" db:"item_name" binding:"required"`
	Category        string    `json:"category" db:"category" binding:"required"`
	Quantity        float64   `json:"quantity" db:"quantity"`
	Unit            string    `json:"unit" db:"unit" binding:"required"`
	UnitCost        float64   `json:"unit_cost" db:"unit_cost"`
	Supplier        *string   `json:"supplier,omitempty" db:"supplier"`
	MinStockLevel   float64   `json:"min_stock_level" db:"min_stock_level"`
	ReorderQuantity float64   `json:"reorder_quantity" db:"reorder_quantity"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// InventoryFilters defines the available filters for querying inventory.
type InventoryFilters struct {
	Category     *string `form:"category"`
	LowStockOnly bool    `form:"low_stock_only"`
	Search       *string `form:"search"`
	Page         int     `form:"page"`
	PageSize     int     `form:"page_size"`
}

// Recipe maps one menu item to one ingredient and the quantity of that
// ingredient consumed per unit of the menu item.
type Recipe struct {
	ID               int64     `json:"id" db:"id"`
	MenuItemID       int64     `json:"menu_item_id" db:"menu_item_id" binding:"required"`
	InventoryItemID  int64     `json:"inventory_item_id" db:"inventory_item_id" binding:"required"`
	QuantityRequired float64   `json:"quantity_required" db:"quantity_required" binding:"required,gt=0"`
	Unit             string    `json:"unit" db:"unit"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	MenuItem      *MenuItem      `json:"menu_item,omitempty"`
	InventoryItem *InventoryItem `json:"inventory_item,omitempty"`
}

// RecipeIngredient is the resolver view of a recipe row: the ingredient a
// menu item consumes, with the per-unit quantity and the stock currently on
// hand.
type RecipeIngredient struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	Unit            string  `json:"unit"`
	QuantityPerUnit float64 `json:"quantity_per_unit"`
	Available       float64 `json:"available"`
}

// Inventory movement types recorded by the ledger.
const (
	MovementTypeOrderDeduct  = "order_deduct"
	MovementTypeOrderRestore = "order_restore"
	MovementTypeManualAdjust = "manual_adjust"
	MovementTypeBulkReceive  = "bulk_receive"
)

// InventoryMovement is an audit row written whenever the ledger changes an
// ingredient quantity.
type InventoryMovement struct {
	ID              int64     `json:"id" db:"id"`
	InventoryItemID int64     `json:"inventory_item_id" db:"inventory_item_id"`
	OrderID         *int64    `json:"order_id,omitempty" db:"order_id"`
	MovementType    string    `json:"movement_type" db:"movement_type"`
	QuantityChange  float64   `json:"quantity_change" db:"quantity_change"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	MovementDate    time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	InventoryItem *InventoryItem `json:"inventory_item,omitempty"`
}

// LowStockMenuItemAlert flags a tracked menu item at or under its own
// threshold.
type LowStockMenuItemAlert struct {
	MenuItemID   int64  `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
}

// LowStockIngredientAlert flags an ingredient at or under the fixed ledger
// threshold.
type LowStockIngredientAlert struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	CurrentQuantity float64 `json:"current_quantity"`
	Unit            string  `json:"unit"`
	Threshold       float64 `json:"threshold"`
}

// InventoryUpdate describes how a deduction or restoration changed one
// ingredient.
type InventoryUpdate struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	OldQuantity     float64 `json:"old_quantity"`
	NewQuantity     float64 `json:"new_quantity"`
	QuantityChanged float64 `json:"quantity_changed"`
}

// InventoryCategoryStat is one row of the per-category inventory rollup.
type InventoryCategoryStat struct {
	Category      string  `json:"category"`
	ItemCount     int     `json:"item_count"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}
