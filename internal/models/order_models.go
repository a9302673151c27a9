package models

import "time"

// Order status values. Transitions between them are enforced by the order
// service; completed and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order item status values. Unlike order statuses these form no state
// machine; the kitchen may move an item to any of them.
const (
	ItemStatusPending   = "pending"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
)

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidItemStatus reports whether s is a known order item status.
func IsValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed:
		return true
	default:
		return false
	}
}

// IsActiveOrderStatus reports whether an order in status s still holds its
// table.
func IsActiveOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusInProgress
}

// Order represents a dine-in order placed against a table. TotalAmount is
// always recomputed server-side and equals the sum of Price*Quantity over
// the order's current items. Orders are never hard-deleted; cancellation is
// a terminal status.
type Order struct {
	ID                 int64     `json:"id" db:"id"`
	TableID            int64     `json:"table_id" db:"table_id"`
	Status             string    `json:"status" db:"status"`
	TotalAmount        float64   `json:"total_amount" db:"total_amount"`
	OrderTime          time.Time `json:"order_time" db:"order_time"`
	CustomerNotes      *string   `json:"customer_notes,omitempty" db:"customer_notes"`
	PreparationNotes   *string   `json:"preparation_notes,omitempty" db:"preparation_notes"`
	CancellationReason *string   `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	InventoryDeducted  bool      `json:"-" db:"inventory_deducted"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	Table      *Table      `json:"table,omitempty"`
	OrderItems []OrderItem `json:"order_items,omitempty"`
}

// OrderItem is a single line of an order. Price snapshots the menu item's
// price at the time the line was added and never changes afterwards.
type OrderItem struct {
	ID                  int64     `json:"id" db:"id"`
	OrderID             int64     `json:"order_id" db:"order_id"`
	MenuItemID          int64     `json:"menu_item_id" db:"menu_item_id"`
	Quantity            int       `json:"quantity" db:"quantity"`
	Price               float64   `json:"price" db:"price"`
	ItemStatus          string    `json:"item_status" db:"item_status"`
	SpecialInstructions *string   `json:"special_instructions,omitempty" db:"special_instructions"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`

	MenuItem *MenuItem `json:"menu_item,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	Status   *string `form:"status"`
	TableID  *int64  `form:"table_id"`
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// OrderStatusStat is one row of the grouped order statistics query.
type OrderStatusStat struct {
	Status       string  `json:"status"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// TodaysOrdersSummary aggregates the current day's orders.
type TodaysOrdersSummary struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	InProgress   int     `json:"in_progress"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	TotalRevenue float64 `json:"total_revenue"` // completed orders only
}
