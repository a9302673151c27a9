package models

import "time"

// Table status values.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)

// IsValidTableStatus reports whether s is a known table status.
func IsValidTableStatus(s string) bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	default:
		return false
	}
}

// Table represents a physical restaurant table.
type Table struct {
	ID          int64     `json:"id" db:"id"`
	TableNumber int       `json:"table_number" db:"table_number" binding:"required"`
	Capacity    int       `json:"capacity" db:"capacity" binding:"required,gt=0"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableStatusInfo is the derived per-table view returned by the
// availability service: the coarse status column combined with whether any
// active order currently sits on the table.
type TableStatusInfo struct {
	ID             int64  `json:"id"`
	TableNumber    int    `json:"table_number"`
	Capacity       int    `json:"capacity"`
	Status         string `json:"status"`
	HasActiveOrder bool   `json:"has_active_order"`
	IsAvailable    bool   `json:"is_available"`
}
