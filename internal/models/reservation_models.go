package models

import "time"

// Reservation status values.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// IsValidReservationStatus reports whether s is a known reservation status.
func IsValidReservationStatus(s string) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	default:
		return false
	}
}

// Reservation represents a booked table slot. Pending and confirmed
// reservations count as conflicts for availability queries.
type Reservation struct {
	ID              int64     `json:"id" db:"id"`
	CustomerName    string    `json:"customer_name" db:"customer_name" binding:"required"`
	CustomerPhone   string    `json:"customer_phone" db:"customer_phone" binding:"required"`
	ReservationTime time.Time `json:"reservation_time" db:"reservation_time" binding:"required"`
	NumberOfGuests  int       `json:"number_of_guests" db:"number_of_guests" binding:"required,gt=0"`
	Status          string    `json:"status" db:"status"`
	TableID         int64     `json:"table_id" db:"table_id" binding:"required"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Table *Table `json:"table,omitempty"`
}

// ReservationFilters defines the available filters for querying reservations.
type ReservationFilters struct {
	TableID  *int64  `form:"table_id"`
	Status   *string `form:"status"`
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
