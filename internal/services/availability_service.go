package services

import (
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

// DefaultDiningDuration is the window a party is assumed to hold a table
// when no explicit duration is requested.
const DefaultDiningDuration = 2 * time.Hour

// TableAvailabilityResult answers "is this table free at that time".
type TableAvailabilityResult struct {
	TableID     int64     `json:"table_id"`
	TableNumber int       `json:"table_number"`
	Capacity    int       `json:"capacity"`
	Available   bool      `json:"available"`
	Reasons     []string  `json:"reasons,omitempty"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// FindTablesRequest searches for tables that can seat a party.
type FindTablesRequest struct {
	PartySize int        `json:"party_size" binding:"required,gt=0"`
	Time      *time.Time `json:"reservation_time"`
	Duration  *int       `json:"duration_minutes"`
}

// UpdateTableStatusRequest manually overrides a table's coarse status.
type UpdateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var ErrInvalidTableStatusValue = errors.New("invalid table status")

// AvailabilityService derives whether tables can seat guests, combining the
// coarse status column with reservations and active orders.
type AvailabilityService interface {
	CheckTableAvailability(tableID int64, at time.Time, duration time.Duration) (*TableAvailabilityResult, error)
	CanAcceptImmediateOrder(tableID int64) (bool, error)
	FindAvailableTables(req FindTablesRequest) ([]TableAvailabilityResult, error)
	GetTableStatus(tableID int64) (*models.TableStatusInfo, error)
	GetAllTablesStatus() ([]models.TableStatusInfo, error)
	UpdateTableStatus(tableID int64, req UpdateTableStatusRequest) (*models.Table, error)
}

type availabilityService struct {
	tableRepo       repositories.TableRepository
	reservationRepo repositories.ReservationRepository
}

// NewAvailabilityService creates a new instance of AvailabilityService.
func NewAvailabilityService(tr repositories.TableRepository, rr repositories.ReservationRepository) AvailabilityService {
	return &availabilityService{tableRepo: tr, reservationRepo: rr}
}

// CheckTableAvailability checks one table against the requested window:
// the table must not be marked occupied, must not carry an active order, and
// no pending or confirmed reservation may start inside the window.
func (s *availabilityService) CheckTableAvailability(tableID int64, at time.Time, duration time.Duration) (*TableAvailabilityResult, error) {
	if duration <= 0 {
		duration = DefaultDiningDuration
	}
	table, err := s.tableRepo.GetTableByID(nil, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}

	result := &TableAvailabilityResult{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		Capacity:    table.Capacity,
		Available:   true,
		WindowStart: at,
		WindowEnd:   at.Add(duration),
	}

	if table.Status == models.TableStatusOccupied {
		result.Available = false
		result.Reasons = append(result.Reasons, "table is currently occupied")
	}

	activeOrders, err := s.tableRepo.CountActiveOrders(nil, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active orders for table %d: %w", tableID, err)
	}
	if activeOrders > 0 {
		result.Available = false
		result.Reasons = append(result.Reasons, "table has an active order")
	}

	overlapping, err := s.reservationRepo.CountOverlapping(tableID, result.WindowStart, result.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservations for table %d: %w", tableID, err)
	}
	if overlapping > 0 {
		result.Available = false
		result.Reasons = append(result.Reasons, "table is reserved in the requested window")
	}

	return result, nil
}

// CanAcceptImmediateOrder is the fast check used when seating walk-ins: the
// table must be free right now for the default dining window.
func (s *availabilityService) CanAcceptImmediateOrder(tableID int64) (bool, error) {
	result, err := s.CheckTableAvailability(tableID, time.Now(), DefaultDiningDuration)
	if err != nil {
		return false, err
	}
	return result.Available, nil
}

// FindAvailableTables returns every available table that seats the party,
// each re-checked against reservations and active orders for the window.
func (s *availabilityService) FindAvailableTables(req FindTablesRequest) ([]TableAvailabilityResult, error) {
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	at := time.Now()
	if req.Time != nil {
		at = *req.Time
	}
	duration := DefaultDiningDuration
	if req.Duration != nil && *req.Duration > 0 {
		duration = time.Duration(*req.Duration) * time.Minute
	}

	candidates, err := s.tableRepo.GetTablesByMinCapacity(req.PartySize, models.TableStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate tables: %w", err)
	}

	results := make([]TableAvailabilityResult, 0, len(candidates))
	for _, table := range candidates {
		check, err := s.CheckTableAvailability(table.ID, at, duration)
		if err != nil {
			return nil, err
		}
		if check.Available {
			results = append(results, *check)
		}
	}
	return results, nil
}

func (s *availabilityService) GetTableStatus(tableID int64) (*models.TableStatusInfo, error) {
	table, err := s.tableRepo.GetTableByID(nil, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}
	activeOrders, err := s.tableRepo.CountActiveOrders(nil, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active orders for table %d: %w", tableID, err)
	}
	return &models.TableStatusInfo{
		ID:             table.ID,
		TableNumber:    table.TableNumber,
		Capacity:       table.Capacity,
		Status:         table.Status,
		HasActiveOrder: activeOrders > 0,
		IsAvailable:    table.Status == models.TableStatusAvailable && activeOrders == 0,
	}, nil
}

func (s *availabilityService) GetAllTablesStatus() ([]models.TableStatusInfo, error) {
	statuses, err := s.tableRepo.GetTablesWithActiveOrderFlag()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table statuses: %w", err)
	}
	return statuses, nil
}

// UpdateTableStatus lets staff override the coarse status, e.g. marking a
// table reserved for a walk-up hold or releasing one after busing.
func (s *availabilityService) UpdateTableStatus(tableID int64, req UpdateTableStatusRequest) (*models.Table, error) {
	if !models.IsValidTableStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTableStatusValue, req.Status)
	}
	table, err := s.tableRepo.GetTableByID(nil, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}
	now := time.Now()
	if err := s.tableRepo.UpdateTableStatus(nil, tableID, req.Status, now); err != nil {
		return nil, fmt.Errorf("failed to update status of table %d: %w", tableID, err)
	}
	table.Status = req.Status
	table.UpdatedAt = now
	return table, nil
}
