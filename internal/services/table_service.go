package services

import (
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

var ErrTableInUse = errors.New("table is referenced by orders or reservations")

// TableService manages the physical table records. Status derivation and
// availability queries live in AvailabilityService.
type TableService interface {
	CreateTable(table *models.Table) (*models.Table, error)
	GetTables() ([]models.Table, error)
	GetTableByID(tableID int64) (*models.Table, error)
	UpdateTable(tableID int64, table *models.Table) (*models.Table, error)
	DeleteTable(tableID int64) error
}

type tableService struct {
	tableRepo repositories.TableRepository
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository) TableService {
	return &tableService{tableRepo: tr}
}

func (s *tableService) CreateTable(table *models.Table) (*models.Table, error) {
	if table.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if !models.IsValidTableStatus(table.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTableStatusValue, table.Status)
	}

	now := time.Now()
	table.CreatedAt = now
	table.UpdatedAt = now
	id, err := s.tableRepo.CreateTable(nil, table)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d already exists", ErrConflict, table.TableNumber)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	table.ID = id
	return table, nil
}

func (s *tableService) GetTables() ([]models.Table, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByID(tableID int64) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(nil, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to get table %d: %w", tableID, err)
	}
	return table, nil
}

func (s *tableService) UpdateTable(tableID int64, table *models.Table) (*models.Table, error) {
	existing, err := s.GetTableByID(tableID)
	if err != nil {
		return nil, err
	}
	if table.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	if table.Status == "" {
		table.Status = existing.Status
	}
	if !models.IsValidTableStatus(table.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTableStatusValue, table.Status)
	}

	table.ID = existing.ID
	table.CreatedAt = existing.CreatedAt
	table.UpdatedAt = time.Now()
	if err := s.tableRepo.UpdateTable(nil, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d already exists", ErrConflict, table.TableNumber)
		}
		return nil, fmt.Errorf("failed to update table %d: %w", tableID, err)
	}
	return table, nil
}

func (s *tableService) DeleteTable(tableID int64) error {
	if err := s.tableRepo.DeleteTable(nil, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: table ID %d", ErrTableInUse, tableID)
		}
		return fmt.Errorf("failed to delete table %d: %w", tableID, err)
	}
	return nil
}
