package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for table-related database operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.Table) (int64, error)
	GetTableByID(executor SQLExecutor, id int64) (*models.Table, error)
	// GetTableByIDForUpdate reads the table row with a row-level lock. The
	// lock only outlives the statement when called with a *sql.Tx executor.
	GetTableByIDForUpdate(executor SQLExecutor, id int64) (*models.Table, error)
	GetTables() ([]models.Table, error)
	GetTablesByMinCapacity(minCapacity int, status string) ([]models.Table, error)
	UpdateTable(executor SQLExecutor, table *models.Table) error
	UpdateTableStatus(executor SQLExecutor, id int64, status string, updatedAt time.Time) error
	DeleteTable(executor SQLExecutor, id int64) error
	CountActiveOrders(executor SQLExecutor, tableID int64) (int, error)
	GetTablesWithActiveOrderFlag() ([]models.TableStatusInfo, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.Table) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO tables (table_number, capacity, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	table.CreatedAt = currentTime
	table.UpdatedAt = currentTime

	err := executor.QueryRow(query, table.TableNumber, table.Capacity, table.Status,
		table.CreatedAt, table.UpdatedAt).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: table number %d already exists (constraint: %s)", ErrDuplicateKey, table.TableNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func scanTable(row scanner) (*models.Table, error) {
	table := &models.Table{}
	err := row.Scan(&table.ID, &table.TableNumber, &table.Capacity, &table.Status,
		&table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
	}
	return table, nil
}

func (r *tableRepository) GetTableByID(executor SQLExecutor, id int64) (*models.Table, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT id, table_number, capacity, status, created_at, updated_at FROM tables WHERE id = $1`
	return scanTable(executor.QueryRow(query, id))
}

func (r *tableRepository) GetTableByIDForUpdate(executor SQLExecutor, id int64) (*models.Table, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT id, table_number, capacity, status, created_at, updated_at
	          FROM tables WHERE id = $1 FOR UPDATE`
	return scanTable(executor.QueryRow(query, id))
}

func (r *tableRepository) GetTables() ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, table_number, capacity, status, created_at, updated_at
	          FROM tables ORDER BY table_number`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		table, scanErr := scanTable(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tables = append(tables, *table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) GetTablesByMinCapacity(minCapacity int, status string) ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, table_number, capacity, status, created_at, updated_at
	          FROM tables WHERE capacity >= $1 AND status = $2 ORDER BY capacity, table_number`
	rows, err := r.db.Query(query, minCapacity, status)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables by capacity: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		table, scanErr := scanTable(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tables = append(tables, *table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.Table) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE tables SET table_number = $1, capacity = $2, status = $3, updated_at = $4 WHERE id = $5`
	table.UpdatedAt = time.Now()
	result, err := executor.Exec(query, table.TableNumber, table.Capacity, table.Status, table.UpdatedAt, table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: table number %d already exists (constraint: %s)", ErrDuplicateKey, table.TableNumber, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) UpdateTableStatus(executor SQLExecutor, id int64, status string, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE tables SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("%w: updating status for table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table status update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, id int64) error {
	if executor == nil {
		executor = r.db
	}
	query := `DELETE FROM tables WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: table ID %d is referenced by orders or reservations", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) CountActiveOrders(executor SQLExecutor, tableID int64) (int, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT COUNT(*) FROM orders WHERE table_id = $1 AND status IN ($2, $3)`
	var count int
	err := executor.QueryRow(query, tableID, models.OrderStatusPending, models.OrderStatusInProgress).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active orders for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return count, nil
}

func (r *tableRepository) GetTablesWithActiveOrderFlag() ([]models.TableStatusInfo, error) {
	infos := []models.TableStatusInfo{}
	query := `SELECT t.id, t.table_number, t.capacity, t.status,
	                 COUNT(o.id) FILTER (WHERE o.status IN ($1, $2)) AS active_orders
	          FROM tables t
	          LEFT JOIN orders o ON o.table_id = t.id
	          GROUP BY t.id, t.table_number, t.capacity, t.status
	          ORDER BY t.table_number`
	rows, err := r.db.Query(query, models.OrderStatusPending, models.OrderStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("%w: querying table status overview: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var info models.TableStatusInfo
		var activeOrders int
		if err := rows.Scan(&info.ID, &info.TableNumber, &info.Capacity, &info.Status, &activeOrders); err != nil {
			return nil, fmt.Errorf("%w: scanning table status row: %v", ErrDatabaseError, err)
		}
		info.HasActiveOrder = activeOrders > 0
		info.IsAvailable = info.Status == models.TableStatusAvailable && !info.HasActiveOrder
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table status rows: %v", ErrDatabaseError, err)
	}
	return infos, nil
}
