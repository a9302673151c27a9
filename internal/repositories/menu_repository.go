package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// MenuItemRepository defines the interface for menu-item database operations.
type MenuItemRepository interface {
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(executor SQLExecutor, id int64) (*models.MenuItem, error)
	GetItems(filters models.MenuItemFilters) ([]models.MenuItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	// AdjustStock applies delta to current_stock, clamps the result at zero and
	// recomputes is_available. Returns the new stock level.
	AdjustStock(executor SQLExecutor, id int64, delta int) (int, error)
	GetLowStockItems() ([]models.LowStockMenuItemAlert, error)
}

type menuItemRepository struct {
	db *sql.DB
}

// NewMenuItemRepository creates a new instance of MenuItemRepository.
func NewMenuItemRepository(db *sql.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

const menuItemColumns = `id, name, description, price, category, preparation_time,
	is_available, track_inventory, current_stock, low_stock_threshold, created_at, updated_at`

func scanMenuItem(row scanner) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.PreparationTime, &item.IsAvailable, &item.TrackInventory,
		&item.CurrentStock, &item.LowStockThreshold, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
	}
	return item, nil
}

func (r *menuItemRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO menu_items
	            (name, description, price, category, preparation_time, is_available,
	             track_inventory, current_stock, low_stock_threshold, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()
	item.CreatedAt = currentTime
	item.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		item.Name, item.Description, item.Price, item.Category, item.PreparationTime,
		item.IsAvailable, item.TrackInventory, item.CurrentStock, item.LowStockThreshold,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu item '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuItemRepository) GetItemByID(executor SQLExecutor, id int64) (*models.MenuItem, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	return scanMenuItem(executor.QueryRow(query, id))
}

func (r *menuItemRepository) GetItems(filters models.MenuItemFilters) ([]models.MenuItem, int, error) {
	items := []models.MenuItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + menuItemColumns + `, COUNT(*) OVER() AS total_count FROM menu_items`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.AvailableOnly {
		conditions = append(conditions, "is_available = TRUE")
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
			&item.PreparationTime, &item.IsAvailable, &item.TrackInventory,
			&item.CurrentStock, &item.LowStockThreshold, &item.CreatedAt, &item.UpdatedAt,
			&totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating menu item rows: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *menuItemRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE menu_items SET
	            name = $1, description = $2, price = $3, category = $4, preparation_time = $5,
	            is_available = $6, track_inventory = $7, current_stock = $8, low_stock_threshold = $9,
	            updated_at = $10
	          WHERE id = $11`
	item.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		item.Name, item.Description, item.Price, item.Category, item.PreparationTime,
		item.IsAvailable, item.TrackInventory, item.CurrentStock, item.LowStockThreshold,
		item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuItemRepository) DeleteItem(executor SQLExecutor, id int64) error {
	if executor == nil {
		executor = r.db
	}
	query := `DELETE FROM menu_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: menu item ID %d is referenced by order items", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuItemRepository) AdjustStock(executor SQLExecutor, id int64, delta int) (int, error) {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE menu_items
	          SET current_stock = GREATEST(0, current_stock + $1),
	              is_available = (current_stock + $1) > 0,
	              updated_at = $2
	          WHERE id = $3 AND track_inventory = TRUE
	          RETURNING current_stock`
	var newStock int
	err := executor.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	return newStock, nil
}

func (r *menuItemRepository) GetLowStockItems() ([]models.LowStockMenuItemAlert, error) {
	alerts := []models.LowStockMenuItemAlert{}
	query := `SELECT id, name, current_stock, low_stock_threshold
	          FROM menu_items
	          WHERE track_inventory = TRUE AND current_stock <= low_stock_threshold
	          ORDER BY current_stock`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alert models.LowStockMenuItemAlert
		if err := rows.Scan(&alert.MenuItemID, &alert.MenuItemName, &alert.CurrentStock, &alert.Threshold); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock menu item: %v", ErrDatabaseError, err)
		}
		alerts = append(alerts, alert)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock menu items: %v", ErrDatabaseError, err)
	}
	return alerts, nil
}
