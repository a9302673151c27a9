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

// LowStockIngredientThreshold is the fixed quantity at or under which an
// ingredient triggers a low-stock alert, regardless of its own
// min_stock_level.
const LowStockIngredientThreshold = 5.0

// InventoryRepository defines the interface for ingredient stock database operations.
type InventoryRepository interface {
	CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByID(executor SQLExecutor, id int64) (*models.InventoryItem, error)
	GetItems(filters models.InventoryFilters) ([]models.InventoryItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.InventoryItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	// SetQuantity overwrites the stored quantity (already clamped by the
	// caller) and stamps last_updated.
	SetQuantity(executor SQLExecutor, id int64, quantity float64, updatedAt time.Time) error
	CountRecipesUsingItem(id int64) (int, error)
	GetLowStockItems(threshold float64) ([]models.LowStockIngredientAlert, error)
	GetStatisticsSummary(threshold float64) (total, lowStock, outOfStock int, totalValue float64, err error)
	GetCategoryStats() ([]models.InventoryCategoryStat, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryColumns = `id, item_name, category, quantity, unit, unit_cost, supplier,
	min_stock_level, reorder_quantity, last_updated, created_at, updated_at`

func scanInventoryItem(row scanner) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.ItemName, &item.Category, &item.Quantity, &item.Unit,
		&item.UnitCost, &item.Supplier, &item.MinStockLevel, &item.ReorderQuantity,
		&item.LastUpdated, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
	}
	return item, nil
}

func (r *inventoryRepository) CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO inventory
	            (item_name, category, quantity, unit, unit_cost, supplier, min_stock_level,
	             reorder_quantity, last_updated, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()
	item.LastUpdated = currentTime
	item.CreatedAt = currentTime
	item.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		item.ItemName, item.Category, item.Quantity, item.Unit, item.UnitCost, item.Supplier,
		item.MinStockLevel, item.ReorderQuantity, item.LastUpdated, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *inventoryRepository) GetItemByID(executor SQLExecutor, id int64) (*models.InventoryItem, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	return scanInventoryItem(executor.QueryRow(query, id))
}

func (r *inventoryRepository) GetItems(filters models.InventoryFilters) ([]models.InventoryItem, int, error) {
	items := []models.InventoryItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + inventoryColumns + `, COUNT(*) OVER() AS total_count FROM inventory`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.LowStockOnly {
		conditions = append(conditions, fmt.Sprintf("quantity <= $%d", argCount))
		args = append(args, LowStockIngredientThreshold)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("item_name ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY item_name")

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
		return nil, 0, fmt.Errorf("%w: querying inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Category, &item.Quantity, &item.Unit,
			&item.UnitCost, &item.Supplier, &item.MinStockLevel, &item.ReorderQuantity,
			&item.LastUpdated, &item.CreatedAt, &item.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory rows: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *inventoryRepository) UpdateItem(executor SQLExecutor, item *models.InventoryItem) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE inventory SET
	            item_name = $1, category = $2, quantity = $3, unit = $4, unit_cost = $5,
	            supplier = $6, min_stock_level = $7, reorder_quantity = $8,
	            last_updated = $9, updated_at = $10
	          WHERE id = $11`
	currentTime := time.Now()
	item.LastUpdated = currentTime
	item.UpdatedAt = currentTime
	result, err := executor.Exec(query,
		item.ItemName, item.Category, item.Quantity, item.Unit, item.UnitCost,
		item.Supplier, item.MinStockLevel, item.ReorderQuantity,
		item.LastUpdated, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("%w: updating inventory item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) DeleteItem(executor SQLExecutor, id int64) error {
	if executor == nil {
		executor = r.db
	}
	query := `DELETE FROM inventory WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: inventory item ID %d is used by recipes", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting inventory item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) SetQuantity(executor SQLExecutor, id int64, quantity float64, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE inventory SET quantity = $1, last_updated = $2, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, quantity, updatedAt, id)
	if err != nil {
		return fmt.Errorf("%w: setting quantity for inventory item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) CountRecipesUsingItem(id int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM recipes WHERE inventory_item_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting recipes using inventory item ID %d: %v", ErrDatabaseError, id, err)
	}
	return count, nil
}

func (r *inventoryRepository) GetLowStockItems(threshold float64) ([]models.LowStockIngredientAlert, error) {
	alerts := []models.LowStockIngredientAlert{}
	query := `SELECT id, item_name, quantity, unit FROM inventory WHERE quantity <= $1 ORDER BY quantity`
	rows, err := r.db.Query(query, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock inventory: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alert models.LowStockIngredientAlert
		if err := rows.Scan(&alert.InventoryItemID, &alert.ItemName, &alert.CurrentQuantity, &alert.Unit); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock inventory row: %v", ErrDatabaseError, err)
		}
		alert.Threshold = threshold
		alerts = append(alerts, alert)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock inventory rows: %v", ErrDatabaseError, err)
	}
	return alerts, nil
}

func (r *inventoryRepository) GetStatisticsSummary(threshold float64) (int, int, int, float64, error) {
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE quantity <= $1),
	                 COUNT(*) FILTER (WHERE quantity = 0),
	                 COALESCE(SUM(quantity * unit_cost), 0)
	          FROM inventory`
	var total, lowStock, outOfStock int
	var totalValue float64
	err := r.db.QueryRow(query, threshold).Scan(&total, &lowStock, &outOfStock, &totalValue)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: querying inventory summary: %v", ErrDatabaseError, err)
	}
	return total, lowStock, outOfStock, totalValue, nil
}

func (r *inventoryRepository) GetCategoryStats() ([]models.InventoryCategoryStat, error) {
	stats := []models.InventoryCategoryStat{}
	query := `SELECT category, COUNT(id), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_cost), 0)
	          FROM inventory
	          GROUP BY category
	          ORDER BY category`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying inventory category stats: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat models.InventoryCategoryStat
		if err := rows.Scan(&stat.Category, &stat.ItemCount, &stat.TotalQuantity, &stat.TotalValue); err != nil {
			return nil, fmt.Errorf("%w: scanning inventory category stat: %v", ErrDatabaseError, err)
		}
		stats = append(stats, stat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory category stats: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
