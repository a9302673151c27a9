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

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrdersByStatus(status string) ([]models.Order, error)
	GetKitchenOrders() ([]models.Order, error)
	UpdateOrder(executor SQLExecutor, order *models.Order) error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	MarkCancelled(executor SQLExecutor, orderID int64, reason *string, updatedAt time.Time) error
	UpdateOrderTotal(executor SQLExecutor, orderID int64, newTotal float64, updatedAt time.Time) error
	SetInventoryDeducted(executor SQLExecutor, orderID int64, deducted bool) error
	GetOrderStatistics(startDate, endDate *time.Time) ([]models.OrderStatusStat, error)
	GetOrdersBetween(start, end time.Time) ([]models.Order, error)

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error)
	GetOrderItem(executor SQLExecutor, orderID, itemID int64) (*models.OrderItem, error)
	DeleteOrderItem(executor SQLExecutor, itemID int64) error
	UpdateOrderItemStatus(executor SQLExecutor, itemID int64, itemStatus string, updatedAt time.Time) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

const orderColumns = `id, table_id, status, total_amount, order_time, customer_notes,
	preparation_notes, cancellation_reason, inventory_deducted, created_at, updated_at`

func scanOrder(row scanner) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.TableID, &order.Status, &order.TotalAmount, &order.OrderTime,
		&order.CustomerNotes, &order.PreparationNotes, &order.CancellationReason,
		&order.InventoryDeducted, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
	}
	return order, nil
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO orders
	            (table_id, status, total_amount, order_time, customer_notes, preparation_notes,
	             inventory_deducted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if order.OrderTime.IsZero() {
		order.OrderTime = time.Now()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.TableID, order.Status, order.TotalAmount, order.OrderTime,
		order.CustomerNotes, order.PreparationNotes, order.InventoryDeducted,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(executor.QueryRow(query, orderID))
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.table_id, o.status, o.total_amount, o.order_time, o.customer_notes,
            o.preparation_notes, o.cancellation_reason, o.inventory_deducted, o.created_at, o.updated_at,
            t.table_number, t.capacity,
            COUNT(*) OVER() AS total_count
        FROM orders o
        JOIN tables t ON o.table_id = t.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: date %s, expected YYYY-MM-DD", ErrBadFilter, *filters.Date)
		}
		startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
		endOfDay := startOfDay.AddDate(0, 0, 1)
		conditions = append(conditions, fmt.Sprintf("o.order_time >= $%d AND o.order_time < $%d", argCounter, argCounter+1))
		args = append(args, startOfDay, endOfDay)
		argCounter += 2
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.order_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var table models.Table
		err := rows.Scan(
			&o.ID, &o.TableID, &o.Status, &o.TotalAmount, &o.OrderTime, &o.CustomerNotes,
			&o.PreparationNotes, &o.CancellationReason, &o.InventoryDeducted, &o.CreatedAt, &o.UpdatedAt,
			&table.TableNumber, &table.Capacity,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		table.ID = o.TableID
		o.Table = &table
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrdersByStatus(status string) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT o.id, o.table_id, o.status, o.total_amount, o.order_time, o.customer_notes,
	                 o.preparation_notes, o.cancellation_reason, o.inventory_deducted, o.created_at, o.updated_at,
	                 t.table_number, t.capacity
	          FROM orders o
	          JOIN tables t ON o.table_id = t.id
	          WHERE o.status = $1
	          ORDER BY o.order_time ASC`
	rows, err := r.db.Query(query, status)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders by status %s: %v", ErrDatabaseError, status, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var table models.Table
		if err := rows.Scan(&o.ID, &o.TableID, &o.Status, &o.TotalAmount, &o.OrderTime, &o.CustomerNotes,
			&o.PreparationNotes, &o.CancellationReason, &o.InventoryDeducted, &o.CreatedAt, &o.UpdatedAt,
			&table.TableNumber, &table.Capacity); err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		table.ID = o.TableID
		o.Table = &table
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// GetKitchenOrders returns active orders joined with their still-cooking
// items (pending or preparing), oldest order first.
func (r *orderRepository) GetKitchenOrders() ([]models.Order, error) {
	query := `SELECT o.id, o.table_id, o.status, o.total_amount, o.order_time, o.customer_notes,
	                 o.preparation_notes, o.cancellation_reason, o.inventory_deducted, o.created_at, o.updated_at,
	                 t.table_number,
	                 oi.id, oi.menu_item_id, oi.quantity, oi.price, oi.item_status, oi.special_instructions,
	                 mi.name, mi.category
	          FROM orders o
	          JOIN tables t ON o.table_id = t.id
	          LEFT JOIN order_items oi ON oi.order_id = o.id AND oi.item_status IN ($3, $4)
	          LEFT JOIN menu_items mi ON oi.menu_item_id = mi.id
	          WHERE o.status IN ($1, $2)
	          ORDER BY o.order_time ASC, oi.id ASC`
	rows, err := r.db.Query(query,
		models.OrderStatusPending, models.OrderStatusInProgress,
		models.ItemStatusPending, models.ItemStatusPreparing)
	if err != nil {
		return nil, fmt.Errorf("%w: querying kitchen orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	byID := map[int64]int{}

	for rows.Next() {
		var o models.Order
		var table models.Table
		var itemID, menuItemID sql.NullInt64
		var quantity sql.NullInt64
		var price sql.NullFloat64
		var itemStatus, specialInstructions, menuName, menuCategory sql.NullString

		if err := rows.Scan(&o.ID, &o.TableID, &o.Status, &o.TotalAmount, &o.OrderTime, &o.CustomerNotes,
			&o.PreparationNotes, &o.CancellationReason, &o.InventoryDeducted, &o.CreatedAt, &o.UpdatedAt,
			&table.TableNumber,
			&itemID, &menuItemID, &quantity, &price, &itemStatus, &specialInstructions,
			&menuName, &menuCategory); err != nil {
			return nil, fmt.Errorf("%w: scanning kitchen order row: %v", ErrDatabaseError, err)
		}

		idx, seen := byID[o.ID]
		if !seen {
			table.ID = o.TableID
			o.Table = &table
			o.OrderItems = []models.OrderItem{}
			orders = append(orders, o)
			idx = len(orders) - 1
			byID[o.ID] = idx
		}

		if itemID.Valid {
			item := models.OrderItem{
				ID:         itemID.Int64,
				OrderID:    o.ID,
				MenuItemID: menuItemID.Int64,
				Quantity:   int(quantity.Int64),
				Price:      price.Float64,
				ItemStatus: itemStatus.String,
			}
			if specialInstructions.Valid {
				item.SpecialInstructions = &specialInstructions.String
			}
			menuItem := models.MenuItem{ID: menuItemID.Int64, Name: menuName.String}
			if menuCategory.Valid {
				menuItem.Category = &menuCategory.String
			}
			item.MenuItem = &menuItem
			orders[idx].OrderItems = append(orders[idx].OrderItems, item)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kitchen order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrder(executor SQLExecutor, order *models.Order) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE orders SET table_id = $1, customer_notes = $2, preparation_notes = $3, updated_at = $4
	          WHERE id = $5`
	order.UpdatedAt = time.Now()
	result, err := executor.Exec(query, order.TableID, order.CustomerNotes, order.PreparationNotes,
		order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("%w: updating order ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkCancelled(executor SQLExecutor, orderID int64, reason *string, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE orders SET status = $1, cancellation_reason = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, models.OrderStatusCancelled, reason, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: cancelling order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderTotal(executor SQLExecutor, orderID int64, newTotal float64, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE orders SET total_amount = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newTotal, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating total for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetInventoryDeducted(executor SQLExecutor, orderID int64, deducted bool) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE orders SET inventory_deducted = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, deducted, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("%w: setting inventory flag for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) GetOrderStatistics(startDate, endDate *time.Time) ([]models.OrderStatusStat, error) {
	stats := []models.OrderStatusStat{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT status, COUNT(id), COALESCE(SUM(total_amount), 0) FROM orders`)

	var args []interface{}
	if startDate != nil && endDate != nil {
		queryBuilder.WriteString(" WHERE order_time BETWEEN $1 AND $2")
		args = append(args, *startDate, *endDate)
	}
	queryBuilder.WriteString(" GROUP BY status")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order statistics: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat models.OrderStatusStat
		if err := rows.Scan(&stat.Status, &stat.Count, &stat.TotalRevenue); err != nil {
			return nil, fmt.Errorf("%w: scanning order statistic: %v", ErrDatabaseError, err)
		}
		stats = append(stats, stat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order statistics: %v", ErrDatabaseError, err)
	}
	return stats, nil
}

func (r *orderRepository) GetOrdersBetween(start, end time.Time) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT o.id, o.table_id, o.status, o.total_amount, o.order_time, o.customer_notes,
	                 o.preparation_notes, o.cancellation_reason, o.inventory_deducted, o.created_at, o.updated_at,
	                 t.table_number, t.capacity
	          FROM orders o
	          JOIN tables t ON o.table_id = t.id
	          WHERE o.order_time >= $1 AND o.order_time < $2
	          ORDER BY o.order_time DESC`
	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders between %s and %s: %v", ErrDatabaseError, start, end, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var table models.Table
		if err := rows.Scan(&o.ID, &o.TableID, &o.Status, &o.TotalAmount, &o.OrderTime, &o.CustomerNotes,
			&o.PreparationNotes, &o.CancellationReason, &o.InventoryDeducted, &o.CreatedAt, &o.UpdatedAt,
			&table.TableNumber, &table.Capacity); err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		table.ID = o.TableID
		o.Table = &table
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO order_items
	            (order_id, menu_item_id, quantity, price, item_status, special_instructions,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.Price, item.ItemStatus,
		item.SpecialInstructions, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	if executor == nil {
		executor = r.db
	}
	items := []models.OrderItem{}
	query := `
		SELECT
		    oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price,
		    oi.item_status, oi.special_instructions, oi.created_at, oi.updated_at,
		    mi.name, mi.category, mi.track_inventory
		FROM order_items oi
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := executor.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var menuItem models.MenuItem
		var category sql.NullString

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price,
			&item.ItemStatus, &item.SpecialInstructions, &item.CreatedAt, &item.UpdatedAt,
			&menuItem.Name, &category, &menuItem.TrackInventory,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		menuItem.ID = item.MenuItemID
		if category.Valid {
			menuItem.Category = &category.String
		}
		item.MenuItem = &menuItem
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) GetOrderItem(executor SQLExecutor, orderID, itemID int64) (*models.OrderItem, error) {
	if executor == nil {
		executor = r.db
	}
	item := &models.OrderItem{}
	query := `SELECT id, order_id, menu_item_id, quantity, price, item_status, special_instructions,
	                 created_at, updated_at
	          FROM order_items
	          WHERE id = $1 AND order_id = $2`
	err := executor.QueryRow(query, itemID, orderID).Scan(
		&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price,
		&item.ItemStatus, &item.SpecialInstructions, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order item %d for order %d: %v", ErrDatabaseError, itemID, orderID, err)
	}
	return item, nil
}

func (r *orderRepository) DeleteOrderItem(executor SQLExecutor, itemID int64) error {
	if executor == nil {
		executor = r.db
	}
	query := `DELETE FROM order_items WHERE id = $1`
	result, err := executor.Exec(query, itemID)
	if err != nil {
		return fmt.Errorf("%w: deleting order item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderItemStatus(executor SQLExecutor, itemID int64, itemStatus string, updatedAt time.Time) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE order_items SET item_status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, itemStatus, updatedAt, itemID)
	if err != nil {
		return fmt.Errorf("%w: updating status for order item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
