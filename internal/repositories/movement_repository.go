package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"
)

// MovementRepository records and lists the audit trail of ingredient
// quantity changes made by the inventory ledger.
type MovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.InventoryMovement) (int64, error)
	GetMovements(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error)
}

type movementRepository struct {
	db *sql.DB
}

// NewMovementRepository creates a new instance of MovementRepository.
func NewMovementRepository(db *sql.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) CreateMovement(executor SQLExecutor, movement *models.InventoryMovement) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO inventory_movements
	          (inventory_item_id, order_id, movement_type, quantity_change, reason, movement_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	if movement.MovementDate.IsZero() {
		movement.MovementDate = currentTime
	}
	movement.CreatedAt = currentTime

	var orderID sql.NullInt64
	if movement.OrderID != nil {
		orderID = sql.NullInt64{Int64: *movement.OrderID, Valid: true}
	}

	err := executor.QueryRow(query,
		movement.InventoryItemID, orderID, movement.MovementType, movement.QuantityChange,
		movement.Reason, movement.MovementDate, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *movementRepository) GetMovements(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	movements := []models.InventoryMovement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    im.id, im.inventory_item_id, im.order_id, im.movement_type, im.quantity_change,
	    im.reason, im.movement_date, im.created_at,
	    i.item_name, i.unit,
	    COUNT(*) OVER() AS total_count
	  FROM inventory_movements im
	  JOIN inventory i ON im.inventory_item_id = i.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if inventoryItemID != nil {
		conditions = append(conditions, fmt.Sprintf("im.inventory_item_id = $%d", argCount))
		args = append(args, *inventoryItemID)
		argCount++
	}
	if movementType != nil && *movementType != "" {
		conditions = append(conditions, fmt.Sprintf("im.movement_type = $%d", argCount))
		args = append(args, *movementType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY im.movement_date DESC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying inventory movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InventoryMovement
		var orderID sql.NullInt64
		var inv models.InventoryItem
		if err := rows.Scan(&m.ID, &m.InventoryItemID, &orderID, &m.MovementType, &m.QuantityChange,
			&m.Reason, &m.MovementDate, &m.CreatedAt,
			&inv.ItemName, &inv.Unit, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory movement: %v", ErrDatabaseError, err)
		}
		if orderID.Valid {
			m.OrderID = &orderID.Int64
		}
		inv.ID = m.InventoryItemID
		m.InventoryItem = &inv
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory movements: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}
