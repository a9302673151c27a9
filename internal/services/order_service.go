package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderItemNotFound     = errors.New("order item not found")
	ErrTableNotFound         = errors.New("table not found")
	ErrTableOccupied         = errors.New("table is occupied")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidItemStatus     = errors.New("invalid order item status")
	ErrInvalidTransition     = errors.New("order status transition not allowed")
	ErrOrderClosed           = errors.New("order is completed or cancelled")
	ErrOrderAlreadyCompleted = errors.New("completed orders cannot be cancelled")
)

// orderStatusTransitions is the strict lifecycle: pending may start or
// cancel, in_progress may complete or cancel, the terminal states allow
// nothing.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusInProgress, models.OrderStatusCancelled},
	models.OrderStatusInProgress: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Estimated preparation minutes per menu category, used when a menu item
// carries no preparation_time of its own.
var categoryPrepMinutes = map[string]int{
	"appetizer": 5,
	"main":      10,
	"dessert":   5,
	"beverage":  2,
}

const defaultPrepMinutes = 8

// CreateOrderItemRequest is one line of a new or amended order.
type CreateOrderItemRequest struct {
	MenuItemID          int64   `json:"menu_item_id" binding:"required"`
	Quantity            int     `json:"quantity" binding:"required,gt=0"`
	SpecialInstructions *string `json:"special_instructions"`
}

// CreateOrderRequest creates a complete order with its items in one call.
type CreateOrderRequest struct {
	TableID          int64                    `json:"table_id" binding:"required"`
	CustomerNotes    *string                  `json:"customer_notes"`
	PreparationNotes *string                  `json:"preparation_notes"`
	OrderItems       []CreateOrderItemRequest `json:"order_items" binding:"required,dive"`
}

// UpdateOrderRequest edits the mutable header fields of an open order.
type UpdateOrderRequest struct {
	TableID          *int64  `json:"table_id"`
	CustomerNotes    *string `json:"customer_notes"`
	PreparationNotes *string `json:"preparation_notes"`
}

// UpdateOrderStatusRequest moves an order along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderRequest cancels an order with an optional reason.
type CancelOrderRequest struct {
	Reason string `json:"cancellation_reason"`
}

// AddOrderItemsRequest appends items to an open order.
type AddOrderItemsRequest struct {
	OrderItems []CreateOrderItemRequest `json:"order_items" binding:"required,dive"`
}

// UpdateOrderItemStatusRequest sets the kitchen status of one order line.
type UpdateOrderItemStatusRequest struct {
	ItemStatus string `json:"item_status" binding:"required"`
}

// PreparationTimeEstimate is the kitchen's rough time estimate for an order.
type PreparationTimeEstimate struct {
	OrderID          int64     `json:"order_id"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	ItemCount        int       `json:"item_count"`
	EstimatedReady   time.Time `json:"estimated_ready"`
}

// OrderStatisticsResponse aggregates orders per status over a date range.
type OrderStatisticsResponse struct {
	ByStatus     []models.OrderStatusStat `json:"by_status"`
	TotalOrders  int                      `json:"total_orders"`
	TotalRevenue float64                  `json:"total_revenue"` // completed orders only
}

// TodaysOrdersResponse is the dashboard view of the current day.
type TodaysOrdersResponse struct {
	Summary      models.TodaysOrdersSummary `json:"summary"`
	RecentOrders []models.Order             `json:"recent_orders"`
}

// OrderService drives the order lifecycle: transactional creation against a
// table, the status state machine, item amendments with total maintenance,
// and cancellation with inventory restoration.
type OrderService interface {
	CreateCompleteOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrdersByStatus(status string) ([]models.Order, error)
	GetKitchenOrders() ([]models.Order, error)
	UpdateOrder(orderID int64, req UpdateOrderRequest) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	CancelOrder(orderID int64, req CancelOrderRequest) (*models.Order, error)
	AddItemsToOrder(orderID int64, req AddOrderItemsRequest) (*models.Order, error)
	RemoveItemFromOrder(orderID, itemID int64) (*models.Order, error)
	UpdateOrderItemStatus(orderID, itemID int64, req UpdateOrderItemStatusRequest) (*models.OrderItem, error)
	GetOrderPreparationTime(orderID int64) (*PreparationTimeEstimate, error)
	GetOrderStatistics(startDate, endDate *time.Time) (*OrderStatisticsResponse, error)
	GetTodaysOrders() (*TodaysOrdersResponse, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	tableRepo    repositories.TableRepository
	menuRepo     repositories.MenuItemRepository
	inventorySvc InventoryService
	db           *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	mr repositories.MenuItemRepository,
	is InventoryService,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:    or,
		tableRepo:    tr,
		menuRepo:     mr,
		inventorySvc: is,
		db:           db,
	}
}

// CreateCompleteOrder creates the order header and all its items in one
// transaction. The table row is locked for the duration, so two concurrent
// orders for the same table serialize and the loser sees it occupied.
// Inventory is deducted inside the same transaction and the order is flagged
// so cancellation knows whether to restore.
func (s *orderService) CreateCompleteOrder(req CreateOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByIDForUpdate(tx, req.TableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, req.TableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", req.TableID, err)
	}
	if table.Status == models.TableStatusOccupied {
		return nil, fmt.Errorf("%w: table %d", ErrTableOccupied, table.TableNumber)
	}
	activeCount, err := s.tableRepo.CountActiveOrders(tx, req.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active orders for table %d: %w", req.TableID, err)
	}
	if activeCount > 0 {
		return nil, fmt.Errorf("%w: table %d already has an active order", ErrTableOccupied, table.TableNumber)
	}

	var totalAmount float64
	itemsToCreate := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, itemReq := range req.OrderItems {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrValidation, itemReq.MenuItemID)
		}
		menuItem, err := s.menuRepo.GetItemByID(tx, itemReq.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item ID %d", ErrMenuItemNotFound, itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, err)
		}
		totalAmount += menuItem.Price * float64(itemReq.Quantity)
		itemsToCreate = append(itemsToCreate, models.OrderItem{
			MenuItemID:          itemReq.MenuItemID,
			Quantity:            itemReq.Quantity,
			Price:               menuItem.Price,
			ItemStatus:          models.ItemStatusPending,
			SpecialInstructions: itemReq.SpecialInstructions,
		})
	}

	now := time.Now()
	order := models.Order{
		TableID:          req.TableID,
		Status:           models.OrderStatusPending,
		TotalAmount:      totalAmount,
		OrderTime:        now,
		CustomerNotes:    req.CustomerNotes,
		PreparationNotes: req.PreparationNotes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	orderID, err := s.orderRepo.CreateOrder(tx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	for i := range itemsToCreate {
		itemsToCreate[i].OrderID = orderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &itemsToCreate[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %d): %w", itemsToCreate[i].MenuItemID, err)
		}
	}

	if err := s.tableRepo.UpdateTableStatus(tx, req.TableID, models.TableStatusOccupied, now); err != nil {
		return nil, fmt.Errorf("failed to mark table %d occupied: %w", req.TableID, err)
	}

	if _, err := s.inventorySvc.DeductInventoryForOrder(tx, orderID); err != nil {
		return nil, fmt.Errorf("failed to deduct inventory for order %d: %w", orderID, err)
	}
	if err := s.orderRepo.SetInventoryDeducted(tx, orderID, true); err != nil {
		return nil, fmt.Errorf("failed to flag inventory deduction for order %d: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		if errors.Is(err, repositories.ErrBadFilter) {
			return nil, 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(nil, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", orderID, err)
	}
	order.OrderItems = items
	return order, nil
}

func (s *orderService) GetOrdersByStatus(status string) ([]models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}
	orders, err := s.orderRepo.GetOrdersByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by status %s: %w", status, err)
	}
	return orders, nil
}

func (s *orderService) GetKitchenOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetKitchenOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get kitchen orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder edits notes and may move the order to another table. The old
// table is freed and the new one marked occupied; the new table's own
// availability is not re-checked here.
func (s *orderService) UpdateOrder(orderID int64, req UpdateOrderRequest) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if !models.IsActiveOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderClosed, orderID, order.Status)
	}

	now := time.Now()
	if req.TableID != nil && *req.TableID != order.TableID {
		if _, err := s.tableRepo.GetTableByID(tx, *req.TableID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, *req.TableID)
			}
			return nil, fmt.Errorf("failed to fetch table %d: %w", *req.TableID, err)
		}
		if err := s.tableRepo.UpdateTableStatus(tx, order.TableID, models.TableStatusAvailable, now); err != nil {
			return nil, fmt.Errorf("failed to free table %d: %w", order.TableID, err)
		}
		if err := s.tableRepo.UpdateTableStatus(tx, *req.TableID, models.TableStatusOccupied, now); err != nil {
			return nil, fmt.Errorf("failed to occupy table %d: %w", *req.TableID, err)
		}
		order.TableID = *req.TableID
	}
	if req.CustomerNotes != nil {
		order.CustomerNotes = req.CustomerNotes
	}
	if req.PreparationNotes != nil {
		order.PreparationNotes = req.PreparationNotes
	}
	order.UpdatedAt = now

	if err := s.orderRepo.UpdateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// UpdateOrderStatus moves the order along the lifecycle. Reaching a terminal
// status frees the table, and cancellation restores inventory when it was
// deducted at creation.
func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if !canTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, req.Status)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, req.Status, now); err != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	if req.Status == models.OrderStatusCompleted || req.Status == models.OrderStatusCancelled {
		if err := s.tableRepo.UpdateTableStatus(tx, order.TableID, models.TableStatusAvailable, now); err != nil {
			return nil, fmt.Errorf("failed to free table %d: %w", order.TableID, err)
		}
	}
	if req.Status == models.OrderStatusCancelled && order.InventoryDeducted {
		if _, err := s.inventorySvc.RestoreInventoryForOrder(tx, orderID); err != nil {
			return nil, fmt.Errorf("failed to restore inventory for order %d: %w", orderID, err)
		}
		if err := s.orderRepo.SetInventoryDeducted(tx, orderID, false); err != nil {
			return nil, fmt.Errorf("failed to clear inventory flag for order %d: %w", orderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// CancelOrder cancels from any non-completed state, records the reason,
// frees the table and restores inventory once.
func (s *orderService) CancelOrder(orderID int64, req CancelOrderRequest) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: order %d", ErrOrderAlreadyCompleted, orderID)
	}

	now := time.Now()
	if err := s.orderRepo.MarkCancelled(tx, orderID, utils.NewNullString(req.Reason), now); err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}
	if err := s.tableRepo.UpdateTableStatus(tx, order.TableID, models.TableStatusAvailable, now); err != nil {
		return nil, fmt.Errorf("failed to free table %d: %w", order.TableID, err)
	}
	if order.InventoryDeducted {
		if _, err := s.inventorySvc.RestoreInventoryForOrder(tx, orderID); err != nil {
			return nil, fmt.Errorf("failed to restore inventory for order %d: %w", orderID, err)
		}
		if err := s.orderRepo.SetInventoryDeducted(tx, orderID, false); err != nil {
			return nil, fmt.Errorf("failed to clear inventory flag for order %d: %w", orderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// AddItemsToOrder appends lines to an open order and bumps the stored total
// by the price of the additions.
func (s *orderService) AddItemsToOrder(orderID int64, req AddOrderItemsRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: no items to add", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if !models.IsActiveOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderClosed, orderID, order.Status)
	}

	var additional float64
	for _, itemReq := range req.OrderItems {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrValidation, itemReq.MenuItemID)
		}
		menuItem, err := s.menuRepo.GetItemByID(tx, itemReq.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item ID %d", ErrMenuItemNotFound, itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, err)
		}
		item := models.OrderItem{
			OrderID:             orderID,
			MenuItemID:          itemReq.MenuItemID,
			Quantity:            itemReq.Quantity,
			Price:               menuItem.Price,
			ItemStatus:          models.ItemStatusPending,
			SpecialInstructions: itemReq.SpecialInstructions,
		}
		if _, err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to add order item (menu_item_id: %d): %w", itemReq.MenuItemID, err)
		}
		additional += menuItem.Price * float64(itemReq.Quantity)
	}

	if err := s.orderRepo.UpdateOrderTotal(tx, orderID, order.TotalAmount+additional, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update total for order %d: %w", orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item addition: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// RemoveItemFromOrder deletes one line and subtracts its cost from the
// total, clamping at zero.
func (s *orderService) RemoveItemFromOrder(orderID, itemID int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if !models.IsActiveOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderClosed, orderID, order.Status)
	}

	item, err := s.orderRepo.GetOrderItem(tx, orderID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %d on order %d", ErrOrderItemNotFound, itemID, orderID)
		}
		return nil, fmt.Errorf("failed to get order item %d: %w", itemID, err)
	}

	if err := s.orderRepo.DeleteOrderItem(tx, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete order item %d: %w", itemID, err)
	}

	newTotal := order.TotalAmount - item.Price*float64(item.Quantity)
	if newTotal < 0 {
		newTotal = 0
	}
	if err := s.orderRepo.UpdateOrderTotal(tx, orderID, newTotal, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update total for order %d: %w", orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item removal: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// UpdateOrderItemStatus sets the kitchen status of one line. Item statuses
// form no state machine; any known status is accepted.
func (s *orderService) UpdateOrderItemStatus(orderID, itemID int64, req UpdateOrderItemStatusRequest) (*models.OrderItem, error) {
	if !models.IsValidItemStatus(req.ItemStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidItemStatus, req.ItemStatus)
	}
	item, err := s.orderRepo.GetOrderItem(nil, orderID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %d on order %d", ErrOrderItemNotFound, itemID, orderID)
		}
		return nil, fmt.Errorf("failed to get order item %d: %w", itemID, err)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderItemStatus(nil, itemID, req.ItemStatus, now); err != nil {
		return nil, fmt.Errorf("failed to update status of order item %d: %w", itemID, err)
	}
	item.ItemStatus = req.ItemStatus
	item.UpdatedAt = now
	return item, nil
}

// GetOrderPreparationTime estimates how long the kitchen needs for the
// order. Per-unit minutes come from the menu item or its category, the sum
// is divided by how many items can cook in parallel (at most three).
func (s *orderService) GetOrderPreparationTime(orderID int64) (*PreparationTimeEstimate, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	itemCount := 0
	for _, item := range order.OrderItems {
		minutes := defaultPrepMinutes
		if item.MenuItem != nil {
			if item.MenuItem.PreparationTime != nil && *item.MenuItem.PreparationTime > 0 {
				minutes = *item.MenuItem.PreparationTime
			} else if item.MenuItem.Category != nil {
				if m, ok := categoryPrepMinutes[*item.MenuItem.Category]; ok {
					minutes = m
				}
			}
		}
		totalMinutes += minutes * item.Quantity
		itemCount += item.Quantity
	}

	parallel := itemCount
	if parallel > 3 {
		parallel = 3
	}
	if parallel < 1 {
		parallel = 1
	}
	estimated := (totalMinutes + parallel - 1) / parallel

	return &PreparationTimeEstimate{
		OrderID:          orderID,
		EstimatedMinutes: estimated,
		ItemCount:        itemCount,
		EstimatedReady:   time.Now().Add(time.Duration(estimated) * time.Minute),
	}, nil
}

func (s *orderService) GetOrderStatistics(startDate, endDate *time.Time) (*OrderStatisticsResponse, error) {
	stats, err := s.orderRepo.GetOrderStatistics(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get order statistics: %w", err)
	}
	resp := &OrderStatisticsResponse{ByStatus: stats}
	for _, st := range stats {
		resp.TotalOrders += st.Count
		if st.Status == models.OrderStatusCompleted {
			resp.TotalRevenue += st.TotalRevenue
		}
	}
	return resp, nil
}

func (s *orderService) GetTodaysOrders() (*TodaysOrdersResponse, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	orders, err := s.orderRepo.GetOrdersBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's orders: %w", err)
	}

	var summary models.TodaysOrdersSummary
	summary.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			summary.Pending++
		case models.OrderStatusInProgress:
			summary.InProgress++
		case models.OrderStatusCompleted:
			summary.Completed++
			summary.TotalRevenue += o.TotalAmount
		case models.OrderStatusCancelled:
			summary.Cancelled++
		}
	}

	recent := orders
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return &TodaysOrdersResponse{Summary: summary, RecentOrders: recent}, nil
}
