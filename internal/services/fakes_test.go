package services

import (
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

// Function-field fakes for the repository interfaces. Tests set only the
// methods a scenario touches; unset methods return zero values.

type fakeTableRepo struct {
	CreateTableFn               func(executor repositories.SQLExecutor, table *models.Table) (int64, error)
	GetTableByIDFn              func(executor repositories.SQLExecutor, id int64) (*models.Table, error)
	GetTableByIDForUpdateFn     func(executor repositories.SQLExecutor, id int64) (*models.Table, error)
	GetTablesFn                 func() ([]models.Table, error)
	GetTablesByMinCapacityFn    func(minCapacity int, status string) ([]models.Table, error)
	UpdateTableFn               func(executor repositories.SQLExecutor, table *models.Table) error
	UpdateTableStatusFn         func(executor repositories.SQLExecutor, id int64, status string, updatedAt time.Time) error
	DeleteTableFn               func(executor repositories.SQLExecutor, id int64) error
	CountActiveOrdersFn         func(executor repositories.SQLExecutor, tableID int64) (int, error)
	GetTablesWithActiveOrdersFn func() ([]models.TableStatusInfo, error)
}

func (f *fakeTableRepo) CreateTable(executor repositories.SQLExecutor, table *models.Table) (int64, error) {
	if f.CreateTableFn != nil {
		return f.CreateTableFn(executor, table)
	}
	return 0, nil
}

func (f *fakeTableRepo) GetTableByID(executor repositories.SQLExecutor, id int64) (*models.Table, error) {
	if f.GetTableByIDFn != nil {
		return f.GetTableByIDFn(executor, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTableRepo) GetTableByIDForUpdate(executor repositories.SQLExecutor, id int64) (*models.Table, error) {
	if f.GetTableByIDForUpdateFn != nil {
		return f.GetTableByIDForUpdateFn(executor, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTableRepo) GetTables() ([]models.Table, error) {
	if f.GetTablesFn != nil {
		return f.GetTablesFn()
	}
	return nil, nil
}

func (f *fakeTableRepo) GetTablesByMinCapacity(minCapacity int, status string) ([]models.Table, error) {
	if f.GetTablesByMinCapacityFn != nil {
		return f.GetTablesByMinCapacityFn(minCapacity, status)
	}
	return nil, nil
}

func (f *fakeTableRepo) UpdateTable(executor repositories.SQLExecutor, table *models.Table) error {
	if f.UpdateTableFn != nil {
		return f.UpdateTableFn(executor, table)
	}
	return nil
}

func (f *fakeTableRepo) UpdateTableStatus(executor repositories.SQLExecutor, id int64, status string, updatedAt time.Time) error {
	if f.UpdateTableStatusFn != nil {
		return f.UpdateTableStatusFn(executor, id, status, updatedAt)
	}
	return nil
}

func (f *fakeTableRepo) DeleteTable(executor repositories.SQLExecutor, id int64) error {
	if f.DeleteTableFn != nil {
		return f.DeleteTableFn(executor, id)
	}
	return nil
}

func (f *fakeTableRepo) CountActiveOrders(executor repositories.SQLExecutor, tableID int64) (int, error) {
	if f.CountActiveOrdersFn != nil {
		return f.CountActiveOrdersFn(executor, tableID)
	}
	return 0, nil
}

func (f *fakeTableRepo) GetTablesWithActiveOrderFlag() ([]models.TableStatusInfo, error) {
	if f.GetTablesWithActiveOrdersFn != nil {
		return f.GetTablesWithActiveOrdersFn()
	}
	return nil, nil
}

type fakeMenuRepo struct {
	CreateItemFn       func(executor repositories.SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByIDFn      func(executor repositories.SQLExecutor, id int64) (*models.MenuItem, error)
	GetItemsFn         func(filters models.MenuItemFilters) ([]models.MenuItem, int, error)
	UpdateItemFn       func(executor repositories.SQLExecutor, item *models.MenuItem) error
	DeleteItemFn       func(executor repositories.SQLExecutor, id int64) error
	AdjustStockFn      func(executor repositories.SQLExecutor, id int64, delta int) (int, error)
	GetLowStockItemsFn func() ([]models.LowStockMenuItemAlert, error)
}

func (f *fakeMenuRepo) CreateItem(executor repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	if f.CreateItemFn != nil {
		return f.CreateItemFn(executor, item)
	}
	return 0, nil
}

func (f *fakeMenuRepo) GetItemByID(executor repositories.SQLExecutor, id int64) (*models.MenuItem, error) {
	if f.GetItemByIDFn != nil {
		return f.GetItemByIDFn(executor, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeMenuRepo) GetItems(filters models.MenuItemFilters) ([]models.MenuItem, int, error) {
	if f.GetItemsFn != nil {
		return f.GetItemsFn(filters)
	}
	return nil, 0, nil
}

func (f *fakeMenuRepo) UpdateItem(executor repositories.SQLExecutor, item *models.MenuItem) error {
	if f.UpdateItemFn != nil {
		return f.UpdateItemFn(executor, item)
	}
	return nil
}

func (f *fakeMenuRepo) DeleteItem(executor repositories.SQLExecutor, id int64) error {
	if f.DeleteItemFn != nil {
		return f.DeleteItemFn(executor, id)
	}
	return nil
}

func (f *fakeMenuRepo) AdjustStock(executor repositories.SQLExecutor, id int64, delta int) (int, error) {
	if f.AdjustStockFn != nil {
		return f.AdjustStockFn(executor, id, delta)
	}
	return 0, nil
}

func (f *fakeMenuRepo) GetLowStockItems() ([]models.LowStockMenuItemAlert, error) {
	if f.GetLowStockItemsFn != nil {
		return f.GetLowStockItemsFn()
	}
	return nil, nil
}

type fakeOrderRepo struct {
	CreateOrderFn            func(executor repositories.SQLExecutor, order *models.Order) (int64, error)
	GetOrderByIDFn           func(executor repositories.SQLExecutor, orderID int64) (*models.Order, error)
	GetOrdersFn              func(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrdersByStatusFn      func(status string) ([]models.Order, error)
	GetKitchenOrdersFn       func() ([]models.Order, error)
	UpdateOrderFn            func(executor repositories.SQLExecutor, order *models.Order) error
	UpdateOrderStatusFn      func(executor repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	MarkCancelledFn          func(executor repositories.SQLExecutor, orderID int64, reason *string, updatedAt time.Time) error
	UpdateOrderTotalFn       func(executor repositories.SQLExecutor, orderID int64, newTotal float64, updatedAt time.Time) error
	SetInventoryDeductedFn   func(executor repositories.SQLExecutor, orderID int64, deducted bool) error
	GetOrderStatisticsFn     func(startDate, endDate *time.Time) ([]models.OrderStatusStat, error)
	GetOrdersBetweenFn       func(start, end time.Time) ([]models.Order, error)
	CreateOrderItemFn        func(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderIDFn func(executor repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error)
	GetOrderItemFn           func(executor repositories.SQLExecutor, orderID, itemID int64) (*models.OrderItem, error)
	DeleteOrderItemFn        func(executor repositories.SQLExecutor, itemID int64) error
	UpdateOrderItemStatusFn  func(executor repositories.SQLExecutor, itemID int64, itemStatus string, updatedAt time.Time) error
}

func (f *fakeOrderRepo) CreateOrder(executor repositories.SQLExecutor, order *models.Order) (int64, error) {
	if f.CreateOrderFn != nil {
		return f.CreateOrderFn(executor, order)
	}
	return 0, nil
}

func (f *fakeOrderRepo) GetOrderByID(executor repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	if f.GetOrderByIDFn != nil {
		return f.GetOrderByIDFn(executor, orderID)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	if f.GetOrdersFn != nil {
		return f.GetOrdersFn(filters)
	}
	return nil, 0, nil
}

func (f *fakeOrderRepo) GetOrdersByStatus(status string) ([]models.Order, error) {
	if f.GetOrdersByStatusFn != nil {
		return f.GetOrdersByStatusFn(status)
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetKitchenOrders() ([]models.Order, error) {
	if f.GetKitchenOrdersFn != nil {
		return f.GetKitchenOrdersFn()
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateOrder(executor repositories.SQLExecutor, order *models.Order) error {
	if f.UpdateOrderFn != nil {
		return f.UpdateOrderFn(executor, order)
	}
	return nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(executor repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	if f.UpdateOrderStatusFn != nil {
		return f.UpdateOrderStatusFn(executor, orderID, newStatus, updatedAt)
	}
	return nil
}

func (f *fakeOrderRepo) MarkCancelled(executor repositories.SQLExecutor, orderID int64, reason *string, updatedAt time.Time) error {
	if f.MarkCancelledFn != nil {
		return f.MarkCancelledFn(executor, orderID, reason, updatedAt)
	}
	return nil
}

func (f *fakeOrderRepo) UpdateOrderTotal(executor repositories.SQLExecutor, orderID int64, newTotal float64, updatedAt time.Time) error {
	if f.UpdateOrderTotalFn != nil {
		return f.UpdateOrderTotalFn(executor, orderID, newTotal, updatedAt)
	}
	return nil
}

func (f *fakeOrderRepo) SetInventoryDeducted(executor repositories.SQLExecutor, orderID int64, deducted bool) error {
	if f.SetInventoryDeductedFn != nil {
		return f.SetInventoryDeductedFn(executor, orderID, deducted)
	}
	return nil
}

func (f *fakeOrderRepo) GetOrderStatistics(startDate, endDate *time.Time) ([]models.OrderStatusStat, error) {
	if f.GetOrderStatisticsFn != nil {
		return f.GetOrderStatisticsFn(startDate, endDate)
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetOrdersBetween(start, end time.Time) ([]models.Order, error) {
	if f.GetOrdersBetweenFn != nil {
		return f.GetOrdersBetweenFn(start, end)
	}
	return nil, nil
}

func (f *fakeOrderRepo) CreateOrderItem(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	if f.CreateOrderItemFn != nil {
		return f.CreateOrderItemFn(executor, item)
	}
	return 0, nil
}

func (f *fakeOrderRepo) GetOrderItemsByOrderID(executor repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	if f.GetOrderItemsByOrderIDFn != nil {
		return f.GetOrderItemsByOrderIDFn(executor, orderID)
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetOrderItem(executor repositories.SQLExecutor, orderID, itemID int64) (*models.OrderItem, error) {
	if f.GetOrderItemFn != nil {
		return f.GetOrderItemFn(executor, orderID, itemID)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) DeleteOrderItem(executor repositories.SQLExecutor, itemID int64) error {
	if f.DeleteOrderItemFn != nil {
		return f.DeleteOrderItemFn(executor, itemID)
	}
	return nil
}

func (f *fakeOrderRepo) UpdateOrderItemStatus(executor repositories.SQLExecutor, itemID int64, itemStatus string, updatedAt time.Time) error {
	if f.UpdateOrderItemStatusFn != nil {
		return f.UpdateOrderItemStatusFn(executor, itemID, itemStatus, updatedAt)
	}
	return nil
}

type fakeInventoryRepo struct {
	CreateItemFn            func(executor repositories.SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByIDFn           func(executor repositories.SQLExecutor, id int64) (*models.InventoryItem, error)
	GetItemsFn              func(filters models.InventoryFilters) ([]models.InventoryItem, int, error)
	UpdateItemFn            func(executor repositories.SQLExecutor, item *models.InventoryItem) error
	DeleteItemFn            func(executor repositories.SQLExecutor, id int64) error
	SetQuantityFn           func(executor repositories.SQLExecutor, id int64, quantity float64, updatedAt time.Time) error
	CountRecipesUsingItemFn func(id int64) (int, error)
	GetLowStockItemsFn      func(threshold float64) ([]models.LowStockIngredientAlert, error)
	GetStatisticsSummaryFn  func(threshold float64) (int, int, int, float64, error)
	GetCategoryStatsFn      func() ([]models.InventoryCategoryStat, error)
}

func (f *fakeInventoryRepo) CreateItem(executor repositories.SQLExecutor, item *models.InventoryItem) (int64, error) {
	if f.CreateItemFn != nil {
		return f.CreateItemFn(executor, item)
	}
	return 0, nil
}

func (f *fakeInventoryRepo) GetItemByID(executor repositories.SQLExecutor, id int64) (*models.InventoryItem, error) {
	if f.GetItemByIDFn != nil {
		return f.GetItemByIDFn(executor, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeInventoryRepo) GetItems(filters models.InventoryFilters) ([]models.InventoryItem, int, error) {
	if f.GetItemsFn != nil {
		return f.GetItemsFn(filters)
	}
	return nil, 0, nil
}

func (f *fakeInventoryRepo) UpdateItem(executor repositories.SQLExecutor, item *models.InventoryItem) error {
	if f.UpdateItemFn != nil {
		return f.UpdateItemFn(executor, item)
	}
	return nil
}

func (f *fakeInventoryRepo) DeleteItem(executor repositories.SQLExecutor, id int64) error {
	if f.DeleteItemFn != nil {
		return f.DeleteItemFn(executor, id)
	}
	return nil
}

func (f *fakeInventoryRepo) SetQuantity(executor repositories.SQLExecutor, id int64, quantity float64, updatedAt time.Time) error {
	if f.SetQuantityFn != nil {
		return f.SetQuantityFn(executor, id, quantity, updatedAt)
	}
	return nil
}

func (f *fakeInventoryRepo) CountRecipesUsingItem(id int64) (int, error) {
	if f.CountRecipesUsingItemFn != nil {
		return f.CountRecipesUsingItemFn(id)
	}
	return 0, nil
}

func (f *fakeInventoryRepo) GetLowStockItems(threshold float64) ([]models.LowStockIngredientAlert, error) {
	if f.GetLowStockItemsFn != nil {
		return f.GetLowStockItemsFn(threshold)
	}
	return nil, nil
}

func (f *fakeInventoryRepo) GetStatisticsSummary(threshold float64) (int, int, int, float64, error) {
	if f.GetStatisticsSummaryFn != nil {
		return f.GetStatisticsSummaryFn(threshold)
	}
	return 0, 0, 0, 0, nil
}

func (f *fakeInventoryRepo) GetCategoryStats() ([]models.InventoryCategoryStat, error) {
	if f.GetCategoryStatsFn != nil {
		return f.GetCategoryStatsFn()
	}
	return nil, nil
}

type fakeRecipeRepo struct {
	ResolveFn              func(executor repositories.SQLExecutor, menuItemID int64) ([]models.RecipeIngredient, error)
	CreateRecipeFn         func(executor repositories.SQLExecutor, recipe *models.Recipe) (int64, error)
	GetRecipeByIDFn        func(id int64) (*models.Recipe, error)
	GetRecipesByMenuItemFn func(menuItemID int64) ([]models.Recipe, error)
	UpdateRecipeFn         func(executor repositories.SQLExecutor, recipe *models.Recipe) error
	DeleteRecipeFn         func(executor repositories.SQLExecutor, id int64) error
}

func (f *fakeRecipeRepo) Resolve(executor repositories.SQLExecutor, menuItemID int64) ([]models.RecipeIngredient, error) {
	if f.ResolveFn != nil {
		return f.ResolveFn(executor, menuItemID)
	}
	return nil, nil
}

func (f *fakeRecipeRepo) CreateRecipe(executor repositories.SQLExecutor, recipe *models.Recipe) (int64, error) {
	if f.CreateRecipeFn != nil {
		return f.CreateRecipeFn(executor, recipe)
	}
	return 0, nil
}

func (f *fakeRecipeRepo) GetRecipeByID(id int64) (*models.Recipe, error) {
	if f.GetRecipeByIDFn != nil {
		return f.GetRecipeByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRecipeRepo) GetRecipesByMenuItem(menuItemID int64) ([]models.Recipe, error) {
	if f.GetRecipesByMenuItemFn != nil {
		return f.GetRecipesByMenuItemFn(menuItemID)
	}
	return nil, nil
}

func (f *fakeRecipeRepo) UpdateRecipe(executor repositories.SQLExecutor, recipe *models.Recipe) error {
	if f.UpdateRecipeFn != nil {
		return f.UpdateRecipeFn(executor, recipe)
	}
	return nil
}

func (f *fakeRecipeRepo) DeleteRecipe(executor repositories.SQLExecutor, id int64) error {
	if f.DeleteRecipeFn != nil {
		return f.DeleteRecipeFn(executor, id)
	}
	return nil
}

type fakeMovementRepo struct {
	CreateMovementFn func(executor repositories.SQLExecutor, movement *models.InventoryMovement) (int64, error)
	GetMovementsFn   func(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error)
}

func (f *fakeMovementRepo) CreateMovement(executor repositories.SQLExecutor, movement *models.InventoryMovement) (int64, error) {
	if f.CreateMovementFn != nil {
		return f.CreateMovementFn(executor, movement)
	}
	return 0, nil
}

func (f *fakeMovementRepo) GetMovements(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	if f.GetMovementsFn != nil {
		return f.GetMovementsFn(inventoryItemID, movementType, page, pageSize)
	}
	return nil, 0, nil
}

type fakeReservationRepo struct {
	CreateReservationFn  func(executor repositories.SQLExecutor, reservation *models.Reservation) (int64, error)
	GetReservationByIDFn func(id int64) (*models.Reservation, error)
	GetReservationsFn    func(filters models.ReservationFilters) ([]models.Reservation, int, error)
	UpdateReservationFn  func(executor repositories.SQLExecutor, reservation *models.Reservation) error
	DeleteReservationFn  func(executor repositories.SQLExecutor, id int64) error
	CountOverlappingFn   func(tableID int64, start, end time.Time) (int, error)
}

func (f *fakeReservationRepo) CreateReservation(executor repositories.SQLExecutor, reservation *models.Reservation) (int64, error) {
	if f.CreateReservationFn != nil {
		return f.CreateReservationFn(executor, reservation)
	}
	return 0, nil
}

func (f *fakeReservationRepo) GetReservationByID(id int64) (*models.Reservation, error) {
	if f.GetReservationByIDFn != nil {
		return f.GetReservationByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeReservationRepo) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	if f.GetReservationsFn != nil {
		return f.GetReservationsFn(filters)
	}
	return nil, 0, nil
}

func (f *fakeReservationRepo) UpdateReservation(executor repositories.SQLExecutor, reservation *models.Reservation) error {
	if f.UpdateReservationFn != nil {
		return f.UpdateReservationFn(executor, reservation)
	}
	return nil
}

func (f *fakeReservationRepo) DeleteReservation(executor repositories.SQLExecutor, id int64) error {
	if f.DeleteReservationFn != nil {
		return f.DeleteReservationFn(executor, id)
	}
	return nil
}

func (f *fakeReservationRepo) CountOverlapping(tableID int64, start, end time.Time) (int, error) {
	if f.CountOverlappingFn != nil {
		return f.CountOverlappingFn(tableID, start, end)
	}
	return 0, nil
}

type fakeInventoryService struct {
	InventoryService

	DeductFn  func(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error)
	RestoreFn func(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error)

	deductCalls  int
	restoreCalls int
}

func (f *fakeInventoryService) DeductInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error) {
	f.deductCalls++
	if f.DeductFn != nil {
		return f.DeductFn(tx, orderID)
	}
	return nil, nil
}

func (f *fakeInventoryService) RestoreInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error) {
	f.restoreCalls++
	if f.RestoreFn != nil {
		return f.RestoreFn(tx, orderID)
	}
	return nil, nil
}
