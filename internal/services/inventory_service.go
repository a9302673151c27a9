package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInventoryItemInUse    = errors.New("inventory item is referenced by recipes")
	ErrInvalidAdjustAction   = errors.New("invalid inventory adjust action")
)

// Adjustment actions accepted by UpdateInventoryQuantity.
const (
	AdjustActionAdd      = "add"
	AdjustActionSubtract = "subtract"
	AdjustActionSet      = "set"
)

// AdjustInventoryRequest adjusts a single ingredient's quantity.
type AdjustInventoryRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
	Action   string  `json:"action" binding:"required"`
	Reason   *string `json:"reason"`
}

// BulkInventoryUpdate is one entry of a bulk stock update.
type BulkInventoryUpdate struct {
	InventoryItemID int64   `json:"inventory_item_id" binding:"required"`
	Quantity        float64 `json:"quantity"`
	Action          string  `json:"action" binding:"required"`
	Reason          *string `json:"reason"`
}

// BulkUpdateRequest applies several stock updates in one call. Entries fail
// independently; one bad entry does not abort the rest.
type BulkUpdateRequest struct {
	Updates []BulkInventoryUpdate `json:"updates" binding:"required,dive"`
}

// BulkUpdateError reports why one bulk entry was skipped.
type BulkUpdateError struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	Error           string `json:"error"`
}

// BulkUpdateResult is the per-item outcome of a bulk update.
type BulkUpdateResult struct {
	Updated []models.InventoryItem `json:"updated"`
	Errors  []BulkUpdateError      `json:"errors"`
}

// LowStockAlerts groups both alert kinds: tracked menu items at or under
// their own threshold, and ingredients at or under the fixed threshold.
type LowStockAlerts struct {
	MenuItems   []models.LowStockMenuItemAlert   `json:"menu_items"`
	Ingredients []models.LowStockIngredientAlert `json:"ingredients"`
	TotalAlerts int                              `json:"total_alerts"`
}

// InventoryStatistics is the dashboard rollup of the inventory table.
type InventoryStatistics struct {
	TotalItems      int                            `json:"total_items"`
	LowStockItems   int                            `json:"low_stock_items"`
	OutOfStockItems int                            `json:"out_of_stock_items"`
	TotalValue      float64                        `json:"total_value"`
	Categories      []models.InventoryCategoryStat `json:"categories"`
}

// MenuItemAvailability reports whether a menu item can be sold in the
// requested quantity, given its own stock counter and its recipe.
type MenuItemAvailability struct {
	MenuItemID        int64    `json:"menu_item_id"`
	RequestedQuantity int      `json:"requested_quantity"`
	Available         bool     `json:"available"`
	LimitingFactors   []string `json:"limiting_factors,omitempty"`
	MaxPossibleServes int      `json:"max_possible_serves"`
}

// InventoryService owns every stock mutation in the system. Order placement
// and cancellation call DeductInventoryForOrder and RestoreInventoryForOrder
// inside the order transaction; everything else manages its own transaction.
type InventoryService interface {
	// Ledger operations, called within an order transaction.
	DeductInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error)
	RestoreInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error)

	CheckMenuItemAvailability(menuItemID int64, quantity int) (*MenuItemAvailability, error)
	UpdateInventoryQuantity(itemID int64, req AdjustInventoryRequest) (*models.InventoryItem, error)
	BulkUpdateInventory(req BulkUpdateRequest) (*BulkUpdateResult, error)
	GetLowStockAlerts() (*LowStockAlerts, error)
	GetInventoryStatistics() (*InventoryStatistics, error)

	CreateInventoryItem(item *models.InventoryItem) (*models.InventoryItem, error)
	GetInventoryItems(filters models.InventoryFilters) ([]models.InventoryItem, int, error)
	GetInventoryItemByID(itemID int64) (*models.InventoryItem, error)
	UpdateInventoryItem(itemID int64, item *models.InventoryItem) (*models.InventoryItem, error)
	DeleteInventoryItem(itemID int64) error
	GetInventoryMovements(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	menuRepo      repositories.MenuItemRepository
	orderRepo     repositories.OrderRepository
	recipeRepo    repositories.RecipeRepository
	movementRepo  repositories.MovementRepository
	db            *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	ir repositories.InventoryRepository,
	mr repositories.MenuItemRepository,
	or repositories.OrderRepository,
	rr repositories.RecipeRepository,
	mvr repositories.MovementRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{
		inventoryRepo: ir,
		menuRepo:      mr,
		orderRepo:     or,
		recipeRepo:    rr,
		movementRepo:  mvr,
		db:            db,
	}
}

// DeductInventoryForOrder walks every item of the order and deducts stock:
// the menu item's own counter when it tracks inventory, and each recipe
// ingredient's quantity. Quantities clamp at zero rather than failing the
// order. Must be called exactly once per order, inside the order's
// transaction; the caller records the deduction flag on the order row.
func (s *inventoryService) DeductInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error) {
	return s.applyOrderInventory(tx, orderID, -1, models.MovementTypeOrderDeduct)
}

// RestoreInventoryForOrder reverses a prior deduction for a cancelled order.
// The caller only invokes it when the order's deduction flag is set, so
// stock is never restored twice.
func (s *inventoryService) RestoreInventoryForOrder(tx repositories.SQLExecutor, orderID int64) ([]models.InventoryUpdate, error) {
	return s.applyOrderInventory(tx, orderID, 1, models.MovementTypeOrderRestore)
}

func (s *inventoryService) applyOrderInventory(tx repositories.SQLExecutor, orderID int64, direction float64, movementType string) ([]models.InventoryUpdate, error) {
	items, err := s.orderRepo.GetOrderItemsByOrderID(tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items for order %d: %w", orderID, err)
	}

	updates := make([]models.InventoryUpdate, 0)
	now := time.Now()

	for _, item := range items {
		if item.MenuItem != nil && item.MenuItem.TrackInventory {
			delta := int(direction) * item.Quantity
			newStock, err := s.menuRepo.AdjustStock(tx, item.MenuItemID, delta)
			if err != nil {
				return nil, fmt.Errorf("failed to adjust stock for menu item %d: %w", item.MenuItemID, err)
			}
			if direction < 0 && item.MenuItem.LowStockThreshold > 0 && newStock <= item.MenuItem.LowStockThreshold {
				log.Warn().
					Int64("menu_item_id", item.MenuItemID).
					Str("menu_item", item.MenuItem.Name).
					Int("current_stock", newStock).
					Int("threshold", item.MenuItem.LowStockThreshold).
					Msg("Menu item stock at or below threshold")
			}
		}

		ingredients, err := s.recipeRepo.Resolve(tx, item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipe for menu item %d: %w", item.MenuItemID, err)
		}
		for _, ing := range ingredients {
			change := direction * ing.QuantityPerUnit * float64(item.Quantity)
			newQuantity := ing.Available + change
			if newQuantity < 0 {
				newQuantity = 0
			}
			if err := s.inventoryRepo.SetQuantity(tx, ing.InventoryItemID, newQuantity, now); err != nil {
				return nil, fmt.Errorf("failed to update ingredient %d: %w", ing.InventoryItemID, err)
			}

			movement := models.InventoryMovement{
				InventoryItemID: ing.InventoryItemID,
				OrderID:         &orderID,
				MovementType:    movementType,
				QuantityChange:  newQuantity - ing.Available,
				MovementDate:    now,
			}
			if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
				return nil, fmt.Errorf("failed to record inventory movement for ingredient %d: %w", ing.InventoryItemID, err)
			}

			updates = append(updates, models.InventoryUpdate{
				InventoryItemID: ing.InventoryItemID,
				OldQuantity:     ing.Available,
				NewQuantity:     newQuantity,
				QuantityChanged: newQuantity - ing.Available,
			})

			if direction < 0 && newQuantity <= repositories.LowStockIngredientThreshold {
				log.Warn().
					Int64("inventory_item_id", ing.InventoryItemID).
					Str("item_name", ing.ItemName).
					Float64("quantity", newQuantity).
					Float64("threshold", repositories.LowStockIngredientThreshold).
					Msg("Ingredient stock at or below threshold")
			}
		}
	}
	return updates, nil
}

// CheckMenuItemAvailability reports how many servings of a menu item the
// current stock supports. A missing recipe constrains nothing; only the
// item's own counter applies then.
func (s *inventoryService) CheckMenuItemAvailability(menuItemID int64, quantity int) (*MenuItemAvailability, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	menuItem, err := s.menuRepo.GetItemByID(nil, menuItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// An unknown item is reported as unavailable, not as an error.
			return &MenuItemAvailability{
				MenuItemID:        menuItemID,
				RequestedQuantity: quantity,
				Available:         false,
				LimitingFactors:   []string{"menu item not found"},
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch menu item %d: %w", menuItemID, err)
	}

	result := &MenuItemAvailability{
		MenuItemID:        menuItemID,
		RequestedQuantity: quantity,
		Available:         true,
		MaxPossibleServes: math.MaxInt32,
	}

	if !menuItem.IsAvailable {
		result.Available = false
		result.MaxPossibleServes = 0
		result.LimitingFactors = append(result.LimitingFactors, "menu item is marked unavailable")
		return result, nil
	}

	if menuItem.TrackInventory {
		if menuItem.CurrentStock < result.MaxPossibleServes {
			result.MaxPossibleServes = menuItem.CurrentStock
		}
		if menuItem.CurrentStock < quantity {
			result.Available = false
			result.LimitingFactors = append(result.LimitingFactors,
				fmt.Sprintf("only %d units of %s in stock", menuItem.CurrentStock, menuItem.Name))
		}
	}

	ingredients, err := s.recipeRepo.Resolve(nil, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe for menu item %d: %w", menuItemID, err)
	}
	for _, ing := range ingredients {
		if ing.QuantityPerUnit <= 0 {
			continue
		}
		serves := int(ing.Available / ing.QuantityPerUnit)
		if serves < result.MaxPossibleServes {
			result.MaxPossibleServes = serves
		}
		if ing.Available < ing.QuantityPerUnit*float64(quantity) {
			result.Available = false
			result.LimitingFactors = append(result.LimitingFactors,
				fmt.Sprintf("insufficient %s: %.2f %s on hand", ing.ItemName, ing.Available, ing.Unit))
		}
	}

	if result.MaxPossibleServes == math.MaxInt32 {
		// Untracked item with no recipe, nothing limits it.
		result.MaxPossibleServes = quantity
	}
	return result, nil
}

// UpdateInventoryQuantity applies a manual add/subtract/set adjustment and
// records a movement row. Subtractions clamp at zero.
func (s *inventoryService) UpdateInventoryQuantity(itemID int64, req AdjustInventoryRequest) (*models.InventoryItem, error) {
	newQuantity, movementType, err := resolveAdjustment(req.Action, req.Quantity)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.inventoryRepo.GetItemByID(tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory item %d: %w", itemID, err)
	}

	updated := newQuantity(item.Quantity)
	if updated < 0 {
		updated = 0
	}
	now := time.Now()
	if err := s.inventoryRepo.SetQuantity(tx, itemID, updated, now); err != nil {
		return nil, fmt.Errorf("failed to update inventory item %d: %w", itemID, err)
	}

	movement := models.InventoryMovement{
		InventoryItemID: itemID,
		MovementType:    movementType,
		QuantityChange:  updated - item.Quantity,
		Reason:          req.Reason,
		MovementDate:    now,
	}
	if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
		return nil, fmt.Errorf("failed to record inventory movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit inventory adjustment: %w", err)
	}

	item.Quantity = updated
	item.LastUpdated = now
	return item, nil
}

// resolveAdjustment turns an action string into a quantity function and the
// movement type to record.
func resolveAdjustment(action string, quantity float64) (func(current float64) float64, string, error) {
	switch action {
	case AdjustActionAdd:
		return func(current float64) float64 { return current + quantity }, models.MovementTypeBulkReceive, nil
	case AdjustActionSubtract:
		return func(current float64) float64 { return current - quantity }, models.MovementTypeManualAdjust, nil
	case AdjustActionSet:
		if quantity < 0 {
			return nil, "", fmt.Errorf("%w: quantity cannot be negative for set", ErrValidation)
		}
		return func(current float64) float64 { return quantity }, models.MovementTypeManualAdjust, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidAdjustAction, action)
	}
}

// BulkUpdateInventory applies each update independently inside one
// transaction. A failed entry is reported in the result and skipped; it does
// not roll back the entries that succeeded.
func (s *inventoryService) BulkUpdateInventory(req BulkUpdateRequest) (*BulkUpdateResult, error) {
	if len(req.Updates) == 0 {
		return nil, fmt.Errorf("%w: updates list is empty", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	result := &BulkUpdateResult{
		Updated: make([]models.InventoryItem, 0, len(req.Updates)),
		Errors:  make([]BulkUpdateError, 0),
	}
	now := time.Now()

	for _, upd := range req.Updates {
		newQuantity, movementType, err := resolveAdjustment(upd.Action, upd.Quantity)
		if err != nil {
			result.Errors = append(result.Errors, BulkUpdateError{InventoryItemID: upd.InventoryItemID, Error: err.Error()})
			continue
		}

		item, err := s.inventoryRepo.GetItemByID(tx, upd.InventoryItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				result.Errors = append(result.Errors, BulkUpdateError{InventoryItemID: upd.InventoryItemID, Error: "inventory item not found"})
				continue
			}
			return nil, fmt.Errorf("failed to fetch inventory item %d: %w", upd.InventoryItemID, err)
		}

		updated := newQuantity(item.Quantity)
		if updated < 0 {
			updated = 0
		}
		if err := s.inventoryRepo.SetQuantity(tx, upd.InventoryItemID, updated, now); err != nil {
			return nil, fmt.Errorf("failed to update inventory item %d: %w", upd.InventoryItemID, err)
		}

		movement := models.InventoryMovement{
			InventoryItemID: upd.InventoryItemID,
			MovementType:    movementType,
			QuantityChange:  updated - item.Quantity,
			Reason:          upd.Reason,
			MovementDate:    now,
		}
		if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
			return nil, fmt.Errorf("failed to record inventory movement: %w", err)
		}

		item.Quantity = updated
		item.LastUpdated = now
		result.Updated = append(result.Updated, *item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bulk inventory update: %w", err)
	}
	return result, nil
}

func (s *inventoryService) GetLowStockAlerts() (*LowStockAlerts, error) {
	menuAlerts, err := s.menuRepo.GetLowStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock menu items: %w", err)
	}
	ingredientAlerts, err := s.inventoryRepo.GetLowStockItems(repositories.LowStockIngredientThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock ingredients: %w", err)
	}
	return &LowStockAlerts{
		MenuItems:   menuAlerts,
		Ingredients: ingredientAlerts,
		TotalAlerts: len(menuAlerts) + len(ingredientAlerts),
	}, nil
}

func (s *inventoryService) GetInventoryStatistics() (*InventoryStatistics, error) {
	total, lowStock, outOfStock, totalValue, err := s.inventoryRepo.GetStatisticsSummary(repositories.LowStockIngredientThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory summary: %w", err)
	}
	categories, err := s.inventoryRepo.GetCategoryStats()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory category stats: %w", err)
	}
	return &InventoryStatistics{
		TotalItems:      total,
		LowStockItems:   lowStock,
		OutOfStockItems: outOfStock,
		TotalValue:      totalValue,
		Categories:      categories,
	}, nil
}

func (s *inventoryService) CreateInventoryItem(item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	now := time.Now()
	item.LastUpdated = now
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := s.inventoryRepo.CreateItem(nil, item)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: inventory item %q already exists", ErrConflict, item.ItemName)
		}
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	item.ID = id
	return item, nil
}

func (s *inventoryService) GetInventoryItems(filters models.InventoryFilters) ([]models.InventoryItem, int, error) {
	items, total, err := s.inventoryRepo.GetItems(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory items: %w", err)
	}
	return items, total, nil
}

func (s *inventoryService) GetInventoryItemByID(itemID int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(nil, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) UpdateInventoryItem(itemID int64, item *models.InventoryItem) (*models.InventoryItem, error) {
	existing, err := s.inventoryRepo.GetItemByID(nil, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item %d: %w", itemID, err)
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	if item.Quantity != existing.Quantity {
		item.LastUpdated = item.UpdatedAt
	} else {
		item.LastUpdated = existing.LastUpdated
	}
	if err := s.inventoryRepo.UpdateItem(nil, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) DeleteInventoryItem(itemID int64) error {
	count, err := s.inventoryRepo.CountRecipesUsingItem(itemID)
	if err != nil {
		return fmt.Errorf("failed to check recipe references for item %d: %w", itemID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d recipe(s) reference it", ErrInventoryItemInUse, count)
	}
	if err := s.inventoryRepo.DeleteItem(nil, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInventoryItemNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: item is still referenced", ErrInventoryItemInUse)
		}
		return fmt.Errorf("failed to delete inventory item %d: %w", itemID, err)
	}
	return nil
}

func (s *inventoryService) GetInventoryMovements(inventoryItemID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	movements, total, err := s.movementRepo.GetMovements(inventoryItemID, movementType, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory movements: %w", err)
	}
	return movements, total, nil
}
