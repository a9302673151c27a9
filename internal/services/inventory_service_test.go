package services

import (
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

type inventoryDeps struct {
	svc           InventoryService
	inventoryRepo *fakeInventoryRepo
	menuRepo      *fakeMenuRepo
	orderRepo     *fakeOrderRepo
	recipeRepo    *fakeRecipeRepo
	movementRepo  *fakeMovementRepo
}

func newInventoryService(t *testing.T) (sqlmock.Sqlmock, *inventoryDeps) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	deps := &inventoryDeps{
		inventoryRepo: &fakeInventoryRepo{},
		menuRepo:      &fakeMenuRepo{},
		orderRepo:     &fakeOrderRepo{},
		recipeRepo:    &fakeRecipeRepo{},
		movementRepo:  &fakeMovementRepo{},
	}
	deps.svc = NewInventoryService(deps.inventoryRepo, deps.menuRepo, deps.orderRepo, deps.recipeRepo, deps.movementRepo, db)
	return mock, deps
}

func TestDeductInventoryForOrder(t *testing.T) {
	_, deps := newInventoryService(t)

	deps.orderRepo.GetOrderItemsByOrderIDFn = func(_ repositories.SQLExecutor, _ int64) ([]models.OrderItem, error) {
		return []models.OrderItem{
			{
				MenuItemID: 10,
				Quantity:   2,
				MenuItem:   &models.MenuItem{ID: 10, Name: "Burger", TrackInventory: true, CurrentStock: 8, LowStockThreshold: 3},
			},
		}, nil
	}
	deps.recipeRepo.ResolveFn = func(_ repositories.SQLExecutor, menuItemID int64) ([]models.RecipeIngredient, error) {
		return []models.RecipeIngredient{
			{InventoryItemID: 1, ItemName: "beef", Unit: "kg", QuantityPerUnit: 0.25, Available: 10},
			{InventoryItemID: 2, ItemName: "buns", Unit: "pcs", QuantityPerUnit: 1, Available: 1.5},
		}, nil
	}

	var stockDelta int
	deps.menuRepo.AdjustStockFn = func(_ repositories.SQLExecutor, _ int64, delta int) (int, error) {
		stockDelta = delta
		return 8 + delta, nil
	}
	quantities := map[int64]float64{}
	deps.inventoryRepo.SetQuantityFn = func(_ repositories.SQLExecutor, id int64, quantity float64, _ time.Time) error {
		quantities[id] = quantity
		return nil
	}
	var movements []models.InventoryMovement
	deps.movementRepo.CreateMovementFn = func(_ repositories.SQLExecutor, m *models.InventoryMovement) (int64, error) {
		movements = append(movements, *m)
		return int64(len(movements)), nil
	}

	updates, err := deps.svc.DeductInventoryForOrder(nil, 42)
	if err != nil {
		t.Fatalf("DeductInventoryForOrder: %v", err)
	}
	if stockDelta != -2 {
		t.Errorf("menu stock delta = %d, want -2", stockDelta)
	}
	// 0.25 kg per serving times 2 servings.
	if quantities[1] != 9.5 {
		t.Errorf("beef quantity = %v, want 9.5", quantities[1])
	}
	// 1.5 buns minus 2 clamps at zero.
	if quantities[2] != 0 {
		t.Errorf("buns quantity = %v, want 0 (clamped)", quantities[2])
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	if updates[1].QuantityChanged != -1.5 {
		t.Errorf("buns change = %v, want -1.5 (only what was on hand)", updates[1].QuantityChanged)
	}
	if len(movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(movements))
	}
	for _, m := range movements {
		if m.MovementType != models.MovementTypeOrderDeduct {
			t.Errorf("movement type = %s, want %s", m.MovementType, models.MovementTypeOrderDeduct)
		}
		if m.OrderID == nil || *m.OrderID != 42 {
			t.Errorf("movement order ID = %v, want 42", m.OrderID)
		}
	}
}

func TestRestoreInventoryForOrder(t *testing.T) {
	_, deps := newInventoryService(t)

	deps.orderRepo.GetOrderItemsByOrderIDFn = func(_ repositories.SQLExecutor, _ int64) ([]models.OrderItem, error) {
		return []models.OrderItem{
			{MenuItemID: 10, Quantity: 1, MenuItem: &models.MenuItem{ID: 10, TrackInventory: true}},
		}, nil
	}
	deps.recipeRepo.ResolveFn = func(_ repositories.SQLExecutor, _ int64) ([]models.RecipeIngredient, error) {
		return []models.RecipeIngredient{
			{InventoryItemID: 1, ItemName: "beef", QuantityPerUnit: 0.25, Available: 4},
		}, nil
	}

	var stockDelta int
	deps.menuRepo.AdjustStockFn = func(_ repositories.SQLExecutor, _ int64, delta int) (int, error) {
		stockDelta = delta
		return delta, nil
	}
	var setQuantity float64
	deps.inventoryRepo.SetQuantityFn = func(_ repositories.SQLExecutor, _ int64, quantity float64, _ time.Time) error {
		setQuantity = quantity
		return nil
	}
	var movementType string
	deps.movementRepo.CreateMovementFn = func(_ repositories.SQLExecutor, m *models.InventoryMovement) (int64, error) {
		movementType = m.MovementType
		return 1, nil
	}

	updates, err := deps.svc.RestoreInventoryForOrder(nil, 42)
	if err != nil {
		t.Fatalf("RestoreInventoryForOrder: %v", err)
	}
	if stockDelta != 1 {
		t.Errorf("menu stock delta = %d, want +1", stockDelta)
	}
	if setQuantity != 4.25 {
		t.Errorf("ingredient quantity = %v, want 4.25", setQuantity)
	}
	if movementType != models.MovementTypeOrderRestore {
		t.Errorf("movement type = %s, want %s", movementType, models.MovementTypeOrderRestore)
	}
	if len(updates) != 1 || updates[0].QuantityChanged != 0.25 {
		t.Errorf("updates = %+v, want one +0.25 change", updates)
	}
}

func TestUpdateInventoryQuantity(t *testing.T) {
	tests := []struct {
		name         string
		current      float64
		req          AdjustInventoryRequest
		wantQuantity float64
		wantType     string
		wantErr      error
	}{
		{
			name:         "add",
			current:      10,
			req:          AdjustInventoryRequest{Quantity: 2.5, Action: AdjustActionAdd},
			wantQuantity: 12.5,
			wantType:     models.MovementTypeBulkReceive,
		},
		{
			name:         "subtract",
			current:      10,
			req:          AdjustInventoryRequest{Quantity: 4, Action: AdjustActionSubtract},
			wantQuantity: 6,
			wantType:     models.MovementTypeManualAdjust,
		},
		{
			name:         "subtract clamps at zero",
			current:      3,
			req:          AdjustInventoryRequest{Quantity: 10, Action: AdjustActionSubtract},
			wantQuantity: 0,
			wantType:     models.MovementTypeManualAdjust,
		},
		{
			name:         "set",
			current:      10,
			req:          AdjustInventoryRequest{Quantity: 7, Action: AdjustActionSet},
			wantQuantity: 7,
			wantType:     models.MovementTypeManualAdjust,
		},
		{
			name:    "set rejects negative",
			req:     AdjustInventoryRequest{Quantity: -1, Action: AdjustActionSet},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown action",
			req:     AdjustInventoryRequest{Quantity: 1, Action: "increment"},
			wantErr: ErrInvalidAdjustAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, deps := newInventoryService(t)
			if tt.wantErr == nil {
				mock.ExpectBegin()
				mock.ExpectCommit()
			}

			deps.inventoryRepo.GetItemByIDFn = func(_ repositories.SQLExecutor, id int64) (*models.InventoryItem, error) {
				return &models.InventoryItem{ID: id, ItemName: "flour", Quantity: tt.current}, nil
			}
			var setQuantity = -1.0
			deps.inventoryRepo.SetQuantityFn = func(_ repositories.SQLExecutor, _ int64, quantity float64, _ time.Time) error {
				setQuantity = quantity
				return nil
			}
			var movement *models.InventoryMovement
			deps.movementRepo.CreateMovementFn = func(_ repositories.SQLExecutor, m *models.InventoryMovement) (int64, error) {
				movement = m
				return 1, nil
			}

			item, err := deps.svc.UpdateInventoryQuantity(1, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateInventoryQuantity: %v", err)
			}
			if setQuantity != tt.wantQuantity {
				t.Errorf("stored quantity = %v, want %v", setQuantity, tt.wantQuantity)
			}
			if item.Quantity != tt.wantQuantity {
				t.Errorf("returned quantity = %v, want %v", item.Quantity, tt.wantQuantity)
			}
			if movement == nil {
				t.Fatal("no movement recorded")
			}
			if movement.MovementType != tt.wantType {
				t.Errorf("movement type = %s, want %s", movement.MovementType, tt.wantType)
			}
			if movement.QuantityChange != tt.wantQuantity-tt.current {
				t.Errorf("movement change = %v, want %v", movement.QuantityChange, tt.wantQuantity-tt.current)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet sqlmock expectations: %v", err)
			}
		})
	}

	t.Run("unknown item", func(t *testing.T) {
		mock, deps := newInventoryService(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := deps.svc.UpdateInventoryQuantity(99, AdjustInventoryRequest{Quantity: 1, Action: AdjustActionAdd})
		if !errors.Is(err, ErrInventoryItemNotFound) {
			t.Fatalf("err = %v, want ErrInventoryItemNotFound", err)
		}
	})
}

func TestBulkUpdateInventory(t *testing.T) {
	t.Run("bad entries are reported and skipped", func(t *testing.T) {
		mock, deps := newInventoryService(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		items := map[int64]float64{1: 10}
		deps.inventoryRepo.GetItemByIDFn = func(_ repositories.SQLExecutor, id int64) (*models.InventoryItem, error) {
			q, ok := items[id]
			if !ok {
				return nil, repositories.ErrNotFound
			}
			return &models.InventoryItem{ID: id, Quantity: q}, nil
		}

		result, err := deps.svc.BulkUpdateInventory(BulkUpdateRequest{Updates: []BulkInventoryUpdate{
			{InventoryItemID: 1, Quantity: 5, Action: AdjustActionAdd},
			{InventoryItemID: 2, Quantity: 5, Action: AdjustActionAdd},
			{InventoryItemID: 3, Quantity: 5, Action: "bogus"},
		}})
		if err != nil {
			t.Fatalf("BulkUpdateInventory: %v", err)
		}
		if len(result.Updated) != 1 {
			t.Fatalf("updated %d items, want 1", len(result.Updated))
		}
		if result.Updated[0].Quantity != 15 {
			t.Errorf("item 1 quantity = %v, want 15", result.Updated[0].Quantity)
		}
		if len(result.Errors) != 2 {
			t.Fatalf("got %d errors, want 2: %+v", len(result.Errors), result.Errors)
		}
		if result.Errors[0].InventoryItemID != 2 || result.Errors[1].InventoryItemID != 3 {
			t.Errorf("error item IDs = %d, %d, want 2, 3", result.Errors[0].InventoryItemID, result.Errors[1].InventoryItemID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("rejects empty update list", func(t *testing.T) {
		_, deps := newInventoryService(t)
		_, err := deps.svc.BulkUpdateInventory(BulkUpdateRequest{})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
	})
}

func TestCheckMenuItemAvailability(t *testing.T) {
	tests := []struct {
		name        string
		menuItem    models.MenuItem
		ingredients []models.RecipeIngredient
		quantity    int
		wantOK      bool
		wantServes  int
		wantFactors int
	}{
		{
			name:       "unavailable item serves nothing",
			menuItem:   models.MenuItem{IsAvailable: false},
			quantity:   1,
			wantOK:     false,
			wantServes: 0, wantFactors: 1,
		},
		{
			name:       "tracked stock limits servings",
			menuItem:   models.MenuItem{Name: "Cake", IsAvailable: true, TrackInventory: true, CurrentStock: 2},
			quantity:   3,
			wantOK:     false,
			wantServes: 2, wantFactors: 1,
		},
		{
			name:     "ingredient limits servings",
			menuItem: models.MenuItem{Name: "Soup", IsAvailable: true},
			ingredients: []models.RecipeIngredient{
				{InventoryItemID: 1, ItemName: "stock", Unit: "l", QuantityPerUnit: 0.5, Available: 1.4},
				{InventoryItemID: 2, ItemName: "salt", Unit: "g", QuantityPerUnit: 1, Available: 100},
			},
			quantity:   3,
			wantOK:     false,
			wantServes: 2, wantFactors: 1,
		},
		{
			name:       "untracked item with no recipe is always available",
			menuItem:   models.MenuItem{Name: "Tap water", IsAvailable: true},
			quantity:   4,
			wantOK:     true,
			wantServes: 4, wantFactors: 0,
		},
		{
			name:     "enough of everything",
			menuItem: models.MenuItem{Name: "Soup", IsAvailable: true},
			ingredients: []models.RecipeIngredient{
				{InventoryItemID: 1, ItemName: "stock", Unit: "l", QuantityPerUnit: 0.5, Available: 5},
			},
			quantity:   3,
			wantOK:     true,
			wantServes: 10, wantFactors: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, deps := newInventoryService(t)
			deps.menuRepo.GetItemByIDFn = func(_ repositories.SQLExecutor, id int64) (*models.MenuItem, error) {
				mi := tt.menuItem
				mi.ID = id
				return &mi, nil
			}
			deps.recipeRepo.ResolveFn = func(_ repositories.SQLExecutor, _ int64) ([]models.RecipeIngredient, error) {
				return tt.ingredients, nil
			}

			result, err := deps.svc.CheckMenuItemAvailability(10, tt.quantity)
			if err != nil {
				t.Fatalf("CheckMenuItemAvailability: %v", err)
			}
			if result.Available != tt.wantOK {
				t.Errorf("available = %v, want %v", result.Available, tt.wantOK)
			}
			if result.MaxPossibleServes != tt.wantServes {
				t.Errorf("max serves = %d, want %d", result.MaxPossibleServes, tt.wantServes)
			}
			if len(result.LimitingFactors) != tt.wantFactors {
				t.Errorf("limiting factors = %v, want %d of them", result.LimitingFactors, tt.wantFactors)
			}
		})
	}

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, deps := newInventoryService(t)
		_, err := deps.svc.CheckMenuItemAvailability(10, 0)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown menu item reported as unavailable", func(t *testing.T) {
		_, deps := newInventoryService(t)
		result, err := deps.svc.CheckMenuItemAvailability(99, 1)
		if err != nil {
			t.Fatalf("CheckMenuItemAvailability: %v", err)
		}
		if result.Available {
			t.Error("expected unavailable result for unknown menu item")
		}
		if result.MaxPossibleServes != 0 {
			t.Errorf("max serves = %d, want 0", result.MaxPossibleServes)
		}
		if len(result.LimitingFactors) != 1 || result.LimitingFactors[0] != "menu item not found" {
			t.Errorf("limiting factors = %v, want [menu item not found]", result.LimitingFactors)
		}
	})
}

func TestGetLowStockAlerts(t *testing.T) {
	_, deps := newInventoryService(t)
	deps.menuRepo.GetLowStockItemsFn = func() ([]models.LowStockMenuItemAlert, error) {
		return []models.LowStockMenuItemAlert{{MenuItemID: 1, MenuItemName: "Cake", CurrentStock: 2, Threshold: 5}}, nil
	}
	deps.inventoryRepo.GetLowStockItemsFn = func(threshold float64) ([]models.LowStockIngredientAlert, error) {
		if threshold != repositories.LowStockIngredientThreshold {
			t.Errorf("threshold = %v, want %v", threshold, repositories.LowStockIngredientThreshold)
		}
		return []models.LowStockIngredientAlert{
			{InventoryItemID: 1, ItemName: "beef", CurrentQuantity: 1.2, Unit: "kg", Threshold: threshold},
			{InventoryItemID: 2, ItemName: "salt", CurrentQuantity: 4, Unit: "g", Threshold: threshold},
		}, nil
	}

	alerts, err := deps.svc.GetLowStockAlerts()
	if err != nil {
		t.Fatalf("GetLowStockAlerts: %v", err)
	}
	if alerts.TotalAlerts != 3 {
		t.Errorf("total alerts = %d, want 3", alerts.TotalAlerts)
	}
	if len(alerts.MenuItems) != 1 || len(alerts.Ingredients) != 2 {
		t.Errorf("alerts = %d menu / %d ingredients, want 1 / 2", len(alerts.MenuItems), len(alerts.Ingredients))
	}
}

func TestDeleteInventoryItem(t *testing.T) {
	t.Run("refuses items referenced by recipes", func(t *testing.T) {
		_, deps := newInventoryService(t)
		deps.inventoryRepo.CountRecipesUsingItemFn = func(_ int64) (int, error) { return 2, nil }
		err := deps.svc.DeleteInventoryItem(1)
		if !errors.Is(err, ErrInventoryItemInUse) {
			t.Fatalf("err = %v, want ErrInventoryItemInUse", err)
		}
	})

	t.Run("deletes unreferenced items", func(t *testing.T) {
		_, deps := newInventoryService(t)
		var deleted int64
		deps.inventoryRepo.DeleteItemFn = func(_ repositories.SQLExecutor, id int64) error {
			deleted = id
			return nil
		}
		if err := deps.svc.DeleteInventoryItem(7); err != nil {
			t.Fatalf("DeleteInventoryItem: %v", err)
		}
		if deleted != 7 {
			t.Errorf("deleted = %d, want 7", deleted)
		}
	})
}
