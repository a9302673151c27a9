package services

import (
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemInUse    = errors.New("menu item is referenced by orders or recipes")
	ErrRecipeNotFound   = errors.New("recipe not found")
)

// MenuService manages menu items and the recipes that link them to
// inventory.
type MenuService interface {
	CreateMenuItem(item *models.MenuItem) (*models.MenuItem, error)
	GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, int, error)
	GetMenuItemByID(itemID int64) (*models.MenuItem, error)
	UpdateMenuItem(itemID int64, item *models.MenuItem) (*models.MenuItem, error)
	DeleteMenuItem(itemID int64) error

	CreateRecipe(recipe *models.Recipe) (*models.Recipe, error)
	GetRecipesByMenuItem(menuItemID int64) ([]models.Recipe, error)
	UpdateRecipe(recipeID int64, recipe *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(recipeID int64) error
}

type menuService struct {
	menuRepo   repositories.MenuItemRepository
	recipeRepo repositories.RecipeRepository
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuItemRepository, rr repositories.RecipeRepository) MenuService {
	return &menuService{menuRepo: mr, recipeRepo: rr}
}

func (s *menuService) CreateMenuItem(item *models.MenuItem) (*models.MenuItem, error) {
	if item.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.TrackInventory && item.CurrentStock < 0 {
		return nil, fmt.Errorf("%w: current stock cannot be negative", ErrValidation)
	}

	id, err := s.menuRepo.CreateItem(nil, item)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: menu item %q already exists", ErrConflict, item.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	item.ID = id
	return item, nil
}

func (s *menuService) GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, int, error) {
	items, total, err := s.menuRepo.GetItems(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, total, nil
}

func (s *menuService) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(nil, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) UpdateMenuItem(itemID int64, item *models.MenuItem) (*models.MenuItem, error) {
	existing, err := s.GetMenuItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	if err := s.menuRepo.UpdateItem(nil, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) DeleteMenuItem(itemID int64) error {
	if err := s.menuRepo.DeleteItem(nil, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: menu item %d", ErrMenuItemInUse, itemID)
		}
		return fmt.Errorf("failed to delete menu item %d: %w", itemID, err)
	}
	return nil
}

func (s *menuService) CreateRecipe(recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.QuantityRequired <= 0 {
		return nil, fmt.Errorf("%w: quantity required must be positive", ErrValidation)
	}
	if _, err := s.GetMenuItemByID(recipe.MenuItemID); err != nil {
		return nil, err
	}

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	id, err := s.recipeRepo.CreateRecipe(nil, recipe)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: menu item %d already uses ingredient %d", ErrConflict, recipe.MenuItemID, recipe.InventoryItemID)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: inventory item %d does not exist", ErrValidation, recipe.InventoryItemID)
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	recipe.ID = id
	return recipe, nil
}

func (s *menuService) GetRecipesByMenuItem(menuItemID int64) ([]models.Recipe, error) {
	if _, err := s.GetMenuItemByID(menuItemID); err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.GetRecipesByMenuItem(menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes for menu item %d: %w", menuItemID, err)
	}
	return recipes, nil
}

func (s *menuService) UpdateRecipe(recipeID int64, recipe *models.Recipe) (*models.Recipe, error) {
	existing, err := s.recipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", recipeID, err)
	}
	if recipe.QuantityRequired <= 0 {
		return nil, fmt.Errorf("%w: quantity required must be positive", ErrValidation)
	}

	recipe.ID = existing.ID
	recipe.MenuItemID = existing.MenuItemID
	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepo.UpdateRecipe(nil, recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe %d: %w", recipeID, err)
	}
	return recipe, nil
}

func (s *menuService) DeleteRecipe(recipeID int64) error {
	if err := s.recipeRepo.DeleteRecipe(nil, recipeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe %d: %w", recipeID, err)
	}
	return nil
}
