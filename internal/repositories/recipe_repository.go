package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// RecipeRepository resolves a menu item to the ingredients one unit of it
// consumes, and carries the plain CRUD surface for authoring recipes.
type RecipeRepository interface {
	// Resolve returns the ingredient list for one unit of the given menu item.
	// An item with no recipe resolves to an empty slice, not an error. When a
	// non-nil executor is given the read participates in its transaction.
	Resolve(executor SQLExecutor, menuItemID int64) ([]models.RecipeIngredient, error)

	CreateRecipe(executor SQLExecutor, recipe *models.Recipe) (int64, error)
	GetRecipeByID(id int64) (*models.Recipe, error)
	GetRecipesByMenuItem(menuItemID int64) ([]models.Recipe, error)
	UpdateRecipe(executor SQLExecutor, recipe *models.Recipe) error
	DeleteRecipe(executor SQLExecutor, id int64) error
}

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new instance of RecipeRepository.
func NewRecipeRepository(db *sql.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Resolve(executor SQLExecutor, menuItemID int64) ([]models.RecipeIngredient, error) {
	if executor == nil {
		executor = r.db
	}
	ingredients := []models.RecipeIngredient{}
	query := `SELECT i.id, i.item_name, r.unit, r.quantity_required, i.quantity
	          FROM recipes r
	          JOIN inventory i ON r.inventory_item_id = i.id
	          WHERE r.menu_item_id = $1
	          ORDER BY r.id`
	rows, err := executor.Query(query, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving recipe for menu item ID %d: %v", ErrDatabaseError, menuItemID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing models.RecipeIngredient
		if err := rows.Scan(&ing.InventoryItemID, &ing.ItemName, &ing.Unit, &ing.QuantityPerUnit, &ing.Available); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe ingredient: %v", ErrDatabaseError, err)
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe ingredients: %v", ErrDatabaseError, err)
	}
	return ingredients, nil
}

func (r *recipeRepository) CreateRecipe(executor SQLExecutor, recipe *models.Recipe) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO recipes (menu_item_id, inventory_item_id, quantity_required, unit, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	recipe.CreatedAt = currentTime
	recipe.UpdatedAt = currentTime
	if recipe.Unit == "" {
		recipe.Unit = "units"
	}

	err := executor.QueryRow(query, recipe.MenuItemID, recipe.InventoryItemID,
		recipe.QuantityRequired, recipe.Unit, recipe.CreatedAt, recipe.UpdatedAt).Scan(&recipe.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating recipe (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating recipe: %v", ErrDatabaseError, err)
	}
	return recipe.ID, nil
}

func (r *recipeRepository) GetRecipeByID(id int64) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	query := `SELECT id, menu_item_id, inventory_item_id, quantity_required, unit, created_at, updated_at
	          FROM recipes WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&recipe.ID, &recipe.MenuItemID, &recipe.InventoryItemID,
		&recipe.QuantityRequired, &recipe.Unit, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting recipe by ID %d: %v", ErrDatabaseError, id, err)
	}
	return recipe, nil
}

func (r *recipeRepository) GetRecipesByMenuItem(menuItemID int64) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	query := `SELECT r.id, r.menu_item_id, r.inventory_item_id, r.quantity_required, r.unit,
	                 r.created_at, r.updated_at,
	                 i.item_name, i.quantity, i.unit
	          FROM recipes r
	          JOIN inventory i ON r.inventory_item_id = i.id
	          WHERE r.menu_item_id = $1
	          ORDER BY r.id`
	rows, err := r.db.Query(query, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying recipes for menu item ID %d: %v", ErrDatabaseError, menuItemID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipe models.Recipe
		var inv models.InventoryItem
		if err := rows.Scan(&recipe.ID, &recipe.MenuItemID, &recipe.InventoryItemID,
			&recipe.QuantityRequired, &recipe.Unit, &recipe.CreatedAt, &recipe.UpdatedAt,
			&inv.ItemName, &inv.Quantity, &inv.Unit); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe: %v", ErrDatabaseError, err)
		}
		inv.ID = recipe.InventoryItemID
		recipe.InventoryItem = &inv
		recipes = append(recipes, recipe)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe rows: %v", ErrDatabaseError, err)
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(executor SQLExecutor, recipe *models.Recipe) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE recipes SET menu_item_id = $1, inventory_item_id = $2, quantity_required = $3,
	                             unit = $4, updated_at = $5
	          WHERE id = $6`
	recipe.UpdatedAt = time.Now()
	result, err := executor.Exec(query, recipe.MenuItemID, recipe.InventoryItemID,
		recipe.QuantityRequired, recipe.Unit, recipe.UpdatedAt, recipe.ID)
	if err != nil {
		return fmt.Errorf("%w: updating recipe ID %d: %v", ErrDatabaseError, recipe.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(executor SQLExecutor, id int64) error {
	if executor == nil {
		executor = r.db
	}
	result, err := executor.Exec(`DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting recipe ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
