package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// MenuItemHandler holds the menu service.
type MenuItemHandler struct {
	menuService services.MenuService
}

// NewMenuItemHandler creates a new MenuItemHandler.
func NewMenuItemHandler(ms services.MenuService) *MenuItemHandler {
	return &MenuItemHandler{menuService: ms}
}

// CreateMenuItem handles creating a menu item.
func (h *MenuItemHandler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "CreateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.menuService.CreateMenuItem(&item)
	if err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuService.CreateMenuItem")
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item.", err.Error()))
		case errors.Is(err, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Menu item already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMenuItems handles listing menu items with filters.
func (h *MenuItemHandler) GetMenuItems(c *gin.Context) {
	var filters models.MenuItemFilters
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	filters.AvailableOnly = c.Query("available_only") == "true"
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	filters.Page = page
	filters.PageSize = pageSize

	items, totalCount, err := h.menuService.GetMenuItems(filters)
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuService.GetMenuItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu items.", "Internal error"))
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetMenuItemByID handles fetching one menu item.
func (h *MenuItemHandler) GetMenuItemByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetMenuItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error from menuService.GetMenuItemByID")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMenuItem handles replacing a menu item's fields.
func (h *MenuItemHandler) UpdateMenuItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "UpdateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.menuService.UpdateMenuItem(itemID, &item)
	if err != nil {
		utils.LogError(err, "UpdateMenuItem: Error from menuService.UpdateMenuItem")
		switch {
		case errors.Is(err, services.ErrMenuItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMenuItem handles deleting a menu item not referenced by orders.
func (h *MenuItemHandler) DeleteMenuItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenuItem(itemID); err != nil {
		utils.LogError(err, "DeleteMenuItem: Error from menuService.DeleteMenuItem")
		switch {
		case errors.Is(err, services.ErrMenuItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		case errors.Is(err, services.ErrMenuItemInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Menu item is referenced by orders or recipes.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// CreateRecipe handles adding one ingredient line to a menu item's recipe.
func (h *MenuItemHandler) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		utils.LogError(err, "CreateRecipe: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.menuService.CreateRecipe(&recipe)
	if err != nil {
		utils.LogError(err, "CreateRecipe: Error from menuService.CreateRecipe")
		switch {
		case errors.Is(err, services.ErrMenuItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid recipe.", err.Error()))
		case errors.Is(err, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Recipe line already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create recipe.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRecipesByMenuItem handles listing the recipe of one menu item.
func (h *MenuItemHandler) GetRecipesByMenuItem(c *gin.Context) {
	menuItemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipes, err := h.menuService.GetRecipesByMenuItem(menuItemID)
	if err != nil {
		utils.LogError(err, "GetRecipesByMenuItem: Error from menuService.GetRecipesByMenuItem")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch recipes.", "Internal error"))
		}
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"data": recipes})
}

// UpdateRecipe handles changing one recipe line.
func (h *MenuItemHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		utils.LogError(err, "UpdateRecipe: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.menuService.UpdateRecipe(recipeID, &recipe)
	if err != nil {
		utils.LogError(err, "UpdateRecipe: Error from menuService.UpdateRecipe")
		switch {
		case errors.Is(err, services.ErrRecipeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Recipe not found.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid recipe.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update recipe.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRecipe handles deleting one recipe line.
func (h *MenuItemHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteRecipe(recipeID); err != nil {
		utils.LogError(err, "DeleteRecipe: Error from menuService.DeleteRecipe")
		if errors.Is(err, services.ErrRecipeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Recipe not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete recipe.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
