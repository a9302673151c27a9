package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// CreateInventoryItem handles creating an ingredient record.
func (h *InventoryHandler) CreateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "CreateInventoryItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.inventoryService.CreateInventoryItem(&item)
	if err != nil {
		utils.LogError(err, "CreateInventoryItem: Error from inventoryService.CreateInventoryItem")
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item.", err.Error()))
		case errors.Is(err, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Inventory item already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetInventoryItems handles listing ingredients with filters.
func (h *InventoryHandler) GetInventoryItems(c *gin.Context) {
	var filters models.InventoryFilters
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	filters.LowStockOnly = c.Query("low_stock_only") == "true"
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	filters.Page = page
	filters.PageSize = pageSize

	items, totalCount, err := h.inventoryService.GetInventoryItems(filters)
	if err != nil {
		utils.LogError(err, "GetInventoryItems: Error from inventoryService.GetInventoryItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory items.", "Internal error"))
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetInventoryItemByID handles fetching one ingredient.
func (h *InventoryHandler) GetInventoryItemByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetInventoryItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetInventoryItemByID: Error from inventoryService.GetInventoryItemByID")
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateInventoryItem handles replacing an ingredient's fields.
func (h *InventoryHandler) UpdateInventoryItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.LogError(err, "UpdateInventoryItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.inventoryService.UpdateInventoryItem(itemID, &item)
	if err != nil {
		utils.LogError(err, "UpdateInventoryItem: Error from inventoryService.UpdateInventoryItem")
		switch {
		case errors.Is(err, services.ErrInventoryItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteInventoryItem handles deleting an ingredient not referenced by any
// recipe.
func (h *InventoryHandler) DeleteInventoryItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteInventoryItem(itemID); err != nil {
		utils.LogError(err, "DeleteInventoryItem: Error from inventoryService.DeleteInventoryItem")
		switch {
		case errors.Is(err, services.ErrInventoryItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		case errors.Is(err, services.ErrInventoryItemInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Inventory item is referenced by recipes.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// UpdateInventoryQuantity handles a manual add/subtract/set adjustment.
func (h *InventoryHandler) UpdateInventoryQuantity(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateInventoryQuantity: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.inventoryService.UpdateInventoryQuantity(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateInventoryQuantity: Error from inventoryService.UpdateInventoryQuantity")
		switch {
		case errors.Is(err, services.ErrInventoryItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidAdjustAction), errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid adjustment.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to adjust inventory.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// BulkUpdateInventory handles a batch of stock updates with per-entry
// failure isolation.
func (h *InventoryHandler) BulkUpdateInventory(c *gin.Context) {
	var req services.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "BulkUpdateInventory: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.inventoryService.BulkUpdateInventory(req)
	if err != nil {
		utils.LogError(err, "BulkUpdateInventory: Error from inventoryService.BulkUpdateInventory")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid bulk update.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to apply bulk update.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLowStockAlerts handles the combined low stock report.
func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	alerts, err := h.inventoryService.GetLowStockAlerts()
	if err != nil {
		utils.LogError(err, "GetLowStockAlerts: Error from inventoryService.GetLowStockAlerts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch low stock alerts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GetInventoryStatistics handles the inventory dashboard rollup.
func (h *InventoryHandler) GetInventoryStatistics(c *gin.Context) {
	stats, err := h.inventoryService.GetInventoryStatistics()
	if err != nil {
		utils.LogError(err, "GetInventoryStatistics: Error from inventoryService.GetInventoryStatistics")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory statistics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetInventoryMovements handles the stock movement audit trail.
func (h *InventoryHandler) GetInventoryMovements(c *gin.Context) {
	var inventoryItemID *int64
	if idStr := c.Query("inventory_item_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory_item_id format.", err.Error()))
			return
		}
		inventoryItemID = &id
	}
	var movementType *string
	if mt := c.Query("movement_type"); mt != "" {
		movementType = &mt
	}
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	movements, totalCount, err := h.inventoryService.GetInventoryMovements(inventoryItemID, movementType, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetInventoryMovements: Error from inventoryService.GetInventoryMovements")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory movements.", "Internal error"))
		return
	}
	if movements == nil {
		movements = []models.InventoryMovement{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      movements,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// CheckMenuItemAvailability handles the "how many can we sell" query for a
// menu item.
func (h *InventoryHandler) CheckMenuItemAvailability(c *gin.Context) {
	menuItemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	quantity := 1
	if qStr := c.Query("quantity"); qStr != "" {
		q, err := strconv.Atoi(qStr)
		if err != nil || q <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid quantity format.", "quantity must be a positive integer"))
			return
		}
		quantity = q
	}

	availability, err := h.inventoryService.CheckMenuItemAvailability(menuItemID, quantity)
	if err != nil {
		utils.LogError(err, "CheckMenuItemAvailability: Error from inventoryService.CheckMenuItemAvailability")
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid availability query.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check availability.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, availability)
}
