package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// AvailabilityHandler holds the availability service.
type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(as services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: as}
}

// CheckTableAvailability handles "is this table free at that time". The
// time defaults to now and the duration to the standard dining window.
func (h *AvailabilityHandler) CheckTableAvailability(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	at := time.Now()
	if timeStr := c.Query("datetime"); timeStr != "" {
		parsed, err := time.Parse(time.RFC3339, timeStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid datetime format. Use RFC3339.", err.Error()))
			return
		}
		at = parsed
	}
	duration := services.DefaultDiningDuration
	if durStr := c.Query("duration"); durStr != "" {
		minutes, err := strconv.Atoi(durStr)
		if err != nil || minutes <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid duration format.", "duration must be minutes, a positive integer"))
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	result, err := h.availabilityService.CheckTableAvailability(tableID, at, duration)
	if err != nil {
		utils.LogError(err, "CheckTableAvailability: Error from availabilityService.CheckTableAvailability")
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check table availability.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// CanAcceptImmediateOrder handles the walk-in check for one table.
func (h *AvailabilityHandler) CanAcceptImmediateOrder(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	canAccept, err := h.availabilityService.CanAcceptImmediateOrder(tableID)
	if err != nil {
		utils.LogError(err, "CanAcceptImmediateOrder: Error from availabilityService.CanAcceptImmediateOrder")
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": tableID, "can_accept_order": canAccept})
}

// FindAvailableTables handles the party-size search.
func (h *AvailabilityHandler) FindAvailableTables(c *gin.Context) {
	var req services.FindTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "FindAvailableTables: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	results, err := h.availabilityService.FindAvailableTables(req)
	if err != nil {
		utils.LogError(err, "FindAvailableTables: Error from availabilityService.FindAvailableTables")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid search parameters.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to find available tables.", "Internal error"))
		}
		return
	}
	if results == nil {
		results = []services.TableAvailabilityResult{}
	}
	c.JSON(http.StatusOK, gin.H{"available_tables": results, "count": len(results)})
}
