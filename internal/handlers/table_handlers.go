package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// TableHandler holds the table and availability services.
type TableHandler struct {
	tableService        services.TableService
	availabilityService services.AvailabilityService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService, as services.AvailabilityService) *TableHandler {
	return &TableHandler{tableService: ts, availabilityService: as}
}

// CreateTable handles creating a table record.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.LogError(err, "CreateTable: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.tableService.CreateTable(&table)
	if err != nil {
		utils.LogError(err, "CreateTable: Error from tableService.CreateTable")
		switch {
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTableStatusValue):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table data.", err.Error()))
		case errors.Is(err, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Table number already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTables handles listing all tables.
func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables()
	if err != nil {
		utils.LogError(err, "GetTables: Error from tableService.GetTables")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch tables.", "Internal error"))
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}
	c.JSON(http.StatusOK, gin.H{"data": tables})
}

// GetTableByID handles fetching one table.
func (h *TableHandler) GetTableByID(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	table, err := h.tableService.GetTableByID(tableID)
	if err != nil {
		utils.LogError(err, "GetTableByID: Error from tableService.GetTableByID")
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTable handles replacing a table's fields.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		utils.LogError(err, "UpdateTable: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, err := h.tableService.UpdateTable(tableID, &table)
	if err != nil {
		utils.LogError(err, "UpdateTable: Error from tableService.UpdateTable")
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTableStatusValue):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table data.", err.Error()))
		case errors.Is(err, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Table number already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTable handles deleting a table with no orders or reservations.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tableService.DeleteTable(tableID); err != nil {
		utils.LogError(err, "DeleteTable: Error from tableService.DeleteTable")
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrTableInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Table is referenced by orders or reservations.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted successfully"})
}

// GetAllTablesStatus handles the floor overview: every table with its
// derived occupancy.
func (h *TableHandler) GetAllTablesStatus(c *gin.Context) {
	statuses, err := h.availabilityService.GetAllTablesStatus()
	if err != nil {
		utils.LogError(err, "GetAllTablesStatus: Error from availabilityService.GetAllTablesStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch table statuses.", "Internal error"))
		return
	}
	if statuses == nil {
		statuses = []models.TableStatusInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"data": statuses})
}

// GetTableStatus handles the derived status of one table.
func (h *TableHandler) GetTableStatus(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.availabilityService.GetTableStatus(tableID)
	if err != nil {
		utils.LogError(err, "GetTableStatus: Error from availabilityService.GetTableStatus")
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch table status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, status)
}

// UpdateTableStatus handles a manual override of the coarse status.
func (h *TableHandler) UpdateTableStatus(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateTableStatus: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	table, err := h.availabilityService.UpdateTableStatus(tableID, req)
	if err != nil {
		utils.LogError(err, "UpdateTableStatus: Error from availabilityService.UpdateTableStatus")
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidTableStatusValue):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table status.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update table status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, table)
}
