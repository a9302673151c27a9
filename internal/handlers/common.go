package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_backend/pkg/utils"
)

// parseIDParam parses a positive int64 path parameter. On failure it writes
// the 400 response itself and returns ok=false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	idStr := c.Param(name)
	id, err := utils.StrToInt64(idStr)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid "+name+" parameter.", "expected a positive integer, got "+idStr))
		return 0, false
	}
	return id, true
}

// parsePagination reads page/page_size query parameters with defaults.
func parsePagination(c *gin.Context) (page, pageSize int, ok bool) {
	page, pageSize = 1, 10
	if pageStr := c.Query("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
				"Invalid page format.", "page must be a positive integer"))
			return 0, 0, false
		}
		page = p
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
				"Invalid page_size format.", "page_size must be a positive integer"))
			return 0, 0, false
		}
		pageSize = ps
	}
	return page, pageSize, true
}
