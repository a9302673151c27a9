package router

import (
	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/handlers"
)

// SetupOrderRoutes sets up the order lifecycle routes.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := apiGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/today", orderHandler.GetTodaysOrders)
		orderRoutes.GET("/statistics", orderHandler.GetOrderStatistics)
		orderRoutes.GET("/kitchen/display", orderHandler.GetKitchenOrders)
		orderRoutes.GET("/status/:status", orderHandler.GetOrdersByStatus)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PUT("/:id", orderHandler.UpdateOrder)
		orderRoutes.DELETE("/:id", orderHandler.CancelOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.GET("/:id/preparation-time", orderHandler.GetOrderPreparationTime)
		orderRoutes.POST("/:id/items", orderHandler.AddItemsToOrder)
		orderRoutes.DELETE("/:id/items/:itemId", orderHandler.RemoveItemFromOrder)
		orderRoutes.PATCH("/:id/items/:itemId/status", orderHandler.UpdateOrderItemStatus)
	}
}

// SetupMenuItemRoutes sets up the menu item and recipe routes.
func SetupMenuItemRoutes(apiGroup *gin.RouterGroup, menuItemHandler *handlers.MenuItemHandler, inventoryHandler *handlers.InventoryHandler) {
	menuRoutes := apiGroup.Group("/menu-items")
	{
		menuRoutes.POST("", menuItemHandler.CreateMenuItem)
		menuRoutes.GET("", menuItemHandler.GetMenuItems)
		menuRoutes.GET("/:id", menuItemHandler.GetMenuItemByID)
		menuRoutes.PUT("/:id", menuItemHandler.UpdateMenuItem)
		menuRoutes.DELETE("/:id", menuItemHandler.DeleteMenuItem)
		menuRoutes.GET("/:id/recipes", menuItemHandler.GetRecipesByMenuItem)
		menuRoutes.GET("/:id/availability", inventoryHandler.CheckMenuItemAvailability)
	}

	recipeRoutes := apiGroup.Group("/recipes")
	{
		recipeRoutes.POST("", menuItemHandler.CreateRecipe)
		recipeRoutes.PUT("/:id", menuItemHandler.UpdateRecipe)
		recipeRoutes.DELETE("/:id", menuItemHandler.DeleteRecipe)
	}
}

// SetupInventoryRoutes sets up the inventory routes.
func SetupInventoryRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := apiGroup.Group("/inventory")
	{
		inventoryRoutes.POST("", inventoryHandler.CreateInventoryItem)
		inventoryRoutes.GET("", inventoryHandler.GetInventoryItems)
		inventoryRoutes.GET("/alerts/low-stock", inventoryHandler.GetLowStockAlerts)
		inventoryRoutes.GET("/statistics", inventoryHandler.GetInventoryStatistics)
		inventoryRoutes.GET("/movements", inventoryHandler.GetInventoryMovements)
		inventoryRoutes.POST("/bulk", inventoryHandler.BulkUpdateInventory)
		inventoryRoutes.GET("/:id", inventoryHandler.GetInventoryItemByID)
		inventoryRoutes.PUT("/:id", inventoryHandler.UpdateInventoryItem)
		inventoryRoutes.DELETE("/:id", inventoryHandler.DeleteInventoryItem)
		inventoryRoutes.PATCH("/:id/quantity", inventoryHandler.UpdateInventoryQuantity)
	}
}

// SetupTableRoutes sets up the table and availability routes.
func SetupTableRoutes(apiGroup *gin.RouterGroup, tableHandler *handlers.TableHandler, availabilityHandler *handlers.AvailabilityHandler) {
	tableRoutes := apiGroup.Group("/tables")
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/status", tableHandler.GetAllTablesStatus)
		tableRoutes.POST("/availability/search", availabilityHandler.FindAvailableTables)
		tableRoutes.GET("/availability/:id", availabilityHandler.CheckTableAvailability)
		tableRoutes.GET("/availability/:id/immediate", availabilityHandler.CanAcceptImmediateOrder)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
		tableRoutes.PUT("/:id", tableHandler.UpdateTable)
		tableRoutes.DELETE("/:id", tableHandler.DeleteTable)
		tableRoutes.GET("/:id/status", tableHandler.GetTableStatus)
		tableRoutes.PATCH("/:id/status", tableHandler.UpdateTableStatus)
	}
}

// SetupReservationRoutes sets up the reservation routes.
func SetupReservationRoutes(apiGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservationRoutes := apiGroup.Group("/reservations")
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/:id", reservationHandler.GetReservationByID)
		reservationRoutes.PUT("/:id", reservationHandler.UpdateReservation)
		reservationRoutes.PATCH("/:id/status", reservationHandler.UpdateReservationStatus)
		reservationRoutes.DELETE("/:id", reservationHandler.DeleteReservation)
	}
}
