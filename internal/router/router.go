package router

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/internal/services"
)

// Setup wires repositories, services and handlers and registers all routes
// under /api/v1.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	tableRepo := repositories.NewTableRepository(db)
	menuRepo := repositories.NewMenuItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	movementRepo := repositories.NewMovementRepository(db)

	// Services
	inventoryService := services.NewInventoryService(inventoryRepo, menuRepo, orderRepo, recipeRepo, movementRepo, db)
	orderService := services.NewOrderService(orderRepo, tableRepo, menuRepo, inventoryService, db)
	menuService := services.NewMenuService(menuRepo, recipeRepo)
	tableService := services.NewTableService(tableRepo)
	availabilityService := services.NewAvailabilityService(tableRepo, reservationRepo)
	reservationService := services.NewReservationService(reservationRepo, tableRepo)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	menuItemHandler := handlers.NewMenuItemHandler(menuService)
	tableHandler := handlers.NewTableHandler(tableService, availabilityService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	apiV1 := engine.Group("/api/v1")
	{
		SetupOrderRoutes(apiV1, orderHandler)
		SetupMenuItemRoutes(apiV1, menuItemHandler, inventoryHandler)
		SetupInventoryRoutes(apiV1, inventoryHandler)
		SetupTableRoutes(apiV1, tableHandler, availabilityHandler)
		SetupReservationRoutes(apiV1, reservationHandler)
	}
}
