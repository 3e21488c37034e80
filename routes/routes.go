package routes

import (
	"rack-wms/config"
	"rack-wms/controllers"
	"rack-wms/middleware"
	"rack-wms/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
	Racks     *services.RackService
	JWTSecret string
}

func Setup(app *fiber.App, deps Dependencies) {
	health := controllers.NewHealthController(deps.DB)
	app.Get("/api/health", health.Health)

	auth := middleware.AuthMiddleware(deps.JWTSecret)
	SetupInventoryRoutes(app, controllers.NewInventoryController(deps.Inventory), auth)
	SetupRackRoutes(app, controllers.NewRackController(deps.Racks), auth)
}

func group(app *fiber.App, prefix string, auth fiber.Handler) fiber.Router {
	return app.Group(config.MAIN_ROUTES+prefix, auth)
}
