package routes

import (
	"rack-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupRackRoutes(app *fiber.App, controller *controllers.RackController, auth fiber.Handler) {
	api := group(app, "/racks", auth)

	api.Get("/", controller.GetRacks)
	api.Post("/", controller.CreateRack)
	api.Get("/template", controller.DownloadTemplate)
	api.Post("/import", controller.ImportRacks)
}
