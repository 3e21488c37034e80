package routes

import (
	"rack-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController, auth fiber.Handler) {
	api := group(app, "/inventory", auth)

	api.Get("/", inventoryController.GetInventory)
	api.Post("/", inventoryController.UpsertInventory)
	api.Get("/excel", inventoryController.ExportExcel)
	api.Get("/location/:locationId", inventoryController.GetInventoryByLocation)
	api.Get("/putaway-queue", inventoryController.GetPutawayQueue)
	api.Get("/putaway-suggestion/:licensePlate", inventoryController.GetPutawaySuggestion)
	api.Post("/putaway", inventoryController.Putaway)
	api.Post("/dispatch", inventoryController.Dispatch)
	api.Get("/dispatch-history", inventoryController.GetDispatchHistory)
	api.Get("/dispatch-history/excel", inventoryController.ExportDispatchHistory)
	api.Get("/alerts/low-stock", inventoryController.GetLowStock)
	api.Get("/transactions/:licensePlate", inventoryController.GetTransactions)
	api.Delete("/:id", inventoryController.DeleteInventory)
}
