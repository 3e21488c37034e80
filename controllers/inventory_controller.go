package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rack-wms/middleware"
	"rack-wms/reports"
	"rack-wms/services"
	"rack-wms/types"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type InventoryController struct {
	Service *services.InventoryService
}

func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{Service: service}
}

type upsertInventoryRequest struct {
	ProductID      uint              `json:"productId" validate:"required"`
	LocationID     uint              `json:"locationId" validate:"required"`
	Quantity       types.RawQuantity `json:"quantity"`
	LotNumber      string            `json:"lotNumber"`
	SerialNumber   string            `json:"serialNumber"`
	ExpiryDate     string            `json:"expiryDate"`
	Classification string            `json:"classification"`
	TxnType        string            `json:"txnType"`
	ReferenceType  string            `json:"referenceType"`
	ReferenceID    string            `json:"referenceId"`
	Reason         string            `json:"reason"`
	UpdatedBy      string            `json:"updatedBy"`
}

type putawayRequest struct {
	LicensePlate   string `json:"licensePlate" validate:"required"`
	RackCode       string `json:"rackCode"`
	TargetRackCode string `json:"targetRackCode"`
	UpdatedBy      string `json:"updatedBy"`
}

type dispatchRequest struct {
	LicensePlate       string            `json:"licensePlate" validate:"required"`
	QuantityToDispatch types.RawQuantity `json:"quantityToDispatch"`
	UpdatedBy          string            `json:"updatedBy"`
}

// actor prefers the authenticated caller over the name sent in the body.
func actor(ctx *fiber.Ctx, fromBody string) string {
	if a := middleware.Actor(ctx); a != "" {
		return a
	}
	return strings.TrimSpace(fromBody)
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, types.ValidationError("expiryDate must be YYYY-MM-DD or RFC 3339, got %q", raw)
}

func (c *InventoryController) GetInventory(ctx *fiber.Ctx) error {
	views, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, views)
}

func (c *InventoryController) GetInventoryByLocation(ctx *fiber.Ctx) error {
	locationID, err := strconv.ParseUint(ctx.Params("locationId"), 10, 64)
	if err != nil || locationID == 0 {
		return types.ValidationError("locationId must be a positive integer")
	}
	views, err := c.Service.ListByLocation(ctx.UserContext(), uint(locationID))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, views)
}

func (c *InventoryController) GetPutawayQueue(ctx *fiber.Ctx) error {
	views, err := c.Service.PutawayQueue(ctx.UserContext())
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, views)
}

func (c *InventoryController) GetPutawaySuggestion(ctx *fiber.Ctx) error {
	suggestion, err := c.Service.SuggestRack(ctx.UserContext(), ctx.Params("licensePlate"))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, suggestion)
}

func (c *InventoryController) UpsertInventory(ctx *fiber.Ctx) error {
	var payload upsertInventoryRequest
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	expiry, err := parseExpiry(payload.ExpiryDate)
	if err != nil {
		return err
	}

	view, err := c.Service.UpsertBalance(ctx.UserContext(), services.UpsertRequest{
		ProductID:      payload.ProductID,
		LocationID:     payload.LocationID,
		Quantity:       payload.Quantity,
		LotNumber:      payload.LotNumber,
		SerialNumber:   payload.SerialNumber,
		ExpiryDate:     expiry,
		Classification: payload.Classification,
		TxnType:        payload.TxnType,
		ReferenceType:  payload.ReferenceType,
		ReferenceID:    payload.ReferenceID,
		Reason:         payload.Reason,
		Actor:          actor(ctx, payload.UpdatedBy),
	})
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, view)
}

func (c *InventoryController) Putaway(ctx *fiber.Ctx) error {
	var payload putawayRequest
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	rackCode := strings.TrimSpace(payload.RackCode)
	if rackCode == "" {
		rackCode = strings.TrimSpace(payload.TargetRackCode)
	}
	if rackCode == "" {
		return types.ValidationError("rackCode is required")
	}

	view, err := c.Service.Putaway(ctx.UserContext(), payload.LicensePlate, rackCode, actor(ctx, payload.UpdatedBy))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("License Plate %s stored in rack %s", strings.TrimSpace(payload.LicensePlate), rackCode),
		"data":    view,
	})
}

func (c *InventoryController) Dispatch(ctx *fiber.Ctx) error {
	var payload dispatchRequest
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	qty, err := types.ParseQuantity(payload.QuantityToDispatch, false)
	if err != nil {
		return err
	}

	result, err := c.Service.Dispatch(ctx.UserContext(), payload.LicensePlate, qty, actor(ctx, payload.UpdatedBy))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": result.Message,
		"data":    result,
	})
}

func (c *InventoryController) GetDispatchHistory(ctx *fiber.Ctx) error {
	records, err := c.Service.DispatchHistory(ctx.UserContext(), ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, records)
}

func (c *InventoryController) GetLowStock(ctx *fiber.Ctx) error {
	views, err := c.Service.LowStock(ctx.UserContext())
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, views)
}

func (c *InventoryController) GetTransactions(ctx *fiber.Ctx) error {
	txns, err := c.Service.Transactions(ctx.UserContext(), ctx.Params("licensePlate"))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, txns)
}

func (c *InventoryController) DeleteInventory(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("id"))
	if err != nil {
		return types.ValidationError("id must be a numeric inventory id")
	}
	result, err := c.Service.Delete(ctx.UserContext(), id, middleware.Actor(ctx))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": result.Message,
		"data":    result,
	})
}

// ExportExcel streams every balance as a workbook.
func (c *InventoryController) ExportExcel(ctx *fiber.Ctx) error {
	views, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	f, err := reports.BalancesWorkbook(views)
	if err != nil {
		return types.StoreFailure(err)
	}
	return sendWorkbook(ctx, f, "inventory.xlsx")
}

func (c *InventoryController) ExportDispatchHistory(ctx *fiber.Ctx) error {
	records, err := c.Service.DispatchHistory(ctx.UserContext(), ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	f, err := reports.DispatchHistoryWorkbook(records)
	if err != nil {
		return types.StoreFailure(err)
	}
	return sendWorkbook(ctx, f, "dispatch-history.xlsx")
}

func sendWorkbook(ctx *fiber.Ctx, f *excelize.File, filename string) error {
	body, err := reports.Bytes(f)
	if err != nil {
		return types.StoreFailure(err)
	}
	ctx.Set("Content-Type", reports.ContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Status(fiber.StatusOK).Send(body)
}
