package controllers

import (
	"strings"

	"rack-wms/reports"
	"rack-wms/services"
	"rack-wms/types"

	"github.com/gofiber/fiber/v2"
)

type RackController struct {
	Service *services.RackService
}

func NewRackController(service *services.RackService) *RackController {
	return &RackController{Service: service}
}

type createRackRequest struct {
	RackCode  string `json:"rackCode" validate:"required"`
	ZoneType  string `json:"zoneType"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
	CreatedBy string `json:"createdBy"`
}

func (c *RackController) GetRacks(ctx *fiber.Ctx) error {
	racks, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, racks)
}

func (c *RackController) CreateRack(ctx *fiber.Ctx) error {
	var payload createRackRequest
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	rack, err := c.Service.Create(ctx.UserContext(), payload.RackCode, payload.ZoneType, payload.Capacity, actor(ctx, payload.CreatedBy))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusCreated, rack)
}

// ImportRacks takes a multipart xlsx upload in field "file".
func (c *RackController) ImportRacks(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return types.ValidationError("File is required")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		return types.ValidationError("Only Excel files (.xlsx) are allowed")
	}

	content, err := file.Open()
	if err != nil {
		return types.StoreFailure(err)
	}
	defer content.Close()

	summary, err := c.Service.Import(ctx.UserContext(), content, actor(ctx, ""))
	if err != nil {
		return err
	}
	return success(ctx, fiber.StatusOK, summary)
}

func (c *RackController) DownloadTemplate(ctx *fiber.Ctx) error {
	f, err := reports.RackTemplate()
	if err != nil {
		return types.StoreFailure(err)
	}
	return sendWorkbook(ctx, f, "rack-template.xlsx")
}
