package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health reports whether the database answers a ping.
func (c *HealthController) Health(ctx *fiber.Ctx) error {
	status, code := "ok", fiber.StatusOK
	sqlDB, err := c.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return ctx.Status(code).JSON(fiber.Map{
		"success": err == nil,
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
