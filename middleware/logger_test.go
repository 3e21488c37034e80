package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"rack-wms/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func loggedApp(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := types.AsAppError(err)
			return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Kind,
				"error":   appErr.Detail,
			})
		},
	})
	app.Use(RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/full", func(c *fiber.Ctx) error {
		return types.CapacityExceeded("rack A-1-1 is full")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return types.NotFound("License Plate LP-1 not found")
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return errors.New("connection reset")
	})
	return app
}

func TestRequestLoggerRecordsRenderedStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/ok", fiber.StatusOK, zapcore.InfoLevel},
		{"/full", fiber.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"/missing", fiber.StatusNotFound, zapcore.WarnLevel},
		{"/broken", fiber.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			app := loggedApp(zap.New(core))

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.EqualValues(t, tt.status, entries[0].ContextMap()["status"])
			assert.Equal(t, tt.path, entries[0].ContextMap()["path"])
		})
	}
}
