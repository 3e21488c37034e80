package controllers

import (
	"errors"
	"strings"

	"rack-wms/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// ErrorHandler renders every handler error as
// {"success": false, "code": ..., "error": ...}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"code":    httpCode(fe.Code),
				"error":   fe.Message,
			})
		}

		appErr := types.AsAppError(err)
		if appErr.Kind == types.KindStoreFailure && appErr.Err != nil {
			log.Error("unexpected error",
				zap.String("path", ctx.Path()),
				zap.Error(appErr.Err))
		}
		return ctx.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"success": false,
			"code":    appErr.Kind,
			"error":   appErr.Detail,
		})
	}
}

func httpCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(types.KindNotFound)
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	if status >= fiber.StatusInternalServerError {
		return string(types.KindStoreFailure)
	}
	return string(types.KindValidation)
}

func success(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// parseBody decodes and validates a JSON body. Validation failures name the
// offending fields.
func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return types.ValidationError("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" is "+fe.Tag())
			}
			return types.ValidationError("%s", strings.Join(fields, ", "))
		}
		return types.ValidationError("%s", err.Error())
	}
	return nil
}
