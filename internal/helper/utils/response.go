package utils

import (
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseErrorDetails(ctx *fiber.Ctx, status int, msg string, details map[string]string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error":   msg,
		"details": details,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// RespondAppError maps a taxonomy error to the wire envelope. Anything
// outside the taxonomy is reported as an opaque internal error; the
// caller is responsible for logging the diagnostic.
func RespondAppError(ctx *fiber.Ctx, err error) error {
	status := apperr.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		return ResponseError(ctx, status, "Internal server error")
	}
	if details := apperr.DetailsOf(err); details != nil {
		return ResponseErrorDetails(ctx, status, err.Error(), details)
	}
	return ResponseError(ctx, status, err.Error())
}
