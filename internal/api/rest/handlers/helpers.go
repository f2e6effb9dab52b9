package handlers

import (
	"strconv"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

const defaultListLimit = 10

// methodNotAllowed is the trailing fallback each route table registers
// after its method handlers; it catches the remaining verbs on a known
// path.
func methodNotAllowed(ctx *fiber.Ctx) error {
	return utils.RespondAppError(ctx, apperr.New(apperr.MethodNotAllowed, "Method not allowed"))
}

func queryUint(ctx *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func queryIntDefault(ctx *fiber.Ctx, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func sanStr(sanitized map[string]any, key string) string {
	if s, ok := sanitized[key].(string); ok {
		return s
	}
	return ""
}

func sanUint(sanitized map[string]any, key string) uint {
	s := sanStr(sanitized, key)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
