package middleware

import (
	"strings"

	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/helper"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer token into a Principal stored on
// the request context. Missing or invalid tokens end the request with
// 401 before any handler logic runs.
func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Get("Authorization"))

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized access",
			})
		}

		ctx.Locals(principalKey, access.Principal{
			ID:   claims.UserID,
			Role: claims.Role,
		})
		return ctx.Next()
	}
}

// PrincipalFrom returns the authenticated principal placed by
// AuthMiddleware.
func PrincipalFrom(ctx *fiber.Ctx) (access.Principal, bool) {
	p, ok := ctx.Locals(principalKey).(access.Principal)
	return p, ok && p.ID != 0
}

func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p, ok := PrincipalFrom(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized access",
			})
		}
		if !access.IsAdmin(p) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access forbidden. Admin privileges required.",
			})
		}
		return ctx.Next()
	}
}

func UserOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p, ok := PrincipalFrom(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized access",
			})
		}
		if !access.IsUser(p) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access forbidden. User privileges required.",
			})
		}
		return ctx.Next()
	}
}
