package handlers

import (
	"github.com/ComplyTrail/audit_service/internal/api/rest/middleware"
	"github.com/ComplyTrail/audit_service/internal/helper/utils"
	"github.com/ComplyTrail/audit_service/internal/services"
	"github.com/ComplyTrail/audit_service/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserAdminHandler is the admin account-management surface.
type UserAdminHandler struct {
	svc services.UserService
	log logrus.FieldLogger
}

func NewUserAdminHandler(svc services.UserService, log logrus.FieldLogger) *UserAdminHandler {
	return &UserAdminHandler{svc: svc, log: log}
}

func (h *UserAdminHandler) SetupAdminRoutes(router fiber.Router) {
	router.Get("/users", h.Get)
	router.Put("/users", h.Put)
	router.Delete("/users", h.Delete)
	router.All("/users", methodNotAllowed)
}

func (h *UserAdminHandler) Get(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	if id := queryUint(ctx, "id"); id != 0 {
		user, err := h.svc.GetUser(p, id)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
	}

	limit := queryIntDefault(ctx, "limit", defaultListLimit)
	offset := queryIntDefault(ctx, "offset", 0)

	users, err := h.svc.ListUsers(p, limit, offset)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserAdminHandler) Put(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "User ID is required")
	}

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.UserAdminUpdateRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}
	for k, v := range result.Sanitized {
		data[k] = v
	}

	user, err := h.svc.UpdateUser(p, id, data)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserAdminHandler) Delete(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "User ID is required")
	}

	if err := h.svc.DeleteUser(p, id); err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"deleted": id})
}
