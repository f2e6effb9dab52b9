package handlers

import (
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/helper/utils"
	"github.com/ComplyTrail/audit_service/internal/services"
	"github.com/ComplyTrail/audit_service/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	svc services.UserService
	log logrus.FieldLogger
}

func NewAuthHandler(svc services.UserService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.All("/signup", methodNotAllowed)
	auth.All("/login", methodNotAllowed)
}

func (h *AuthHandler) Signup(ctx *fiber.Ctx) error {
	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.UserRegistrationRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	password, _ := data["password"].(string)
	role, _ := data["role"].(string)

	resp, err := h.svc.Register(dto.RegisterRequest{
		Username: sanStr(result.Sanitized, "username"),
		Email:    sanStr(result.Sanitized, "email"),
		Password: password,
		Role:     role,
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.UserLoginRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	password, _ := data["password"].(string)

	resp, err := h.svc.Login(dto.LoginRequest{
		Email:    sanStr(result.Sanitized, "email"),
		Password: password,
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(resp)
}
