package handlers

import (
	"github.com/ComplyTrail/audit_service/internal/api/rest/middleware"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/helper/utils"
	"github.com/ComplyTrail/audit_service/internal/services"
	"github.com/ComplyTrail/audit_service/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ComplianceHandler struct {
	svc services.ComplianceService
	log logrus.FieldLogger
}

func NewComplianceHandler(svc services.ComplianceService, log logrus.FieldLogger) *ComplianceHandler {
	return &ComplianceHandler{svc: svc, log: log}
}

func (h *ComplianceHandler) SetupAdminRoutes(router fiber.Router) {
	router.Get("/compliance", h.Get)
	router.Post("/compliance", h.Post)
	router.Put("/compliance", h.Put)
	router.All("/compliance", methodNotAllowed)
}

// Get dispatches on query params: summary+audit_id for the per-standard
// rollup, standard_id for one standard with requirements, audit_id for
// that audit's assessments, otherwise all standards.
func (h *ComplianceHandler) Get(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	if ctx.Query("summary") != "" {
		auditID := queryUint(ctx, "audit_id")
		if auditID == 0 {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Audit ID is required")
		}
		summary, err := h.svc.Summary(p, auditID)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, summary)
	}

	if id := queryUint(ctx, "standard_id"); id != 0 {
		standard, err := h.svc.GetStandard(p, id)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, standard)
	}

	if auditID := queryUint(ctx, "audit_id"); auditID != 0 {
		assessments, err := h.svc.AssessmentsByAudit(p, auditID)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, assessments)
	}

	standards, err := h.svc.ListStandards(p)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, standards)
}

func (h *ComplianceHandler) Post(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "create_assessment":
		return h.createAssessment(ctx)
	case "create_standard":
		return h.createStandard(ctx)
	case "create_requirement":
		return h.createRequirement(ctx)
	default:
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid action")
	}
}

func (h *ComplianceHandler) createAssessment(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.AssessmentRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	assessment, err := h.svc.CreateAssessment(p, dto.AssessmentCreate{
		RequirementID: sanUint(result.Sanitized, "requirement_id"),
		AuditID:       sanUint(result.Sanitized, "audit_id"),
		Status:        sanStr(result.Sanitized, "status"),
		Evidence:      sanStr(result.Sanitized, "evidence"),
		Notes:         sanStr(result.Sanitized, "notes"),
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, assessment)
}

func (h *ComplianceHandler) createStandard(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.StandardRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	standard, err := h.svc.CreateStandard(p, dto.StandardCreate{
		Name:    sanStr(result.Sanitized, "name"),
		Version: sanStr(result.Sanitized, "version"),
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, standard)
}

func (h *ComplianceHandler) createRequirement(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.RequirementRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	requirement, err := h.svc.CreateRequirement(p, dto.RequirementCreate{
		StandardID:      sanUint(result.Sanitized, "standard_id"),
		RequirementCode: sanStr(result.Sanitized, "requirement_code"),
		Description:     sanStr(result.Sanitized, "description"),
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, requirement)
}

// Put updates an assessment's status, evidence or notes.
func (h *ComplianceHandler) Put(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "assessment_id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Assessment ID is required")
	}

	var body dto.AssessmentUpdate
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	assessment, err := h.svc.UpdateAssessment(p, id, body)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, assessment)
}
