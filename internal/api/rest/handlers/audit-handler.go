package handlers

import (
	"io"

	"github.com/ComplyTrail/audit_service/internal/api/rest/middleware"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/helper/utils"
	"github.com/ComplyTrail/audit_service/internal/services"
	"github.com/ComplyTrail/audit_service/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuditHandler struct {
	svc services.AuditService
	log logrus.FieldLogger
}

func NewAuditHandler(svc services.AuditService, log logrus.FieldLogger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

func (h *AuditHandler) SetupUserRoutes(router fiber.Router) {
	router.Get("/audits", h.Get)
	router.Post("/audits", h.Post)
	router.All("/audits", methodNotAllowed)
}

func (h *AuditHandler) SetupAdminRoutes(router fiber.Router) {
	router.Get("/audits", h.Get)
	router.Post("/audits", h.Post)
	router.Put("/audits", h.AdminPut)
	router.All("/audits", methodNotAllowed)
}

// Get serves both single-audit fetch (?id=) and filtered listing.
// Ownership scoping happens in the service.
func (h *AuditHandler) Get(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	if id := queryUint(ctx, "id"); id != 0 {
		audit, err := h.svc.Get(p, id)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, audit)
	}

	filters := dto.AuditFilters{
		UserID: queryUint(ctx, "user_id"),
		Status: ctx.Query("status"),
		Type:   ctx.Query("type"),
	}
	limit := queryIntDefault(ctx, "limit", defaultListLimit)
	offset := queryIntDefault(ctx, "offset", 0)

	audits, err := h.svc.List(p, filters, limit, offset)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, audits)
}

// Post creates an audit, or runs an action (?id=&action=comment|update-status).
func (h *AuditHandler) Post(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "id")
	action := ctx.Query("action")
	if id != 0 && action != "" {
		switch action {
		case "comment":
			return h.addComment(ctx, id)
		case "update-status":
			return h.updateStatus(ctx, id)
		case "attachment":
			return h.addAttachment(ctx, id)
		default:
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid action")
		}
	}

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.AuditRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	audit, err := h.svc.Create(p, dto.AuditCreate{
		Title:       sanStr(result.Sanitized, "title"),
		Description: sanStr(result.Sanitized, "description"),
		Type:        sanStr(result.Sanitized, "type"),
		StartDate:   sanStr(result.Sanitized, "date"),
		Status:      sanStr(result.Sanitized, "status"),
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, audit)
}

func (h *AuditHandler) addComment(ctx *fiber.Ctx, auditID uint) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var body dto.CommentRequest
	if err := ctx.BodyParser(&body); err != nil || body.Comment == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid comment data")
	}

	comment, err := h.svc.AddComment(p, auditID, body.Comment)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, comment)
}

func (h *AuditHandler) updateStatus(ctx *fiber.Ctx, auditID uint) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var body dto.StatusUpdateRequest
	if err := ctx.BodyParser(&body); err != nil || body.Status == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid status data")
	}

	audit, err := h.svc.UpdateStatus(p, auditID, body.Status)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, audit)
}

func (h *AuditHandler) addAttachment(ctx *fiber.Ctx, auditID uint) error {
	p, _ := middleware.PrincipalFrom(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "No file uploaded")
	}
	if file.Size > maxAttachmentSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "File too large")
	}

	f, err := file.Open()
	if err != nil {
		h.log.WithError(err).Error("open uploaded file failed")
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "Failed to upload file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.WithError(err).Error("read uploaded file failed")
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "Failed to upload file")
	}

	attachment, err := h.svc.AddAttachment(ctx.Context(), p, auditID, dto.AttachmentUpload{
		FileName: file.Filename,
		FileType: file.Header.Get("Content-Type"),
		FileSize: file.Size,
		Data:     data,
	})
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, attachment)
}

// AdminPut updates an audit's allow-listed fields.
func (h *AuditHandler) AdminPut(ctx *fiber.Ctx) error {
	id := queryUint(ctx, "id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Audit ID is required")
	}

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, validation.AuditAdminUpdateRules())
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}
	// Sanitized values win over the raw payload; the repository drops
	// anything outside the allow-list.
	for k, v := range result.Sanitized {
		data[k] = v
	}

	audit, err := h.svc.AdminUpdate(id, data)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, audit)
}
