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

// maxAttachmentSize caps uploaded attachment size at 10MB.
const maxAttachmentSize = 10 * 1024 * 1024

type ReportHandler struct {
	svc services.ReportService
	log logrus.FieldLogger
}

func NewReportHandler(svc services.ReportService, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log}
}

func (h *ReportHandler) SetupUserRoutes(router fiber.Router) {
	router.Get("/reports", h.Get)
	router.Post("/reports", h.UserPost)
	router.Put("/reports", h.UserPut)
	router.All("/reports", methodNotAllowed)
}

func (h *ReportHandler) SetupAdminRoutes(router fiber.Router) {
	router.Get("/reports", h.Get)
	router.Post("/reports", h.AdminPost)
	router.Put("/reports", h.AdminPut)
	router.All("/reports", methodNotAllowed)
}

func (h *ReportHandler) Get(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	if id := queryUint(ctx, "id"); id != 0 {
		report, err := h.svc.Get(p, id)
		if err != nil {
			return utils.RespondAppError(ctx, err)
		}
		return utils.ResponseSuccess(ctx, fiber.StatusOK, report)
	}

	filters := dto.ReportFilters{
		UserID:  queryUint(ctx, "user_id"),
		Status:  ctx.Query("status"),
		AuditID: queryUint(ctx, "audit_id"),
	}
	limit := queryIntDefault(ctx, "limit", defaultListLimit)
	offset := queryIntDefault(ctx, "offset", 0)

	reports, err := h.svc.List(p, filters, limit, offset)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reports)
}

// UserPost creates a draft report, or uploads an attachment when
// ?id=&action=attachment is present.
func (h *ReportHandler) UserPost(ctx *fiber.Ctx) error {
	if id := queryUint(ctx, "id"); id != 0 && ctx.Query("action") != "" {
		if ctx.Query("action") != "attachment" {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid action")
		}
		return h.addAttachment(ctx, id)
	}
	return h.create(ctx, validation.UserReportRules(), true)
}

func (h *ReportHandler) AdminPost(ctx *fiber.Ctx) error {
	if id := queryUint(ctx, "id"); id != 0 && ctx.Query("action") != "" {
		if ctx.Query("action") != "attachment" {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid action")
		}
		return h.addAttachment(ctx, id)
	}
	return h.create(ctx, validation.ReportRules(), false)
}

func (h *ReportHandler) create(ctx *fiber.Ctx, rules validation.RuleSet, forceDraft bool) error {
	p, _ := middleware.PrincipalFrom(ctx)

	var data map[string]any
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	result := validation.Validate(data, rules)
	if !result.IsValid {
		return utils.ResponseErrorDetails(ctx, fiber.StatusBadRequest, "Validation failed", result.Errors)
	}

	report, err := h.svc.Create(p, dto.ReportCreate{
		Title:   sanStr(result.Sanitized, "title"),
		Content: sanStr(result.Sanitized, "content"),
		AuditID: sanUint(result.Sanitized, "audit_id"),
		Status:  sanStr(result.Sanitized, "status"),
	}, forceDraft)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, report)
}

// UserPut edits or submits an owned draft report.
func (h *ReportHandler) UserPut(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Report ID is required")
	}

	var body dto.UserReportUpdate
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	report, err := h.svc.UserUpdate(p, id, body)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, report)
}

// AdminPut applies a review action or other allow-listed updates.
func (h *ReportHandler) AdminPut(ctx *fiber.Ctx) error {
	p, _ := middleware.PrincipalFrom(ctx)

	id := queryUint(ctx, "id")
	if id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Report ID is required")
	}

	var body dto.AdminReportUpdate
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid JSON data")
	}

	report, err := h.svc.AdminReview(p, id, body)
	if err != nil {
		return utils.RespondAppError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, report)
}

func (h *ReportHandler) addAttachment(ctx *fiber.Ctx, reportID uint) error {
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

	attachment, err := h.svc.AddAttachment(ctx.Context(), p, reportID, dto.AttachmentUpload{
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
