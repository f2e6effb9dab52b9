package services

import (
	"context"
	"fmt"

	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/interfaces"
	"github.com/ComplyTrail/audit_service/internal/repository"
	"github.com/sirupsen/logrus"
)

// allowedAttachmentTypes is the attachment MIME whitelist: PDF, DOC and
// DOCX only.
var allowedAttachmentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type ReportService interface {
	Create(p access.Principal, input dto.ReportCreate, forceDraft bool) (*domain.Report, error)
	Get(p access.Principal, id uint) (*domain.Report, error)
	List(p access.Principal, filters dto.ReportFilters, limit, offset int) ([]domain.Report, error)
	UserUpdate(p access.Principal, id uint, input dto.UserReportUpdate) (*domain.Report, error)
	AdminReview(p access.Principal, id uint, input dto.AdminReportUpdate) (*domain.Report, error)
	AddAttachment(ctx context.Context, p access.Principal, reportID uint, upload dto.AttachmentUpload) (*domain.ReportAttachment, error)
}

type reportService struct {
	repo     repository.ReportRepository
	store    interfaces.FileStore
	producer interfaces.EventPublisher
	log      logrus.FieldLogger
}

func NewReportService(
	repo repository.ReportRepository,
	store interfaces.FileStore,
	producer interfaces.EventPublisher,
	log logrus.FieldLogger,
) ReportService {
	return &reportService{repo: repo, store: store, producer: producer, log: log}
}

// Create makes a new report. forceDraft is set for the user endpoint,
// where the initial status is always draft.
func (s *reportService) Create(p access.Principal, input dto.ReportCreate, forceDraft bool) (*domain.Report, error) {
	status := domain.ReportStatusDraft
	if !forceDraft && input.Status != "" {
		status = domain.ReportStatus(input.Status)
		switch status {
		case domain.ReportStatusDraft, domain.ReportStatusSubmitted,
			domain.ReportStatusApproved, domain.ReportStatusRejected:
		default:
			return nil, apperr.New(apperr.Validation, "Invalid report status")
		}
	}

	report := &domain.Report{
		Title:   input.Title,
		Content: input.Content,
		UserID:  p.ID,
		Status:  status,
	}
	if input.AuditID != 0 {
		auditID := input.AuditID
		report.AuditID = &auditID
	}
	return s.repo.Create(report)
}

func (s *reportService) Get(p access.Principal, id uint) (*domain.Report, error) {
	report, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, report.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	return report, nil
}

func (s *reportService) List(p access.Principal, filters dto.ReportFilters, limit, offset int) ([]domain.Report, error) {
	if !access.IsAdmin(p) {
		filters.UserID = p.ID
	}
	return s.repo.List(filters, limit, offset)
}

// UserUpdate lets the creator edit title/content while the report is in
// draft, and optionally submit it.
func (s *reportService) UserUpdate(p access.Principal, id uint, input dto.UserReportUpdate) (*domain.Report, error) {
	report, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if report.UserID != p.ID {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	if report.Status != domain.ReportStatusDraft {
		return nil, apperr.New(apperr.Validation, "Can only update draft reports")
	}

	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.Submit {
		fields["status"] = string(domain.ReportStatusSubmitted)
	}

	if err := s.repo.Update(id, fields); err != nil {
		return nil, err
	}

	if input.Submit {
		s.publish("report.submitted", report.ID, p.ID, string(domain.ReportStatusSubmitted))
	}
	return s.repo.GetByID(id)
}

// AdminReview applies an admin update. A requested status must be one
// of the review outcomes; the reviewer and review date are stamped with
// the status in the same transactional update.
func (s *reportService) AdminReview(p access.Principal, id uint, input dto.AdminReportUpdate) (*domain.Report, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.ReviewComments != nil {
		fields["review_comments"] = *input.ReviewComments
	}

	reviewed := false
	if input.Status != nil {
		requested := domain.ReportStatus(*input.Status)
		valid := false
		for _, outcome := range domain.ReviewOutcomes {
			if requested == outcome {
				valid = true
				break
			}
		}
		if !valid {
			return nil, apperr.New(apperr.Validation, "Invalid status for review action")
		}
		fields["status"] = string(requested)
		fields["reviewer_id"] = p.ID
		reviewed = true
	}

	if err := s.repo.Update(id, fields); err != nil {
		return nil, err
	}

	if reviewed {
		s.publish("report.reviewed", id, p.ID, *input.Status)
	}
	return s.repo.GetByID(id)
}

func (s *reportService) AddAttachment(ctx context.Context, p access.Principal, reportID uint, upload dto.AttachmentUpload) (*domain.ReportAttachment, error) {
	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, report.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	if !allowedAttachmentTypes[upload.FileType] {
		return nil, apperr.New(apperr.Validation, "Invalid file type")
	}

	path, err := s.store.SaveFile(ctx, "reports", upload.FileName, upload.Data)
	if err != nil {
		s.log.WithError(err).Error("store attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to upload file")
	}

	return s.repo.AddAttachment(&domain.ReportAttachment{
		ReportID:   reportID,
		FileName:   upload.FileName,
		FilePath:   path,
		FileType:   upload.FileType,
		FileSize:   upload.FileSize,
		UploadedBy: p.ID,
	})
}

func (s *reportService) publish(event string, reportID, actorID uint, status string) {
	if s.producer == nil {
		return
	}
	payload := fmt.Sprintf(`{"report_id":%d,"actor_id":%d,"status":"%s"}`, reportID, actorID, status)
	if err := s.producer.PublishMessage([]byte(event), []byte(payload)); err != nil {
		s.log.WithError(err).WithField("event", event).Warn("publish report event failed")
	}
}
