package services

import (
	"context"
	"strings"

	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/interfaces"
	"github.com/ComplyTrail/audit_service/internal/repository"
	"github.com/sirupsen/logrus"
)

type AuditService interface {
	Create(p access.Principal, input dto.AuditCreate) (*domain.Audit, error)
	Get(p access.Principal, id uint) (*domain.Audit, error)
	List(p access.Principal, filters dto.AuditFilters, limit, offset int) ([]domain.Audit, error)
	AdminUpdate(id uint, fields map[string]any) (*domain.Audit, error)
	AddComment(p access.Principal, auditID uint, comment string) (*domain.AuditComment, error)
	UpdateStatus(p access.Principal, auditID uint, status string) (*domain.Audit, error)
	AddAttachment(ctx context.Context, p access.Principal, auditID uint, upload dto.AttachmentUpload) (*domain.AuditAttachment, error)
}

type auditService struct {
	repo  repository.AuditRepository
	store interfaces.FileStore
	log   logrus.FieldLogger
}

func NewAuditService(repo repository.AuditRepository, store interfaces.FileStore, log logrus.FieldLogger) AuditService {
	return &auditService{repo: repo, store: store, log: log}
}

func (s *auditService) Create(p access.Principal, input dto.AuditCreate) (*domain.Audit, error) {
	allowed, known := access.HasPermission(p, access.PermCreateAudits)
	if !known {
		s.log.WithField("permission", access.PermCreateAudits).Warn("undefined permission check")
	}
	if !allowed {
		return nil, apperr.New(apperr.Authorization, "Permission denied")
	}

	audit := &domain.Audit{
		Title:       input.Title,
		Description: input.Description,
		UserID:      p.ID,
		Status:      domain.AuditStatus(input.Status),
		Type:        input.Type,
		StartDate:   input.StartDate,
	}
	return s.repo.Create(audit)
}

func (s *auditService) Get(p access.Principal, id uint) (*domain.Audit, error) {
	audit, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, audit.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	return audit, nil
}

// List scopes non-admin callers to their own audits regardless of the
// requested filters.
func (s *auditService) List(p access.Principal, filters dto.AuditFilters, limit, offset int) ([]domain.Audit, error) {
	if !access.IsAdmin(p) {
		filters.UserID = p.ID
	}
	return s.repo.List(filters, limit, offset)
}

func (s *auditService) AdminUpdate(id uint, fields map[string]any) (*domain.Audit, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *auditService) AddComment(p access.Principal, auditID uint, comment string) (*domain.AuditComment, error) {
	audit, err := s.repo.GetByID(auditID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, audit.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, apperr.New(apperr.Validation, "Invalid comment data")
	}

	return s.repo.AddComment(&domain.AuditComment{
		AuditID: auditID,
		UserID:  p.ID,
		Comment: comment,
	})
}

func (s *auditService) AddAttachment(ctx context.Context, p access.Principal, auditID uint, upload dto.AttachmentUpload) (*domain.AuditAttachment, error) {
	audit, err := s.repo.GetByID(auditID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, audit.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}
	if !allowedAttachmentTypes[upload.FileType] {
		return nil, apperr.New(apperr.Validation, "Invalid file type")
	}

	path, err := s.store.SaveFile(ctx, "audits", upload.FileName, upload.Data)
	if err != nil {
		s.log.WithError(err).Error("store attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to upload file")
	}

	return s.repo.AddAttachment(&domain.AuditAttachment{
		AuditID:    auditID,
		FileName:   upload.FileName,
		FilePath:   path,
		FileType:   upload.FileType,
		FileSize:   upload.FileSize,
		UploadedBy: p.ID,
	})
}

// UpdateStatus is the owner-facing transition action; only the
// in_progress and completed targets are allowed.
func (s *auditService) UpdateStatus(p access.Principal, auditID uint, status string) (*domain.Audit, error) {
	audit, err := s.repo.GetByID(auditID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessResource(p, audit.UserID) {
		return nil, apperr.New(apperr.Authorization, "Access denied")
	}

	requested := domain.AuditStatus(status)
	valid := false
	for _, allowed := range domain.UserAllowedAuditStatuses {
		if requested == allowed {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperr.New(apperr.Validation, "Invalid status transition")
	}

	if err := s.repo.Update(auditID, map[string]any{"status": string(requested)}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(auditID)
}
