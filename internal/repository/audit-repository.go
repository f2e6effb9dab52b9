package repository

import (
	"errors"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(audit *domain.Audit) (*domain.Audit, error)
	GetByID(id uint) (*domain.Audit, error)
	Update(id uint, fields map[string]any) error
	List(filters dto.AuditFilters, limit, offset int) ([]domain.Audit, error)
	AddComment(comment *domain.AuditComment) (*domain.AuditComment, error)
	AddAttachment(att *domain.AuditAttachment) (*domain.AuditAttachment, error)
}

type auditRepository struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewAuditRepository(db *gorm.DB, log logrus.FieldLogger) AuditRepository {
	return &auditRepository{db: db, log: log}
}

func (r *auditRepository) Create(audit *domain.Audit) (*domain.Audit, error) {
	if audit.Status == "" {
		audit.Status = domain.AuditStatusPending
	}
	if err := r.db.Create(audit).Error; err != nil {
		r.log.WithError(err).Error("create audit failed")
		return nil, apperr.New(apperr.Persistence, "Failed to create audit")
	}
	return r.GetByID(audit.ID)
}

// GetByID hydrates the audit with its creator label, comments,
// attachments and compliance assessments.
func (r *auditRepository) GetByID(id uint) (*domain.Audit, error) {
	var audit domain.Audit
	err := r.db.
		Table("audits a").
		Select("a.*, u.username AS created_by_username").
		Joins("LEFT JOIN users u ON a.user_id = u.id").
		Where("a.id = ?", id).
		Take(&audit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Audit not found")
		}
		r.log.WithError(err).Error("fetch audit failed")
		return nil, apperr.New(apperr.Persistence, "failed to fetch audit")
	}

	audit.Comments = r.commentsFor(id)
	audit.Attachments = r.attachmentsFor(id)
	audit.ComplianceAssessments = r.assessmentsFor(id)
	return &audit, nil
}

var auditUpdatable = map[string]bool{
	"title":           true,
	"description":     true,
	"status":          true,
	"type":            true,
	"start_date":      true,
	"end_date":        true,
	"findings":        true,
	"recommendations": true,
}

func (r *auditRepository) Update(id uint, fields map[string]any) error {
	filtered := filterAllowed(fields, auditUpdatable)
	if len(filtered) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update audit")
	}

	res := r.db.Model(&domain.Audit{}).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		r.log.WithError(res.Error).Error("update audit failed")
		return apperr.New(apperr.Persistence, "Failed to update audit")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "Audit not found")
	}
	return nil
}

// List applies only the non-empty filters, newest first.
func (r *auditRepository) List(filters dto.AuditFilters, limit, offset int) ([]domain.Audit, error) {
	q := r.db.
		Table("audits a").
		Select("a.*, u.username AS created_by_username").
		Joins("LEFT JOIN users u ON a.user_id = u.id")

	if filters.UserID != 0 {
		q = q.Where("a.user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		q = q.Where("a.status = ?", filters.Status)
	}
	if filters.Type != "" {
		q = q.Where("a.type = ?", filters.Type)
	}

	var audits []domain.Audit
	err := q.Order("a.created_at DESC").Limit(limit).Offset(offset).Scan(&audits).Error
	if err != nil {
		r.log.WithError(err).Error("list audits failed")
		return []domain.Audit{}, apperr.New(apperr.Persistence, "failed to list audits")
	}
	if audits == nil {
		audits = []domain.Audit{}
	}
	return audits, nil
}

func (r *auditRepository) AddComment(comment *domain.AuditComment) (*domain.AuditComment, error) {
	if err := r.db.Create(comment).Error; err != nil {
		r.log.WithError(err).Error("add audit comment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to add comment")
	}

	var created domain.AuditComment
	err := r.db.
		Table("audit_comments ac").
		Select("ac.*, u.username AS username").
		Joins("LEFT JOIN users u ON ac.user_id = u.id").
		Where("ac.id = ?", comment.ID).
		Take(&created).Error
	if err != nil {
		r.log.WithError(err).Error("fetch audit comment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to add comment")
	}
	return &created, nil
}

func (r *auditRepository) AddAttachment(att *domain.AuditAttachment) (*domain.AuditAttachment, error) {
	if err := r.db.Create(att).Error; err != nil {
		r.log.WithError(err).Error("add audit attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to save attachment")
	}

	var created domain.AuditAttachment
	err := r.db.
		Table("audit_attachments aa").
		Select("aa.*, u.username AS uploaded_by_username").
		Joins("LEFT JOIN users u ON aa.uploaded_by = u.id").
		Where("aa.id = ?", att.ID).
		Take(&created).Error
	if err != nil {
		r.log.WithError(err).Error("fetch audit attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to save attachment")
	}
	return &created, nil
}

func (r *auditRepository) commentsFor(auditID uint) []domain.AuditComment {
	var comments []domain.AuditComment
	err := r.db.
		Table("audit_comments ac").
		Select("ac.*, u.username AS username").
		Joins("LEFT JOIN users u ON ac.user_id = u.id").
		Where("ac.audit_id = ?", auditID).
		Order("ac.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		r.log.WithError(err).Error("fetch audit comments failed")
		return []domain.AuditComment{}
	}
	if comments == nil {
		comments = []domain.AuditComment{}
	}
	return comments
}

func (r *auditRepository) attachmentsFor(auditID uint) []domain.AuditAttachment {
	var attachments []domain.AuditAttachment
	err := r.db.
		Table("audit_attachments aa").
		Select("aa.*, u.username AS uploaded_by_username").
		Joins("LEFT JOIN users u ON aa.uploaded_by = u.id").
		Where("aa.audit_id = ?", auditID).
		Order("aa.created_at DESC").
		Scan(&attachments).Error
	if err != nil {
		r.log.WithError(err).Error("fetch audit attachments failed")
		return []domain.AuditAttachment{}
	}
	if attachments == nil {
		attachments = []domain.AuditAttachment{}
	}
	return attachments
}

// assessmentsFor returns the audit's assessments joined with their
// requirement, standard and assessor labels, ordered by standard name
// then requirement code.
func (r *auditRepository) assessmentsFor(auditID uint) []domain.ComplianceAssessment {
	var assessments []domain.ComplianceAssessment
	err := r.db.
		Table("compliance_assessments ca").
		Select(`ca.*, cr.requirement_code, cr.description AS requirement_description,
			cs.name AS standard_name, cs.version AS standard_version,
			u.username AS assessed_by_username`).
		Joins("LEFT JOIN compliance_requirements cr ON ca.requirement_id = cr.id").
		Joins("LEFT JOIN compliance_standards cs ON cr.standard_id = cs.id").
		Joins("LEFT JOIN users u ON ca.assessed_by = u.id").
		Where("ca.audit_id = ?", auditID).
		Order("cs.name, cr.requirement_code").
		Scan(&assessments).Error
	if err != nil {
		r.log.WithError(err).Error("fetch compliance assessments failed")
		return []domain.ComplianceAssessment{}
	}
	if assessments == nil {
		assessments = []domain.ComplianceAssessment{}
	}
	return assessments
}
