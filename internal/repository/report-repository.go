package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(report *domain.Report) (*domain.Report, error)
	GetByID(id uint) (*domain.Report, error)
	Update(id uint, fields map[string]any) error
	List(filters dto.ReportFilters, limit, offset int) ([]domain.Report, error)
	AddAttachment(att *domain.ReportAttachment) (*domain.ReportAttachment, error)
}

type reportRepository struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewReportRepository(db *gorm.DB, log logrus.FieldLogger) ReportRepository {
	return &reportRepository{db: db, log: log}
}

func (r *reportRepository) Create(report *domain.Report) (*domain.Report, error) {
	if report.Status == "" {
		report.Status = domain.ReportStatusDraft
	}
	if report.Status == domain.ReportStatusSubmitted && report.SubmissionDate == nil {
		now := time.Now()
		report.SubmissionDate = &now
	}

	if err := r.db.Create(report).Error; err != nil {
		r.log.WithError(err).Error("create report failed")
		return nil, apperr.New(apperr.Persistence, "Failed to create report")
	}
	return r.GetByID(report.ID)
}

// GetByID hydrates the report with its creator/reviewer/audit labels
// and attachments.
func (r *reportRepository) GetByID(id uint) (*domain.Report, error) {
	var report domain.Report
	err := r.db.
		Table("reports r").
		Select(`r.*, u1.username AS created_by_username,
			u2.username AS reviewer_username, a.title AS audit_title`).
		Joins("LEFT JOIN users u1 ON r.user_id = u1.id").
		Joins("LEFT JOIN users u2 ON r.reviewer_id = u2.id").
		Joins("LEFT JOIN audits a ON r.audit_id = a.id").
		Where("r.id = ?", id).
		Take(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Report not found")
		}
		r.log.WithError(err).Error("fetch report failed")
		return nil, apperr.New(apperr.Persistence, "failed to fetch report")
	}

	report.Attachments = r.attachmentsFor(id)
	return &report, nil
}

var reportUpdatable = map[string]bool{
	"title":           true,
	"content":         true,
	"status":          true,
	"review_comments": true,
	"reviewer_id":     true,
	"review_date":     true,
}

// Update writes the allow-listed fields. A status change to submitted
// stamps submission_date; approved/rejected stamp review_date. The
// stamps ride in the same Updates statement inside a transaction so the
// transition and its derived timestamps are atomic.
func (r *reportRepository) Update(id uint, fields map[string]any) error {
	filtered := filterAllowed(fields, reportUpdatable)
	if len(filtered) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update report")
	}

	if status, ok := filtered["status"]; ok {
		now := time.Now()
		switch domain.ReportStatus(fmt.Sprint(status)) {
		case domain.ReportStatusSubmitted:
			filtered["submission_date"] = now
		case domain.ReportStatusApproved, domain.ReportStatusRejected:
			filtered["review_date"] = now
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Report{}).Where("id = ?", id).Updates(filtered)
		if res.Error != nil {
			r.log.WithError(res.Error).Error("update report failed")
			return apperr.New(apperr.Persistence, "Failed to update report")
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound, "Report not found")
		}
		return nil
	})
}

func (r *reportRepository) List(filters dto.ReportFilters, limit, offset int) ([]domain.Report, error) {
	q := r.db.
		Table("reports r").
		Select(`r.*, u1.username AS created_by_username,
			u2.username AS reviewer_username, a.title AS audit_title`).
		Joins("LEFT JOIN users u1 ON r.user_id = u1.id").
		Joins("LEFT JOIN users u2 ON r.reviewer_id = u2.id").
		Joins("LEFT JOIN audits a ON r.audit_id = a.id")

	if filters.UserID != 0 {
		q = q.Where("r.user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		q = q.Where("r.status = ?", filters.Status)
	}
	if filters.AuditID != 0 {
		q = q.Where("r.audit_id = ?", filters.AuditID)
	}

	var reports []domain.Report
	err := q.Order("r.created_at DESC").Limit(limit).Offset(offset).Scan(&reports).Error
	if err != nil {
		r.log.WithError(err).Error("list reports failed")
		return []domain.Report{}, apperr.New(apperr.Persistence, "failed to list reports")
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

func (r *reportRepository) AddAttachment(att *domain.ReportAttachment) (*domain.ReportAttachment, error) {
	if err := r.db.Create(att).Error; err != nil {
		r.log.WithError(err).Error("add report attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to save attachment")
	}

	var created domain.ReportAttachment
	err := r.db.
		Table("report_attachments ra").
		Select("ra.*, u.username AS uploaded_by_username").
		Joins("LEFT JOIN users u ON ra.uploaded_by = u.id").
		Where("ra.id = ?", att.ID).
		Take(&created).Error
	if err != nil {
		r.log.WithError(err).Error("fetch report attachment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to save attachment")
	}
	return &created, nil
}

func (r *reportRepository) attachmentsFor(reportID uint) []domain.ReportAttachment {
	var attachments []domain.ReportAttachment
	err := r.db.
		Table("report_attachments ra").
		Select("ra.*, u.username AS uploaded_by_username").
		Joins("LEFT JOIN users u ON ra.uploaded_by = u.id").
		Where("ra.report_id = ?", reportID).
		Order("ra.created_at DESC").
		Scan(&attachments).Error
	if err != nil {
		r.log.WithError(err).Error("fetch report attachments failed")
		return []domain.ReportAttachment{}
	}
	if attachments == nil {
		attachments = []domain.ReportAttachment{}
	}
	return attachments
}
