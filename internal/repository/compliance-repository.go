package repository

import (
	"errors"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ComplianceRepository interface {
	ListStandards() ([]domain.ComplianceStandard, error)
	GetStandardByID(id uint) (*domain.ComplianceStandard, error)
	CreateStandard(std *domain.ComplianceStandard) (*domain.ComplianceStandard, error)
	CreateRequirement(req *domain.ComplianceRequirement) (*domain.ComplianceRequirement, error)
	CreateAssessment(a *domain.ComplianceAssessment) (*domain.ComplianceAssessment, error)
	UpdateAssessment(id uint, fields map[string]any) error
	GetAssessmentByID(id uint) (*domain.ComplianceAssessment, error)
	AssessmentsByAudit(auditID uint) ([]domain.ComplianceAssessment, error)
	ComplianceSummary(auditID uint) ([]domain.StandardSummary, error)
}

type complianceRepository struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewComplianceRepository(db *gorm.DB, log logrus.FieldLogger) ComplianceRepository {
	return &complianceRepository{db: db, log: log}
}

func (r *complianceRepository) ListStandards() ([]domain.ComplianceStandard, error) {
	var standards []domain.ComplianceStandard
	if err := r.db.Order("name").Find(&standards).Error; err != nil {
		r.log.WithError(err).Error("list compliance standards failed")
		return []domain.ComplianceStandard{}, apperr.New(apperr.Persistence, "failed to list standards")
	}
	return standards, nil
}

func (r *complianceRepository) GetStandardByID(id uint) (*domain.ComplianceStandard, error) {
	var standard domain.ComplianceStandard
	if err := r.db.First(&standard, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Compliance standard not found")
		}
		r.log.WithError(err).Error("fetch compliance standard failed")
		return nil, apperr.New(apperr.Persistence, "failed to fetch standard")
	}

	var requirements []domain.ComplianceRequirement
	err := r.db.
		Where("standard_id = ?", id).
		Order("requirement_code").
		Find(&requirements).Error
	if err != nil {
		r.log.WithError(err).Error("fetch compliance requirements failed")
		requirements = []domain.ComplianceRequirement{}
	}
	standard.Requirements = requirements
	return &standard, nil
}

func (r *complianceRepository) CreateStandard(std *domain.ComplianceStandard) (*domain.ComplianceStandard, error) {
	if err := r.db.Create(std).Error; err != nil {
		r.log.WithError(err).Error("create compliance standard failed")
		return nil, apperr.New(apperr.Persistence, "Failed to create standard")
	}
	return std, nil
}

func (r *complianceRepository) CreateRequirement(req *domain.ComplianceRequirement) (*domain.ComplianceRequirement, error) {
	if err := r.db.Create(req).Error; err != nil {
		r.log.WithError(err).Error("create compliance requirement failed")
		return nil, apperr.New(apperr.Persistence, "Failed to create requirement")
	}
	return req, nil
}

func (r *complianceRepository) CreateAssessment(a *domain.ComplianceAssessment) (*domain.ComplianceAssessment, error) {
	if err := r.db.Create(a).Error; err != nil {
		r.log.WithError(err).Error("create compliance assessment failed")
		return nil, apperr.New(apperr.Persistence, "Failed to create assessment")
	}
	return r.GetAssessmentByID(a.ID)
}

var assessmentUpdatable = map[string]bool{
	"status":   true,
	"evidence": true,
	"notes":    true,
}

func (r *complianceRepository) UpdateAssessment(id uint, fields map[string]any) error {
	filtered := filterAllowed(fields, assessmentUpdatable)
	if len(filtered) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update assessment")
	}

	res := r.db.Model(&domain.ComplianceAssessment{}).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		r.log.WithError(res.Error).Error("update compliance assessment failed")
		return apperr.New(apperr.Persistence, "Failed to update assessment")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "Assessment not found")
	}
	return nil
}

func (r *complianceRepository) GetAssessmentByID(id uint) (*domain.ComplianceAssessment, error) {
	var assessment domain.ComplianceAssessment
	err := r.db.
		Table("compliance_assessments ca").
		Select(`ca.*, cr.requirement_code, cr.description AS requirement_description,
			cs.name AS standard_name, cs.version AS standard_version,
			u.username AS assessed_by_username`).
		Joins("LEFT JOIN compliance_requirements cr ON ca.requirement_id = cr.id").
		Joins("LEFT JOIN compliance_standards cs ON cr.standard_id = cs.id").
		Joins("LEFT JOIN users u ON ca.assessed_by = u.id").
		Where("ca.id = ?", id).
		Take(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Assessment not found")
		}
		r.log.WithError(err).Error("fetch compliance assessment failed")
		return nil, apperr.New(apperr.Persistence, "failed to fetch assessment")
	}
	return &assessment, nil
}

func (r *complianceRepository) AssessmentsByAudit(auditID uint) ([]domain.ComplianceAssessment, error) {
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
		r.log.WithError(err).Error("fetch audit compliance assessments failed")
		return []domain.ComplianceAssessment{}, apperr.New(apperr.Persistence, "failed to fetch assessments")
	}
	if assessments == nil {
		assessments = []domain.ComplianceAssessment{}
	}
	return assessments, nil
}

// ComplianceSummary groups the audit's assessments by standard with
// per-status counts.
func (r *complianceRepository) ComplianceSummary(auditID uint) ([]domain.StandardSummary, error) {
	var rows []domain.StandardSummary
	err := r.db.
		Table("compliance_assessments ca").
		Select(`cs.name AS standard_name,
			COUNT(*) AS total_requirements,
			SUM(CASE WHEN ca.status = 'compliant' THEN 1 ELSE 0 END) AS compliant,
			SUM(CASE WHEN ca.status = 'non_compliant' THEN 1 ELSE 0 END) AS non_compliant,
			SUM(CASE WHEN ca.status = 'partially_compliant' THEN 1 ELSE 0 END) AS partially_compliant,
			SUM(CASE WHEN ca.status = 'not_applicable' THEN 1 ELSE 0 END) AS not_applicable`).
		Joins("JOIN compliance_requirements cr ON ca.requirement_id = cr.id").
		Joins("JOIN compliance_standards cs ON cr.standard_id = cs.id").
		Where("ca.audit_id = ?", auditID).
		Group("cs.name").
		Scan(&rows).Error
	if err != nil {
		r.log.WithError(err).Error("compliance summary failed")
		return []domain.StandardSummary{}, apperr.New(apperr.Persistence, "failed to build compliance summary")
	}
	if rows == nil {
		rows = []domain.StandardSummary{}
	}
	return rows, nil
}
