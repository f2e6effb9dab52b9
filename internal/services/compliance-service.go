package services

import (
	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/repository"
	"github.com/sirupsen/logrus"
)

type ComplianceService interface {
	ListStandards(p access.Principal) ([]domain.ComplianceStandard, error)
	GetStandard(p access.Principal, id uint) (*domain.ComplianceStandard, error)
	CreateStandard(p access.Principal, input dto.StandardCreate) (*domain.ComplianceStandard, error)
	CreateRequirement(p access.Principal, input dto.RequirementCreate) (*domain.ComplianceRequirement, error)
	CreateAssessment(p access.Principal, input dto.AssessmentCreate) (*domain.ComplianceAssessment, error)
	UpdateAssessment(p access.Principal, id uint, input dto.AssessmentUpdate) (*domain.ComplianceAssessment, error)
	AssessmentsByAudit(p access.Principal, auditID uint) ([]domain.ComplianceAssessment, error)
	Summary(p access.Principal, auditID uint) ([]domain.StandardSummary, error)
}

type complianceService struct {
	repo repository.ComplianceRepository
	log  logrus.FieldLogger
}

func NewComplianceService(repo repository.ComplianceRepository, log logrus.FieldLogger) ComplianceService {
	return &complianceService{repo: repo, log: log}
}

func (s *complianceService) guard(p access.Principal) error {
	allowed, known := access.HasPermission(p, access.PermManageCompliance)
	if !known {
		s.log.WithField("permission", access.PermManageCompliance).Warn("undefined permission check")
	}
	if !allowed {
		return apperr.New(apperr.Authorization, "Permission denied")
	}
	return nil
}

func (s *complianceService) ListStandards(p access.Principal) ([]domain.ComplianceStandard, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	return s.repo.ListStandards()
}

func (s *complianceService) GetStandard(p access.Principal, id uint) (*domain.ComplianceStandard, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	return s.repo.GetStandardByID(id)
}

func (s *complianceService) CreateStandard(p access.Principal, input dto.StandardCreate) (*domain.ComplianceStandard, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	return s.repo.CreateStandard(&domain.ComplianceStandard{
		Name:    input.Name,
		Version: input.Version,
	})
}

func (s *complianceService) CreateRequirement(p access.Principal, input dto.RequirementCreate) (*domain.ComplianceRequirement, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStandardByID(input.StandardID); err != nil {
		return nil, err
	}
	return s.repo.CreateRequirement(&domain.ComplianceRequirement{
		StandardID:      input.StandardID,
		RequirementCode: input.RequirementCode,
		Description:     input.Description,
	})
}

func (s *complianceService) CreateAssessment(p access.Principal, input dto.AssessmentCreate) (*domain.ComplianceAssessment, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	status := domain.AssessmentStatus(input.Status)
	if !domain.ValidAssessmentStatus(status) {
		return nil, apperr.New(apperr.Validation, "Invalid assessment status")
	}

	assessment := &domain.ComplianceAssessment{
		RequirementID: input.RequirementID,
		AuditID:       input.AuditID,
		Status:        status,
		AssessedBy:    p.ID,
	}
	if input.Evidence != "" {
		evidence := input.Evidence
		assessment.Evidence = &evidence
	}
	if input.Notes != "" {
		notes := input.Notes
		assessment.Notes = &notes
	}
	return s.repo.CreateAssessment(assessment)
}

func (s *complianceService) UpdateAssessment(p access.Principal, id uint, input dto.AssessmentUpdate) (*domain.ComplianceAssessment, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Status != nil {
		if !domain.ValidAssessmentStatus(domain.AssessmentStatus(*input.Status)) {
			return nil, apperr.New(apperr.Validation, "Invalid assessment status")
		}
		fields["status"] = *input.Status
	}
	if input.Evidence != nil {
		fields["evidence"] = *input.Evidence
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if err := s.repo.UpdateAssessment(id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetAssessmentByID(id)
}

func (s *complianceService) AssessmentsByAudit(p access.Principal, auditID uint) ([]domain.ComplianceAssessment, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	return s.repo.AssessmentsByAudit(auditID)
}

func (s *complianceService) Summary(p access.Principal, auditID uint) ([]domain.StandardSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	return s.repo.ComplianceSummary(auditID)
}
