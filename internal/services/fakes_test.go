package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fakeAuditRepo is an in-memory AuditRepository. order tracks creation
// order so List can page newest-first like the real store.
type fakeAuditRepo struct {
	audits   map[uint]*domain.Audit
	order    []uint
	comments []domain.AuditComment
	nextID   uint
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{audits: map[uint]*domain.Audit{}, nextID: 1}
}

func (f *fakeAuditRepo) Create(audit *domain.Audit) (*domain.Audit, error) {
	audit.ID = f.nextID
	f.nextID++
	if audit.Status == "" {
		audit.Status = domain.AuditStatusPending
	}
	copied := *audit
	f.audits[audit.ID] = &copied
	f.order = append(f.order, audit.ID)
	return audit, nil
}

func (f *fakeAuditRepo) GetByID(id uint) (*domain.Audit, error) {
	audit, ok := f.audits[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Audit not found")
	}
	copied := *audit
	return &copied, nil
}

func (f *fakeAuditRepo) Update(id uint, fields map[string]any) error {
	audit, ok := f.audits[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Audit not found")
	}
	if len(fields) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update audit")
	}
	if v, ok := fields["status"].(string); ok {
		audit.Status = domain.AuditStatus(v)
	}
	if v, ok := fields["title"].(string); ok {
		audit.Title = v
	}
	if v, ok := fields["findings"].(string); ok {
		audit.Findings = &v
	}
	if v, ok := fields["recommendations"].(string); ok {
		audit.Recommendations = &v
	}
	return nil
}

func (f *fakeAuditRepo) List(filters dto.AuditFilters, limit, offset int) ([]domain.Audit, error) {
	var matched []domain.Audit
	for i := len(f.order) - 1; i >= 0; i-- {
		audit := f.audits[f.order[i]]
		if filters.UserID != 0 && audit.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && string(audit.Status) != filters.Status {
			continue
		}
		if filters.Type != "" && audit.Type != filters.Type {
			continue
		}
		matched = append(matched, *audit)
	}
	return paginate(matched, limit, offset), nil
}

func (f *fakeAuditRepo) AddComment(comment *domain.AuditComment) (*domain.AuditComment, error) {
	comment.ID = uint(len(f.comments) + 1)
	f.comments = append(f.comments, *comment)
	return comment, nil
}

func (f *fakeAuditRepo) AddAttachment(att *domain.AuditAttachment) (*domain.AuditAttachment, error) {
	att.ID = 1
	return att, nil
}

// fakeReportRepo is an in-memory ReportRepository that mimics the
// stamping behavior of the real store.
type fakeReportRepo struct {
	reports     map[uint]*domain.Report
	order       []uint
	attachments []domain.ReportAttachment
	nextID      uint
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uint]*domain.Report{}, nextID: 1}
}

func (f *fakeReportRepo) Create(report *domain.Report) (*domain.Report, error) {
	report.ID = f.nextID
	f.nextID++
	if report.Status == "" {
		report.Status = domain.ReportStatusDraft
	}
	copied := *report
	f.reports[report.ID] = &copied
	f.order = append(f.order, report.ID)
	return report, nil
}

func (f *fakeReportRepo) GetByID(id uint) (*domain.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Report not found")
	}
	copied := *report
	return &copied, nil
}

func (f *fakeReportRepo) Update(id uint, fields map[string]any) error {
	report, ok := f.reports[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Report not found")
	}
	if len(fields) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update report")
	}
	if v, ok := fields["title"].(string); ok {
		report.Title = v
	}
	if v, ok := fields["content"].(string); ok {
		report.Content = v
	}
	if v, ok := fields["review_comments"].(string); ok {
		report.ReviewComments = &v
	}
	if v, ok := fields["reviewer_id"].(uint); ok {
		report.ReviewerID = &v
	}
	if v, ok := fields["status"].(string); ok {
		report.Status = domain.ReportStatus(v)
		now := fakeNow()
		switch report.Status {
		case domain.ReportStatusSubmitted:
			report.SubmissionDate = &now
		case domain.ReportStatusApproved, domain.ReportStatusRejected:
			report.ReviewDate = &now
		}
	}
	return nil
}

func (f *fakeReportRepo) List(filters dto.ReportFilters, limit, offset int) ([]domain.Report, error) {
	var matched []domain.Report
	for i := len(f.order) - 1; i >= 0; i-- {
		report := f.reports[f.order[i]]
		if filters.UserID != 0 && report.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && string(report.Status) != filters.Status {
			continue
		}
		if filters.AuditID != 0 && (report.AuditID == nil || *report.AuditID != filters.AuditID) {
			continue
		}
		matched = append(matched, *report)
	}
	return paginate(matched, limit, offset), nil
}

func (f *fakeReportRepo) AddAttachment(att *domain.ReportAttachment) (*domain.ReportAttachment, error) {
	att.ID = uint(len(f.attachments) + 1)
	f.attachments = append(f.attachments, *att)
	return att, nil
}

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	if _, exists := f.users[user.Email]; exists {
		return nil, apperr.New(apperr.Conflict, "Email already registered")
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.Email] = &copied
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "User not found")
}

func (f *fakeUserRepo) UpdateUser(id uint, fields map[string]any) error {
	for _, user := range f.users {
		if user.ID != id {
			continue
		}
		if len(fields) == 0 {
			return apperr.New(apperr.Persistence, "failed to update user")
		}
		if v, ok := fields["username"].(string); ok {
			user.Username = v
		}
		if v, ok := fields["role"].(string); ok {
			user.Role = domain.Role(v)
		}
		if v, ok := fields["password"].(string); ok {
			user.PasswordHash = v
		}
		if v, ok := fields["email"].(string); ok && v != user.Email {
			delete(f.users, user.Email)
			user.Email = v
			f.users[v] = user
		}
		return nil
	}
	return apperr.New(apperr.NotFound, "User not found")
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	for email, user := range f.users {
		if user.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "User not found")
}

func (f *fakeUserRepo) ListUsers(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

// fakeComplianceRepo is an in-memory ComplianceRepository.
type fakeComplianceRepo struct {
	standards    map[uint]*domain.ComplianceStandard
	requirements map[uint]*domain.ComplianceRequirement
	assessments  map[uint]*domain.ComplianceAssessment
	nextID       uint
}

func newFakeComplianceRepo() *fakeComplianceRepo {
	return &fakeComplianceRepo{
		standards:    map[uint]*domain.ComplianceStandard{},
		requirements: map[uint]*domain.ComplianceRequirement{},
		assessments:  map[uint]*domain.ComplianceAssessment{},
		nextID:       1,
	}
}

func (f *fakeComplianceRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeComplianceRepo) ListStandards() ([]domain.ComplianceStandard, error) {
	var out []domain.ComplianceStandard
	for _, std := range f.standards {
		out = append(out, *std)
	}
	return out, nil
}

func (f *fakeComplianceRepo) GetStandardByID(id uint) (*domain.ComplianceStandard, error) {
	std, ok := f.standards[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Standard not found")
	}
	copied := *std
	return &copied, nil
}

func (f *fakeComplianceRepo) CreateStandard(std *domain.ComplianceStandard) (*domain.ComplianceStandard, error) {
	std.ID = f.id()
	copied := *std
	f.standards[std.ID] = &copied
	return std, nil
}

func (f *fakeComplianceRepo) CreateRequirement(req *domain.ComplianceRequirement) (*domain.ComplianceRequirement, error) {
	req.ID = f.id()
	copied := *req
	f.requirements[req.ID] = &copied
	return req, nil
}

func (f *fakeComplianceRepo) CreateAssessment(a *domain.ComplianceAssessment) (*domain.ComplianceAssessment, error) {
	a.ID = f.id()
	copied := *a
	f.assessments[a.ID] = &copied
	return a, nil
}

func (f *fakeComplianceRepo) UpdateAssessment(id uint, fields map[string]any) error {
	a, ok := f.assessments[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Assessment not found")
	}
	if len(fields) == 0 {
		return apperr.New(apperr.Persistence, "Failed to update assessment")
	}
	if v, ok := fields["status"].(string); ok {
		a.Status = domain.AssessmentStatus(v)
	}
	if v, ok := fields["evidence"].(string); ok {
		a.Evidence = &v
	}
	if v, ok := fields["notes"].(string); ok {
		a.Notes = &v
	}
	return nil
}

func (f *fakeComplianceRepo) GetAssessmentByID(id uint) (*domain.ComplianceAssessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Assessment not found")
	}
	copied := *a
	return &copied, nil
}

func (f *fakeComplianceRepo) AssessmentsByAudit(auditID uint) ([]domain.ComplianceAssessment, error) {
	var out []domain.ComplianceAssessment
	for _, a := range f.assessments {
		if a.AuditID == auditID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeComplianceRepo) ComplianceSummary(auditID uint) ([]domain.StandardSummary, error) {
	return nil, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []string
	fail   bool
}

func (f *fakePublisher) PublishMessage(key, value []byte) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, string(key))
	return nil
}

// fakeStore records saved files and returns deterministic paths.
type fakeStore struct {
	saved []string
	fail  bool
}

func (f *fakeStore) SaveFile(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if f.fail {
		return "", errors.New("disk full")
	}
	path := fmt.Sprintf("/uploads/%s/%s", folder, filename)
	f.saved = append(f.saved, path)
	return path, nil
}

func fakeNow() time.Time { return time.Now().UTC() }

// paginate applies offset then limit to an already-ordered result set.
func paginate[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
