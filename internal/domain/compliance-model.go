package domain

import "time"

type AssessmentStatus string

const (
	AssessmentCompliant          AssessmentStatus = "compliant"
	AssessmentNonCompliant       AssessmentStatus = "non_compliant"
	AssessmentPartiallyCompliant AssessmentStatus = "partially_compliant"
	AssessmentNotApplicable      AssessmentStatus = "not_applicable"
)

func ValidAssessmentStatus(s AssessmentStatus) bool {
	switch s {
	case AssessmentCompliant, AssessmentNonCompliant, AssessmentPartiallyCompliant, AssessmentNotApplicable:
		return true
	}
	return false
}

type ComplianceStandard struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Version string `gorm:"type:varchar(50);not null" json:"version"`

	Requirements []ComplianceRequirement `gorm:"-" json:"requirements,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ComplianceRequirement struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	StandardID      uint   `gorm:"not null;index" json:"standard_id"`
	RequirementCode string `gorm:"type:varchar(50);not null" json:"requirement_code"`
	Description     string `gorm:"type:text;not null" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ComplianceAssessment struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	RequirementID uint             `gorm:"not null;index" json:"requirement_id"`
	AuditID       uint             `gorm:"not null;index" json:"audit_id"`
	Status        AssessmentStatus `gorm:"type:varchar(30);not null" json:"status"`
	Evidence      *string          `gorm:"type:text" json:"evidence,omitempty"`
	Notes         *string          `gorm:"type:text" json:"notes,omitempty"`
	AssessedBy    uint             `gorm:"not null;index" json:"assessed_by"`

	RequirementCode        string `gorm:"-:migration;->" json:"requirement_code,omitempty"`
	RequirementDescription string `gorm:"-:migration;->" json:"requirement_description,omitempty"`
	StandardName           string `gorm:"-:migration;->" json:"standard_name,omitempty"`
	StandardVersion        string `gorm:"-:migration;->" json:"standard_version,omitempty"`
	AssessedByUsername     string `gorm:"-:migration;->" json:"assessed_by_username,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StandardSummary is one row of the per-standard compliance rollup.
type StandardSummary struct {
	StandardName       string `json:"standard_name"`
	TotalRequirements  int64  `json:"total_requirements"`
	Compliant          int64  `json:"compliant"`
	NonCompliant       int64  `json:"non_compliant"`
	PartiallyCompliant int64  `json:"partially_compliant"`
	NotApplicable      int64  `json:"not_applicable"`
}
