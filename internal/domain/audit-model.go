package domain

import "time"

type AuditStatus string

const (
	AuditStatusPending    AuditStatus = "pending"
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusCompleted  AuditStatus = "completed"
)

// UserAllowedAuditStatuses are the only values a non-admin may set via
// the update-status action.
var UserAllowedAuditStatuses = []AuditStatus{AuditStatusInProgress, AuditStatusCompleted}

type Audit struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Status      AuditStatus `gorm:"type:varchar(30);not null;default:pending" json:"status"`
	Type        string      `gorm:"type:varchar(100);not null" json:"type"`
	StartDate   string      `gorm:"type:date;not null" json:"start_date"`
	EndDate     *string     `gorm:"type:date" json:"end_date,omitempty"`

	Findings        *string `gorm:"type:text" json:"findings,omitempty"`
	Recommendations *string `gorm:"type:text" json:"recommendations,omitempty"`

	// Populated on hydration, not a column.
	CreatedByUsername string `gorm:"-:migration;->" json:"created_by_username,omitempty"`

	Comments              []AuditComment         `gorm:"-" json:"comments,omitempty"`
	Attachments           []AuditAttachment      `gorm:"-" json:"attachments,omitempty"`
	ComplianceAssessments []ComplianceAssessment `gorm:"-" json:"compliance_assessments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuditComment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	AuditID uint   `gorm:"not null;index" json:"audit_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	Username string `gorm:"-:migration;->" json:"username,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type AuditAttachment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AuditID    uint   `gorm:"not null;index" json:"audit_id"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath   string `gorm:"type:varchar(255);not null" json:"file_path"`
	FileType   string `gorm:"type:varchar(100);not null" json:"file_type"`
	FileSize   int64  `gorm:"not null" json:"file_size"`
	UploadedBy uint   `gorm:"not null;index" json:"uploaded_by"`

	UploadedByUsername string `gorm:"-:migration;->" json:"uploaded_by_username,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
