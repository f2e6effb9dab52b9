package domain

import "time"

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusApproved  ReportStatus = "approved"
	ReportStatusRejected  ReportStatus = "rejected"
)

// ReviewOutcomes are the only statuses an admin review action may set.
var ReviewOutcomes = []ReportStatus{ReportStatusApproved, ReportStatusRejected}

type Report struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	Title   string       `gorm:"type:varchar(255);not null" json:"title"`
	Content string       `gorm:"type:text;not null" json:"content"`
	AuditID *uint        `gorm:"index" json:"audit_id,omitempty"`
	UserID  uint         `gorm:"not null;index" json:"user_id"`
	Status  ReportStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`

	ReviewerID     *uint      `gorm:"index" json:"reviewer_id,omitempty"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
	ReviewComments *string    `gorm:"type:text" json:"review_comments,omitempty"`

	CreatedByUsername string `gorm:"-:migration;->" json:"created_by_username,omitempty"`
	ReviewerUsername  string `gorm:"-:migration;->" json:"reviewer_username,omitempty"`
	AuditTitle        string `gorm:"-:migration;->" json:"audit_title,omitempty"`

	Attachments []ReportAttachment `gorm:"-" json:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReportAttachment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ReportID   uint   `gorm:"not null;index" json:"report_id"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath   string `gorm:"type:varchar(255);not null" json:"file_path"`
	FileType   string `gorm:"type:varchar(100);not null" json:"file_type"`
	FileSize   int64  `gorm:"not null" json:"file_size"`
	UploadedBy uint   `gorm:"not null;index" json:"uploaded_by"`

	UploadedByUsername string `gorm:"-:migration;->" json:"uploaded_by_username,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
