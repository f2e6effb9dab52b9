package dto

// ReportCreate carries sanitized report creation fields.
type ReportCreate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	AuditID uint   `json:"audit_id"`
	Status  string `json:"status"`
}

// UserReportUpdate is the owner-facing update payload. Only draft
// reports accept it; Submit true moves the report to submitted.
type UserReportUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Submit  bool    `json:"submit"`
}

// AdminReportUpdate is the admin review payload. A non-nil Status must
// be one of the review outcomes.
type AdminReportUpdate struct {
	Title          *string `json:"title,omitempty"`
	Content        *string `json:"content,omitempty"`
	Status         *string `json:"status,omitempty"`
	ReviewComments *string `json:"review_comments,omitempty"`
}

// ReportFilters narrows report listings; empty fields are not applied.
type ReportFilters struct {
	UserID  uint
	Status  string
	AuditID uint
}

// AttachmentUpload is a validated multipart file ready to store.
type AttachmentUpload struct {
	FileName string
	FileType string
	FileSize int64
	Data     []byte
}
