package dto

// AuditCreate carries sanitized audit creation fields.
type AuditCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	StartDate   string `json:"date"`
	Status      string `json:"status"`
}

// AuditFilters narrows audit listings; empty fields are not applied.
type AuditFilters struct {
	UserID uint
	Status string
	Type   string
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
