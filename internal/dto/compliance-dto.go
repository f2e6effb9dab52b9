package dto

type StandardCreate struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type RequirementCreate struct {
	StandardID      uint   `json:"standard_id"`
	RequirementCode string `json:"requirement_code"`
	Description     string `json:"description"`
}

type AssessmentCreate struct {
	RequirementID uint   `json:"requirement_id"`
	AuditID       uint   `json:"audit_id"`
	Status        string `json:"status"`
	Evidence      string `json:"evidence"`
	Notes         string `json:"notes"`
}

type AssessmentUpdate struct {
	Status   *string `json:"status,omitempty"`
	Evidence *string `json:"evidence,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}
