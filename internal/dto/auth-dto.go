package dto

import "github.com/ComplyTrail/audit_service/internal/domain"

// AuthClaims is the verified identity carried by a request token.
type AuthClaims struct {
	UserID    uint        `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
}

type UserSummary struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// AuthResponse is the signup/login success body.
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}
