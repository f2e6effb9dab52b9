package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/helper"
	"github.com/ComplyTrail/audit_service/internal/interfaces"
	"github.com/ComplyTrail/audit_service/internal/repository"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	Register(input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(input dto.LoginRequest) (*dto.AuthResponse, error)
	ListUsers(p access.Principal, limit, offset int) ([]dto.UserSummary, error)
	GetUser(p access.Principal, id uint) (*dto.UserSummary, error)
	UpdateUser(p access.Principal, id uint, fields map[string]any) (*dto.UserSummary, error)
	DeleteUser(p access.Principal, id uint) error
}

type userService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.EventPublisher
	log      logrus.FieldLogger
}

func NewUserService(
	repo repository.UserRepository,
	auth helper.Auth,
	producer interfaces.EventPublisher,
	log logrus.FieldLogger,
) UserService {
	return &userService{repo: repo, auth: auth, producer: producer, log: log}
}

func (s *userService) Register(input dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	// Duplicate email is a conflict, not a validation failure.
	if existing, err := s.repo.FindByEmail(email); err == nil && existing != nil && existing.ID != 0 {
		return nil, apperr.New(apperr.Conflict, "Email already registered")
	}

	if !passwordStrong(input.Password) {
		return nil, apperr.New(apperr.Validation,
			"Password must contain at least 8 characters, including uppercase, lowercase, and numbers")
	}

	role := domain.Role(strings.TrimSpace(input.Role))
	if role != domain.RoleAdmin && role != domain.RoleUser {
		role = domain.RoleUser
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "Failed to create user")
	}

	user, err := s.repo.CreateUser(&domain.User{
		Username:     input.Username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "could not generate token")
	}

	if s.producer != nil {
		payload := fmt.Sprintf(`{"user_id":%d,"email":"%s","role":"%s"}`, user.ID, user.Email, user.Role)
		if err := s.producer.PublishMessage([]byte("user.registered"), []byte(payload)); err != nil {
			s.log.WithError(err).Warn("publish user.registered failed")
		}
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    summarize(user),
	}, nil
}

func (s *userService) Login(input dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.repo.FindByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, apperr.New(apperr.Authentication, "Invalid email or password")
	}

	if err := s.auth.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		return nil, apperr.New(apperr.Authentication, "Invalid email or password")
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "could not generate token")
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    summarize(user),
	}, nil
}

func (s *userService) guard(p access.Principal) error {
	allowed, known := access.HasPermission(p, access.PermManageUsers)
	if !known {
		s.log.WithField("permission", access.PermManageUsers).Warn("undefined permission check")
	}
	if !allowed {
		return apperr.New(apperr.Authorization, "Permission denied")
	}
	return nil
}

func (s *userService) ListUsers(p access.Principal, limit, offset int) ([]dto.UserSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, summarize(&users[i]))
	}
	return out, nil
}

func (s *userService) GetUser(p access.Principal, id uint) (*dto.UserSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	summary := summarize(user)
	return &summary, nil
}

// UpdateUser applies allow-listed account changes. A password change is
// re-checked for strength and stored hashed.
func (s *userService) UpdateUser(p access.Principal, id uint, fields map[string]any) (*dto.UserSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}

	if raw, ok := fields["password"]; ok {
		password, _ := raw.(string)
		if !passwordStrong(password) {
			return nil, apperr.New(apperr.Validation,
				"Password must contain at least 8 characters, including uppercase, lowercase, and numbers")
		}
		hashed, err := s.auth.HashPassword(password)
		if err != nil {
			return nil, apperr.New(apperr.Persistence, "Failed to update user")
		}
		fields["password"] = hashed
	}
	if raw, ok := fields["role"]; ok {
		role, _ := raw.(string)
		if role != string(domain.RoleAdmin) && role != string(domain.RoleUser) {
			return nil, apperr.New(apperr.Validation, "Invalid role")
		}
	}
	if raw, ok := fields["email"]; ok {
		email, _ := raw.(string)
		fields["email"] = strings.TrimSpace(strings.ToLower(email))
	}

	if err := s.repo.UpdateUser(id, fields); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	summary := summarize(user)
	return &summary, nil
}

func (s *userService) DeleteUser(p access.Principal, id uint) error {
	if err := s.guard(p); err != nil {
		return err
	}
	if p.ID == id {
		return apperr.New(apperr.Validation, "Cannot delete own account")
	}
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.repo.DeleteUser(id)
}

func summarize(user *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// passwordStrong requires at least 8 characters including an uppercase
// letter, a lowercase letter and a digit.
func passwordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
