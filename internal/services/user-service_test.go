package services

import (
	"testing"

	"github.com/ComplyTrail/audit_service/internal/access"
	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/ComplyTrail/audit_service/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	repo      *fakeUserRepo
	publisher *fakePublisher
	svc       UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		repo:      newFakeUserRepo(),
		publisher: &fakePublisher{},
	}
	f.svc = NewUserService(f.repo, helper.SetupAuth("test-secret"), f.publisher, testLogger())
	return f
}

func registerInput() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: "auditor1",
		Email:    "auditor@example.com",
		Password: "Sup3rSecret",
	}
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.svc.Register(registerInput())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "auditor1", resp.User.Username)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
	assert.Contains(t, f.publisher.events, "user.registered")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newUserFixture(t)

	input := registerInput()
	input.Email = "  Auditor@Example.COM "
	resp, err := f.svc.Register(input)
	require.NoError(t, err)
	assert.Equal(t, "auditor@example.com", resp.User.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	_, err = f.svc.Register(registerInput())
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "Email already registered", err.Error())
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newUserFixture(t)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		input := registerInput()
		input.Password = password
		_, err := f.svc.Register(input)
		require.Error(t, err, password)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	}
}

func TestRegisterRoleHandling(t *testing.T) {
	f := newUserFixture(t)

	input := registerInput()
	input.Role = "admin"
	resp, err := f.svc.Register(input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)

	// Unknown roles fall back to user.
	input = registerInput()
	input.Email = "second@example.com"
	input.Role = "superuser"
	resp, err = f.svc.Register(input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	stored, err := f.repo.FindByEmail("auditor@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	resp, err := f.svc.Login(dto.LoginRequest{
		Email:    "auditor@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.ListUsers(userPrincipal, 10, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	_, err = f.svc.UpdateUser(userPrincipal, 1, map[string]any{"username": "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	err = f.svc.DeleteUser(userPrincipal, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	updated, err := f.svc.UpdateUser(adminPrincipal, resp.User.ID, map[string]any{
		"username": "renamed",
		"role":     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
}

func TestUpdateUserPasswordRehashed(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	_, err = f.svc.UpdateUser(adminPrincipal, resp.User.ID, map[string]any{
		"password": "N3wSecretPass",
	})
	require.NoError(t, err)

	stored, err := f.repo.FindByEmail("auditor@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "N3wSecretPass", stored.PasswordHash)

	// Weak replacement passwords are refused.
	_, err = f.svc.UpdateUser(adminPrincipal, resp.User.ID, map[string]any{
		"password": "weak",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdateUserInvalidRole(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	_, err = f.svc.UpdateUser(adminPrincipal, resp.User.ID, map[string]any{"role": "superuser"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "Invalid role", err.Error())
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	admin := access.Principal{ID: 99, Role: domain.RoleAdmin}
	require.NoError(t, f.svc.DeleteUser(admin, resp.User.ID))

	_, err = f.repo.FindByEmail("auditor@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteUserSelfForbidden(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.DeleteUser(adminPrincipal, adminPrincipal.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "Cannot delete own account", err.Error())
}

func TestLoginFailuresAreOpaque(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Register(registerInput())
	require.NoError(t, err)

	// Same message for unknown email and wrong password.
	_, err = f.svc.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "Sup3rSecret"})
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = f.svc.Login(dto.LoginRequest{Email: "auditor@example.com", Password: "WrongPass1"})
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
	assert.Equal(t, "Invalid email or password", err.Error())
}
