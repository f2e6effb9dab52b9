package access

import (
	"testing"

	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	admin := Principal{ID: 1, Role: domain.RoleAdmin}
	user := Principal{ID: 2, Role: domain.RoleUser}
	anonymous := Principal{}

	assert.True(t, HasRole(admin, domain.RoleAdmin))
	assert.False(t, HasRole(user, domain.RoleAdmin))
	assert.True(t, HasRole(user, domain.RoleAdmin, domain.RoleUser))
	assert.False(t, HasRole(anonymous, domain.RoleAdmin, domain.RoleUser))
}

func TestIsUserAcceptsAdmin(t *testing.T) {
	assert.True(t, IsUser(Principal{ID: 1, Role: domain.RoleAdmin}))
	assert.True(t, IsUser(Principal{ID: 2, Role: domain.RoleUser}))
	assert.False(t, IsUser(Principal{ID: 3, Role: "auditor"}))
}

func TestCanAccessResource(t *testing.T) {
	admin := Principal{ID: 1, Role: domain.RoleAdmin}
	owner := Principal{ID: 7, Role: domain.RoleUser}
	other := Principal{ID: 8, Role: domain.RoleUser}

	assert.True(t, CanAccessResource(admin, 7))
	assert.True(t, CanAccessResource(owner, 7))
	assert.False(t, CanAccessResource(other, 7))
	assert.False(t, CanAccessResource(Principal{}, 0))
}

func TestHasPermission(t *testing.T) {
	admin := Principal{ID: 1, Role: domain.RoleAdmin}
	user := Principal{ID: 2, Role: domain.RoleUser}

	cases := []struct {
		perm         Permission
		adminAllowed bool
		userAllowed  bool
	}{
		{PermManageUsers, true, false},
		{PermViewReports, true, true},
		{PermCreateAudits, true, true},
		{PermManageCompliance, true, false},
	}
	for _, tc := range cases {
		allowed, known := HasPermission(admin, tc.perm)
		assert.True(t, known, string(tc.perm))
		assert.Equal(t, tc.adminAllowed, allowed, string(tc.perm))

		allowed, known = HasPermission(user, tc.perm)
		assert.True(t, known, string(tc.perm))
		assert.Equal(t, tc.userAllowed, allowed, string(tc.perm))
	}
}

func TestHasPermissionUnknown(t *testing.T) {
	allowed, known := HasPermission(Principal{ID: 1, Role: domain.RoleAdmin}, "launch_rockets")
	assert.False(t, known)
	assert.False(t, allowed)
}
