// Package access holds the authorization decision logic: pure
// predicates over the authenticated principal. Nothing here touches
// the transport; handlers translate a denial into the wire response.
package access

import "github.com/ComplyTrail/audit_service/internal/domain"

// Principal is the resolved identity of the current request.
type Principal struct {
	ID   uint
	Role domain.Role
}

type Permission string

const (
	PermManageUsers      Permission = "manage_users"
	PermViewReports      Permission = "view_reports"
	PermCreateAudits     Permission = "create_audits"
	PermManageCompliance Permission = "manage_compliance"
)

var permissionRoles = map[Permission][]domain.Role{
	PermManageUsers:      {domain.RoleAdmin},
	PermViewReports:      {domain.RoleAdmin, domain.RoleUser},
	PermCreateAudits:     {domain.RoleAdmin, domain.RoleUser},
	PermManageCompliance: {domain.RoleAdmin},
}

func HasRole(p Principal, required ...domain.Role) bool {
	if p.ID == 0 {
		return false
	}
	for _, r := range required {
		if p.Role == r {
			return true
		}
	}
	return false
}

func IsAdmin(p Principal) bool {
	return HasRole(p, domain.RoleAdmin)
}

// IsUser accepts both regular users and admins.
func IsUser(p Principal) bool {
	return HasRole(p, domain.RoleUser, domain.RoleAdmin)
}

// CanAccessResource reports whether p may touch a resource owned by
// ownerID. Admins bypass the ownership check.
func CanAccessResource(p Principal, ownerID uint) bool {
	if IsAdmin(p) {
		return true
	}
	return p.ID != 0 && p.ID == ownerID
}

// HasPermission checks p against the fixed permission table. The second
// return is false when the permission name is unknown; callers should
// log that case and treat it as a denial.
func HasPermission(p Principal, perm Permission) (allowed bool, known bool) {
	roles, ok := permissionRoles[perm]
	if !ok {
		return false, false
	}
	return HasRole(p, roles...), true
}
