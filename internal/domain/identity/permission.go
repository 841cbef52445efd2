package identity

import (
	"sort"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// Role is the privilege tier of an admin account
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Permission is a resource:action capability granted to admins
type Permission string

const (
	PermCategoryRead   Permission = "category:read"
	PermCategoryWrite  Permission = "category:write"
	PermAttributeRead  Permission = "attribute:read"
	PermAttributeWrite Permission = "attribute:write"
	PermUploadWrite    Permission = "upload:write"
	PermAdminRead      Permission = "admin:read"
	PermAdminWrite     Permission = "admin:write"
	PermCustomerRead   Permission = "customer:read"
)

var allPermissions = []Permission{
	PermCategoryRead,
	PermCategoryWrite,
	PermAttributeRead,
	PermAttributeWrite,
	PermUploadWrite,
	PermAdminRead,
	PermAdminWrite,
	PermCustomerRead,
}

// AllPermissions returns every known permission
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// IsValid reports whether the permission is one of the known values
func (p Permission) IsValid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePermissions converts raw strings into a sorted, de-duplicated permission set
func ParsePermissions(raw []string) ([]Permission, error) {
	seen := make(map[Permission]struct{}, len(raw))
	out := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p := Permission(r)
		if !p.IsValid() {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "Unknown permission: "+r)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// PermissionStrings converts a permission set to plain strings
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
