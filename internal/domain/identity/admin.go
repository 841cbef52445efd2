package identity

import (
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// Admin is a back-office account.
// A superadmin implicitly holds every permission; a plain admin holds
// exactly the stored list.
type Admin struct {
	shared.BaseEntity
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Permissions  []Permission
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewAdmin creates an active admin with a hashed password
func NewAdmin(email, name, password string, role Role, permissions []Permission, hasher PasswordHasher) (*Admin, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName("Name", name, 100); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be superadmin or admin")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	admin := &Admin{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	admin.SetPermissions(permissions)
	return admin, nil
}

// IsSuperAdmin reports whether the admin has the superadmin role
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// EffectivePermissions returns the permissions carried in issued tokens
func (a *Admin) EffectivePermissions() []Permission {
	if a.IsSuperAdmin() {
		return AllPermissions()
	}
	out := make([]Permission, len(a.Permissions))
	copy(out, a.Permissions)
	return out
}

// HasPermission checks a single permission against the effective set
func (a *Admin) HasPermission(p Permission) bool {
	if a.IsSuperAdmin() {
		return true
	}
	for _, held := range a.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// SetPermissions overwrites the stored permission list
func (a *Admin) SetPermissions(perms []Permission) {
	if perms == nil {
		perms = []Permission{}
	}
	a.Permissions = perms
	a.Touch()
}

// CanManage reports whether a can modify target.
// Only a superadmin may act on another superadmin.
func (a *Admin) CanManage(target *Admin) bool {
	if target.IsSuperAdmin() {
		return a.IsSuperAdmin()
	}
	return true
}

// VerifyPassword checks a plaintext password against the stored hash
func (a *Admin) VerifyPassword(password string, hasher PasswordHasher) bool {
	return hasher.Compare(a.PasswordHash, password)
}

// ChangePassword validates and stores a new password hash
func (a *Admin) ChangePassword(password string, hasher PasswordHasher) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = hash
	a.Touch()
	return nil
}

// Activate enables login
func (a *Admin) Activate() {
	a.IsActive = true
	a.Touch()
}

// Deactivate disables login
func (a *Admin) Deactivate() {
	a.IsActive = false
	a.Touch()
}

// RecordLogin stamps the last successful login
func (a *Admin) RecordLogin() {
	now := time.Now()
	a.LastLoginAt = &now
	a.UpdatedAt = now
}

// AdminFilter contains filter options for listing admins
type AdminFilter struct {
	shared.Filter
	Role     *Role
	IsActive *bool
}
