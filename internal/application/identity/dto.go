package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
)

// LoginInput contains the credentials for admin or customer login
type LoginInput struct {
	Email    string
	Password string
}

// RegisterCustomerInput contains the input for customer self-registration
type RegisterCustomerInput struct {
	Email     string
	Phone     *string
	Password  string
	FirstName string
	LastName  string
}

// CreateAdminInput contains the input for creating an admin account
type CreateAdminInput struct {
	Email       string
	Name        string
	Password    string
	Role        identity.Role
	Permissions []string
}

// Actor identifies the admin performing a management operation
type Actor struct {
	ID uuid.UUID
}

// TokenResult is an issued access/refresh token pair
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

func tokenResultFrom(pair *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// AdminProfile is the public view of an admin
type AdminProfile struct {
	ID          uuid.UUID
	Email       string
	Name        string
	Role        identity.Role
	Permissions []string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdminProfileFrom builds the public view; permissions are the effective set
func AdminProfileFrom(a *identity.Admin) AdminProfile {
	return AdminProfile{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Permissions: identity.PermissionStrings(a.EffectivePermissions()),
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CustomerProfile is the public view of a customer
type CustomerProfile struct {
	ID          uuid.UUID
	Email       string
	Phone       *string
	FirstName   string
	LastName    string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerProfileFrom builds the public view of a customer
func CustomerProfileFrom(c *identity.Customer) CustomerProfile {
	return CustomerProfile{
		ID:          c.ID,
		Email:       c.Email,
		Phone:       c.Phone,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		IsActive:    c.IsActive,
		LastLoginAt: c.LastLoginAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// AdminAuthResult is returned by admin login
type AdminAuthResult struct {
	Tokens TokenResult
	Admin  AdminProfile
}

// CustomerAuthResult is returned by customer login and registration
type CustomerAuthResult struct {
	Tokens   TokenResult
	Customer CustomerProfile
}

// LogoutInput identifies the tokens to revoke.
// RefreshToken is optional; when present its JTI is revoked as well.
type LogoutInput struct {
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// CurrentSubject is the result of Me. Exactly one of Admin and Customer is set.
type CurrentSubject struct {
	Type     auth.SubjectType
	Admin    *AdminProfile
	Customer *CustomerProfile
}
