package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/application/identity"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for admin and customer login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// RegisterCustomerRequest represents the request body for customer registration
type RegisterCustomerRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	Password  string  `json:"password" binding:"required,password"`
	FirstName string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string  `json:"last_name" binding:"required,min=1,max=100"`
}

// CreateAdminRequest represents the request body for creating an admin
type CreateAdminRequest struct {
	Email       string   `json:"email" binding:"required,email,max=255"`
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Password    string   `json:"password" binding:"required,password"`
	Role        string   `json:"role" binding:"omitempty,oneof=admin superadmin"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,permission"`
}

// UpdatePermissionsRequest replaces an admin's permission list
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required,dive,permission"`
}

// UpdateStatusRequest activates or deactivates an account
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AdminListQuery represents query parameters for listing admins
type AdminListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin superadmin"`
	IsActive *bool  `form:"is_active"`
}

// CustomerListQuery represents query parameters for listing customers
type CustomerListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AdminResponse is the public view of an admin account
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CustomerResponse is the public view of a customer account
type CustomerResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AdminLoginResponse represents the response body for admin login
type AdminLoginResponse struct {
	Token TokenResponse `json:"token"`
	Admin AdminResponse `json:"admin"`
}

// CustomerAuthResponse represents the response body for customer login and registration
type CustomerAuthResponse struct {
	Token    TokenResponse    `json:"token"`
	Customer CustomerResponse `json:"customer"`
}

// RefreshTokenResponse represents the response body for token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// MeResponse describes the authenticated subject
type MeResponse struct {
	Type     string            `json:"type"`
	Admin    *AdminResponse    `json:"admin,omitempty"`
	Customer *CustomerResponse `json:"customer,omitempty"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(t identity.TokenResult) TokenResponse {
	return TokenResponse{
		AccessToken:           t.AccessToken,
		RefreshToken:          t.RefreshToken,
		AccessTokenExpiresAt:  t.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: t.RefreshTokenExpiresAt,
		TokenType:             t.TokenType,
	}
}

func toAdminResponse(p identity.AdminProfile) AdminResponse {
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return AdminResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Role:        string(p.Role),
		Permissions: perms,
		IsActive:    p.IsActive,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCustomerResponse(p identity.CustomerProfile) CustomerResponse {
	return CustomerResponse{
		ID:          p.ID,
		Email:       p.Email,
		Phone:       p.Phone,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		IsActive:    p.IsActive,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
