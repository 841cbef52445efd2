package identity

import (
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// Customer is a storefront account
type Customer struct {
	shared.BaseEntity
	Email        string
	Phone        *string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewCustomer creates an active customer with a hashed password
func NewCustomer(email string, phone *string, firstName, lastName, password string, hasher PasswordHasher) (*Customer, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName("First name", firstName, 50); err != nil {
		return nil, err
	}
	if err := validateName("Last name", lastName, 50); err != nil {
		return nil, err
	}

	var normalizedPhone *string
	if phone != nil && strings.TrimSpace(*phone) != "" {
		p := strings.TrimSpace(*phone)
		if !IsValidPhone(p) {
			return nil, shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
		normalizedPhone = &p
	}

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Customer{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Phone:        normalizedPhone,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: hash,
		IsActive:     true,
	}, nil
}

// FullName joins first and last name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// VerifyPassword checks a plaintext password against the stored hash
func (c *Customer) VerifyPassword(password string, hasher PasswordHasher) bool {
	return hasher.Compare(c.PasswordHash, password)
}

// RecordLogin stamps the last successful login
func (c *Customer) RecordLogin() {
	now := time.Now()
	c.LastLoginAt = &now
	c.UpdatedAt = now
}

// Deactivate disables login
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.Touch()
}

// CustomerFilter contains filter options for listing customers
type CustomerFilter struct {
	shared.Filter
	IsActive *bool
}
