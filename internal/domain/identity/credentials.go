package identity

import (
	"regexp"
	"strings"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

	passwordLower = regexp.MustCompile(`[a-z]`)
	passwordUpper = regexp.MustCompile(`[A-Z]`)
	passwordDigit = regexp.MustCompile(`[0-9]`)
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// ValidatePassword enforces the password complexity policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 64 characters")
	}
	if !passwordLower.MatchString(password) || !passwordUpper.MatchString(password) || !passwordDigit.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

// IsValidPassword is the boolean form of ValidatePassword
func IsValidPassword(password string) bool {
	return ValidatePassword(password) == nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// IsValidPhone reports whether phone looks like an international number
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func validateName(field, name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", field+" cannot be empty")
	}
	if len([]rune(name)) > max {
		return shared.NewDomainError("INVALID_NAME", field+" is too long")
	}
	return nil
}
