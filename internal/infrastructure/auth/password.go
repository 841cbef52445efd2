package auth

import (
	"fmt"

	"github.com/shopadmin/backend/internal/domain/identity"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with a configurable bcrypt cost
type BcryptHasher struct {
	cost int
}

var _ identity.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher. The cost must be within bcrypt's 4..31 range.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash implements identity.PasswordHasher
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare implements identity.PasswordHasher
func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
