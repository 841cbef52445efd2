package identity

import (
	"context"

	"github.com/shopadmin/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// SeedStatus reports what SeedSuperAdmin did
type SeedStatus string

const (
	SeedCreated SeedStatus = "created"
	SeedSkipped SeedStatus = "skipped"
)

// SeedInput holds the superadmin account to ensure
type SeedInput struct {
	Email    string
	Password string
	Name     string
}

// SeedResult is the outcome of a seed run
type SeedResult struct {
	Status  SeedStatus
	AdminID string
	Email   string
}

// Seeder creates the initial superadmin
type Seeder struct {
	admins identity.AdminRepository
	hasher identity.PasswordHasher
	logger *zap.Logger
}

// NewSeeder creates a new superadmin seeder
func NewSeeder(admins identity.AdminRepository, hasher identity.PasswordHasher, logger *zap.Logger) *Seeder {
	return &Seeder{admins: admins, hasher: hasher, logger: logger}
}

// SeedSuperAdmin creates the superadmin unless an admin with the email
// already exists. Running it again is a no-op reported as skipped; the
// existing account is never modified.
func (s *Seeder) SeedSuperAdmin(ctx context.Context, input SeedInput) (*SeedResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info("Superadmin seed skipped, account exists", zap.String("email", email))
		return &SeedResult{Status: SeedSkipped, AdminID: existing.ID.String(), Email: email}, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = "Super Admin"
	}
	admin, err := identity.NewAdmin(email, name, input.Password, identity.RoleSuperAdmin, nil, s.hasher)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		// a concurrent seed won the race
		if isAlreadyExists(err) {
			return &SeedResult{Status: SeedSkipped, Email: email}, nil
		}
		return nil, err
	}

	s.logger.Info("Superadmin created", zap.String("admin_id", admin.ID.String()), zap.String("email", email))
	return &SeedResult{Status: SeedCreated, AdminID: admin.ID.String(), Email: email}, nil
}
