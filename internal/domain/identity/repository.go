package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminRepository defines the interface for admin persistence
type AdminRepository interface {
	// Create inserts a new admin; duplicate emails yield shared.ErrAlreadyExists
	Create(ctx context.Context, admin *Admin) error

	// Update persists changes to an existing admin
	Update(ctx context.Context, admin *Admin) error

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByEmail finds an admin by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Admin, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns admins matching the filter with the total count
	FindAll(ctx context.Context, filter AdminFilter) ([]*Admin, int64, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]*Customer, int64, error)
}
