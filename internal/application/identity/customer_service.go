package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// CustomerService exposes customer accounts to admins
type CustomerService struct {
	customers identity.CustomerRepository
}

// NewCustomerService creates a new customer query service
func NewCustomerService(customers identity.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Get returns a single customer
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerProfile, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := CustomerProfileFrom(customer)
	return &profile, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, filter identity.CustomerFilter) (shared.Paginated[CustomerProfile], error) {
	filter.Filter = filter.Filter.Normalize()

	customers, total, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CustomerProfile]{}, err
	}

	items := make([]CustomerProfile, len(customers))
	for i, c := range customers {
		items[i] = CustomerProfileFrom(c)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
