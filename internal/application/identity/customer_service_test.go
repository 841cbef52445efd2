package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		customer := newCustomer()
		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		profile, err := NewCustomerService(repo).Get(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.Email, profile.Email)
		assert.Equal(t, "Jane", profile.FirstName)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewCustomerService(repo).Get(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	active := true

	t.Run("passes filter and paginates", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		customers := []*identity.Customer{newCustomer(), newCustomer(), newCustomer()}
		repo.On("FindAll", ctx, mock.MatchedBy(func(f identity.CustomerFilter) bool {
			return f.Page == 2 && f.PageSize == 3 && f.IsActive != nil && *f.IsActive && f.Search == "jane"
		})).Return(customers, int64(7), nil)

		page, err := NewCustomerService(repo).List(ctx, identity.CustomerFilter{
			Filter:   shared.Filter{Page: 2, PageSize: 3, Search: "jane"},
			IsActive: &active,
		})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindAll", ctx, mock.Anything).Return([]*identity.Customer(nil), int64(0), errors.New("db down"))

		_, err := NewCustomerService(repo).List(ctx, identity.CustomerFilter{})
		assert.EqualError(t, err, "db down")
	})
}
