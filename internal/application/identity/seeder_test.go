package identity

import (
	"context"
	"testing"

	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSeeder_SeedSuperAdmin(t *testing.T) {
	ctx := context.Background()
	input := SeedInput{Email: " Root@Example.com ", Password: testPassword}

	t.Run("creates superadmin on empty database", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByEmail", ctx, "root@example.com").Return(nil, shared.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(a *identity.Admin) bool {
			return a.IsSuperAdmin() && a.Name == "Super Admin" && a.Email == "root@example.com"
		})).Return(nil)

		result, err := NewSeeder(repo, plainHasher{}, zap.NewNop()).SeedSuperAdmin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, SeedCreated, result.Status)
		assert.NotEmpty(t, result.AdminID)
		repo.AssertExpectations(t)
	})

	t.Run("second run is skipped and leaves account untouched", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		existing := newAdmin(identity.RoleAdmin)
		repo := new(MockAdminRepository)
		repo.On("FindByEmail", ctx, "root@example.com").Return(existing, nil)

		result, err := NewSeeder(repo, plainHasher{}, zap.New(core)).SeedSuperAdmin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, SeedSkipped, result.Status)
		assert.Equal(t, existing.ID.String(), result.AdminID)
		assert.Equal(t, identity.RoleAdmin, existing.Role)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Equal(t, 1, logs.FilterMessage("Superadmin seed skipped, account exists").Len())
	})

	t.Run("lost insert race counts as skipped", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByEmail", ctx, "root@example.com").Return(nil, shared.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		result, err := NewSeeder(repo, plainHasher{}, zap.NewNop()).SeedSuperAdmin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, SeedSkipped, result.Status)
	})

	t.Run("invalid inputs fail fast", func(t *testing.T) {
		repo := new(MockAdminRepository)
		seeder := NewSeeder(repo, plainHasher{}, zap.NewNop())

		_, err := seeder.SeedSuperAdmin(ctx, SeedInput{Email: "not-an-email", Password: testPassword})
		assert.True(t, shared.IsDomainError(err, "INVALID_EMAIL"))

		repo.On("FindByEmail", ctx, "root@example.com").Return(nil, shared.ErrNotFound)
		_, err = seeder.SeedSuperAdmin(ctx, SeedInput{Email: "root@example.com", Password: "weak"})
		assert.True(t, shared.IsDomainError(err, "INVALID_PASSWORD"))
	})
}
