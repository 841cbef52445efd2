package persistence

import (
	"context"
	"testing"

	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdmin(t *testing.T, email string, role identity.Role, perms ...identity.Permission) *identity.Admin {
	t.Helper()
	admin, err := identity.NewAdmin(email, "Test Admin", "Secret123", role, perms, plainHasher{})
	require.NoError(t, err)
	return admin
}

func TestGormAdminRepository_CreateAndFind(t *testing.T) {
	repo := NewGormAdminRepository(setupTestDB(t))
	ctx := context.Background()

	admin := newTestAdmin(t, "Editor@Example.com", identity.RoleAdmin,
		identity.PermCategoryRead, identity.PermCategoryWrite)
	require.NoError(t, repo.Create(ctx, admin))

	t.Run("finds by id with permissions", func(t *testing.T) {
		found, err := repo.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", found.Email)
		assert.Equal(t, identity.RoleAdmin, found.Role)
		assert.ElementsMatch(t,
			[]identity.Permission{identity.PermCategoryRead, identity.PermCategoryWrite},
			found.Permissions)
		assert.True(t, found.IsActive)
	})

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  EDITOR@example.COM ")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, found.ID)

		exists, err := repo.ExistsByEmail(ctx, "editor@EXAMPLE.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := newTestAdmin(t, "editor@example.com", identity.RoleAdmin)
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("missing admin is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAdminRepository_Update(t *testing.T) {
	repo := NewGormAdminRepository(setupTestDB(t))
	ctx := context.Background()

	admin := newTestAdmin(t, "ops@example.com", identity.RoleAdmin, identity.PermAdminRead)
	require.NoError(t, repo.Create(ctx, admin))

	admin.Deactivate()
	admin.SetPermissions(nil)
	require.NoError(t, repo.Update(ctx, admin))

	found, err := repo.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Empty(t, found.Permissions)
	assert.Equal(t, admin.CreatedAt.Unix(), found.CreatedAt.Unix())

	t.Run("update of unknown admin is not found", func(t *testing.T) {
		ghost := newTestAdmin(t, "ghost@example.com", identity.RoleAdmin)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})
}

func TestGormAdminRepository_FindAll(t *testing.T) {
	repo := NewGormAdminRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestAdmin(t, "root@example.com", identity.RoleSuperAdmin)))
	for _, email := range []string{"alice@example.com", "bob@example.com", "carol_x@example.com"} {
		require.NoError(t, repo.Create(ctx, newTestAdmin(t, email, identity.RoleAdmin)))
	}
	inactive := newTestAdmin(t, "dave@example.com", identity.RoleAdmin)
	inactive.Deactivate()
	require.NoError(t, repo.Create(ctx, inactive))

	t.Run("paginates and counts", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, identity.AdminFilter{
			Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "email", OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, items, 2)
		assert.Equal(t, "carol_x@example.com", items[0].Email)
		assert.Equal(t, "dave@example.com", items[1].Email)
	})

	t.Run("filters by role and status", func(t *testing.T) {
		role := identity.RoleSuperAdmin
		items, total, err := repo.FindAll(ctx, identity.AdminFilter{Filter: shared.DefaultFilter(), Role: &role})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "root@example.com", items[0].Email)

		active := false
		_, total, err = repo.FindAll(ctx, identity.AdminFilter{Filter: shared.DefaultFilter(), IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("search escapes LIKE wildcards", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, identity.AdminFilter{Filter: shared.Filter{Search: "_x"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "carol_x@example.com", items[0].Email)
	})
}

func TestGormCustomerRepository(t *testing.T) {
	repo := NewGormCustomerRepository(setupTestDB(t))
	ctx := context.Background()

	phone := "+15551234567"
	customer, err := identity.NewCustomer("jane@example.com", &phone, "Jane", "Doe", "Secret123", plainHasher{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, customer))

	t.Run("finds by email and phone", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		require.NotNil(t, found.Phone)
		assert.Equal(t, phone, *found.Phone)

		exists, err := repo.ExistsByPhone(ctx, phone)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByPhone(ctx, "+15550000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate phone is a conflict", func(t *testing.T) {
		other, err := identity.NewCustomer("john@example.com", &phone, "John", "Doe", "Secret123", plainHasher{})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, other), shared.ErrAlreadyExists)
	})

	t.Run("customers without phone do not collide", func(t *testing.T) {
		a, err := identity.NewCustomer("a@example.com", nil, "A", "A", "Secret123", plainHasher{})
		require.NoError(t, err)
		b, err := identity.NewCustomer("b@example.com", nil, "B", "B", "Secret123", plainHasher{})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))
	})

	t.Run("searches by last name", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, identity.CustomerFilter{Filter: shared.Filter{Search: "doe"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Jane", items[0].FirstName)
	})
}
