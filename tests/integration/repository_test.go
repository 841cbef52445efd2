package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
)

func TestPostgresCategoryRepository(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	repo := persistence.NewGormCategoryRepository(tdb.DB)
	ctx := context.Background()

	root, err := catalog.NewCategory("Footwear", "")
	require.NoError(t, err)
	running, err := catalog.NewChildCategory("Running", "", root)
	require.NoError(t, err)
	trail, err := catalog.NewChildCategory("Trail", "", running)
	require.NoError(t, err)
	outlet, err := catalog.NewCategory("Outlet", "")
	require.NoError(t, err)
	for _, c := range []*catalog.Category{root, running, trail, outlet} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("unique slug maps to already exists", func(t *testing.T) {
		dup, err := catalog.NewCategory("Footwear", "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("descendants use the path prefix", func(t *testing.T) {
		desc, err := repo.FindDescendants(ctx, root)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(desc))
		for _, d := range desc {
			ids = append(ids, d.ID)
		}
		assert.ElementsMatch(t, []uuid.UUID{running.ID, trail.ID}, ids)

		h, err := repo.SubtreeHeight(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, 2, h)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, catalog.CategoryFilter{Filter: shared.Filter{Search: "RUN"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, running.ID, items[0].ID)
	})

	t.Run("move rewrites the subtree", func(t *testing.T) {
		oldLevel := running.Level
		oldPath, err := running.MoveTo(outlet, 1)
		require.NoError(t, err)
		require.NoError(t, repo.SaveMoved(ctx, running, oldPath, running.Level-oldLevel))

		moved, err := repo.FindByID(ctx, trail.ID)
		require.NoError(t, err)
		assert.Equal(t, outlet.Path+"/"+running.ID.String()+"/"+trail.ID.String(), moved.Path)
		assert.Equal(t, 2, moved.Level)

		has, err := repo.HasChildren(ctx, root.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("delete leaf", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, trail.ID))
		_, err := repo.FindByID(ctx, trail.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPostgresAttributeCascades(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	attrs := persistence.NewGormAttributeRepository(tdb.DB)
	sets := persistence.NewGormAttributeSetRepository(tdb.DB)
	ctx := context.Background()

	color, err := catalog.NewAttribute("Color", "", catalog.AttributeTypeColor)
	require.NoError(t, err)
	require.NoError(t, attrs.Save(ctx, color))
	size, err := catalog.NewAttribute("Size", "", catalog.AttributeTypeSelect)
	require.NoError(t, err)
	require.NoError(t, attrs.Save(ctx, size))

	red := "#FF0000"
	value, err := catalog.NewAttributeValue(color, "Red", "", &red, 0)
	require.NoError(t, err)
	require.NoError(t, attrs.SaveValue(ctx, value))

	set, err := catalog.NewAttributeSet("Shoes", "", []uuid.UUID{size.ID, color.ID})
	require.NoError(t, err)
	require.NoError(t, sets.Save(ctx, set))

	require.NoError(t, attrs.Delete(ctx, color.ID))

	count, err := attrs.CountValues(ctx, color.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	found, err := sets.FindByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{size.ID}, found.AttributeIDs)
}

func TestPostgresIdentityRepositories(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	admins := persistence.NewGormAdminRepository(tdb.DB)
	customers := persistence.NewGormCustomerRepository(tdb.DB)
	ctx := context.Background()

	admin, err := identity.NewAdmin("Catalog@Shop.test", "Catalog", "Secret123", identity.RoleAdmin,
		[]identity.Permission{identity.PermCategoryWrite}, plainHasher{})
	require.NoError(t, err)
	require.NoError(t, admins.Create(ctx, admin))

	found, err := admins.FindByEmail(ctx, "CATALOG@shop.test")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.Equal(t, []identity.Permission{identity.PermCategoryWrite}, found.Permissions)

	phone := "+15550001111"
	customer, err := identity.NewCustomer("buyer@shop.test", &phone, "Grace", "Hopper", "Secret123", plainHasher{})
	require.NoError(t, err)
	require.NoError(t, customers.Create(ctx, customer))

	taken, err := customers.ExistsByPhone(ctx, phone)
	require.NoError(t, err)
	assert.True(t, taken)

	dup, err := identity.NewCustomer("buyer@shop.test", nil, "Other", "Buyer", "Secret123", plainHasher{})
	require.NoError(t, err)
	assert.ErrorIs(t, customers.Create(ctx, dup), shared.ErrAlreadyExists)
}
