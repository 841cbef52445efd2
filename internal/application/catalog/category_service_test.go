package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService(t *testing.T) (*CategoryService, *MockCategoryRepository, *cache.InMemoryStore) {
	t.Helper()
	repo := new(MockCategoryRepository)
	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewCategoryService(repo, store, zap.NewNop()), repo, store
}

func ptr[T any](v T) *T { return &v }

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("root with derived slug", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		repo.On("ExistsBySlug", mock.Anything, "home-garden", uuid.Nil).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "Home & Garden", SortOrder: 3})
		require.NoError(t, err)
		assert.Equal(t, "home-garden", resp.Slug)
		assert.Nil(t, resp.ParentID)
		assert.Equal(t, 0, resp.Level)
		assert.Equal(t, 3, resp.SortOrder)
		assert.True(t, resp.IsActive)
	})

	t.Run("child of existing parent", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		parent := mustCategory("Clothing", nil)
		repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		repo.On("ExistsBySlug", mock.Anything, "shirts", uuid.Nil).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "Shirts", ParentID: &parent.ID, IsActive: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, &parent.ID, resp.ParentID)
		assert.Equal(t, 1, resp.Level)
		assert.Equal(t, parent.Path+"/"+resp.ID.String(), resp.Path)
		assert.False(t, resp.IsActive)
	})

	t.Run("missing parent", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Orphan", ParentID: &id})
		assert.True(t, shared.IsDomainError(err, "INVALID_PARENT"))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		repo.On("ExistsBySlug", mock.Anything, "shoes", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Shoes"})
		assert.True(t, shared.IsDomainError(err, "ALREADY_EXISTS"))
	})

	t.Run("invalid explicit slug", func(t *testing.T) {
		svc, _, _ := newCategoryService(t)

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Shoes", Slug: "Bad Slug"})
		assert.True(t, shared.IsDomainError(err, "INVALID_SLUG"))
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial fields", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Shoes", nil)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("ExistsBySlug", mock.Anything, "footwear", cat.ID).Return(false, nil)
		repo.On("Save", mock.Anything, cat).Return(nil)

		resp, err := svc.Update(ctx, cat.ID, UpdateCategoryRequest{Name: ptr("Footwear"), Slug: ptr("footwear"), SortOrder: ptr(7)})
		require.NoError(t, err)
		assert.Equal(t, "Footwear", resp.Name)
		assert.Equal(t, "footwear", resp.Slug)
		assert.Equal(t, 7, resp.SortOrder)
		repo.AssertNotCalled(t, "SaveMoved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("slug taken by another category", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Shoes", nil)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("ExistsBySlug", mock.Anything, "boots", cat.ID).Return(true, nil)

		_, err := svc.Update(ctx, cat.ID, UpdateCategoryRequest{Slug: ptr("boots")})
		assert.True(t, shared.IsDomainError(err, "ALREADY_EXISTS"))
	})

	t.Run("move under own descendant", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		root := mustCategory("Root", nil)
		child := mustCategory("Child", root)
		repo.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		repo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		repo.On("SubtreeHeight", mock.Anything, root).Return(1, nil)

		_, err := svc.Update(ctx, root.ID, UpdateCategoryRequest{ParentSet: true, ParentID: &child.ID})
		assert.True(t, shared.IsDomainError(err, "CIRCULAR_REFERENCE"))
		repo.AssertNotCalled(t, "SaveMoved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("move under itself", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Loop", nil)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)

		_, err := svc.Update(ctx, cat.ID, UpdateCategoryRequest{ParentSet: true, ParentID: &cat.ID})
		assert.True(t, shared.IsDomainError(err, "CIRCULAR_REFERENCE"))
	})

	t.Run("explicit null parent makes a root", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		root := mustCategory("Root", nil)
		child := mustCategory("Child", root)
		oldPath := child.Path
		repo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		repo.On("SubtreeHeight", mock.Anything, child).Return(2, nil)
		repo.On("SaveMoved", mock.Anything, child, oldPath, -1).Return(nil)

		resp, err := svc.Update(ctx, child.ID, UpdateCategoryRequest{ParentSet: true})
		require.NoError(t, err)
		assert.Nil(t, resp.ParentID)
		assert.Equal(t, 0, resp.Level)
		assert.Equal(t, child.ID.String(), resp.Path)
		repo.AssertExpectations(t)
	})

	t.Run("move would exceed depth", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		l0 := mustCategory("L0", nil)
		l1 := mustCategory("L1", l0)
		l2 := mustCategory("L2", l1)
		l3 := mustCategory("L3", l2)
		moving := mustCategory("Moving", nil)
		repo.On("FindByID", mock.Anything, moving.ID).Return(moving, nil)
		repo.On("FindByID", mock.Anything, l3.ID).Return(l3, nil)
		repo.On("SubtreeHeight", mock.Anything, moving).Return(1, nil)

		_, err := svc.Update(ctx, moving.ID, UpdateCategoryRequest{ParentSet: true, ParentID: &l3.ID})
		assert.True(t, shared.IsDomainError(err, "MAX_DEPTH_EXCEEDED"))
	})

	t.Run("unknown new parent", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Cat", nil)
		missing := uuid.New()
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, cat.ID, UpdateCategoryRequest{ParentSet: true, ParentID: &missing})
		assert.True(t, shared.IsDomainError(err, "INVALID_PARENT"))
	})

	t.Run("same parent is a plain save", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		root := mustCategory("Root", nil)
		child := mustCategory("Child", root)
		repo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		repo.On("Save", mock.Anything, child).Return(nil)

		_, err := svc.Update(ctx, child.ID, UpdateCategoryRequest{ParentSet: true, ParentID: &root.ID})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "SubtreeHeight", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("leaf", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Leaf", nil)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("HasChildren", mock.Anything, cat.ID).Return(false, nil)
		repo.On("Delete", mock.Anything, cat.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, cat.ID))
		repo.AssertExpectations(t)
	})

	t.Run("with children", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		cat := mustCategory("Parent", nil)
		repo.On("FindByID", mock.Anything, cat.ID).Return(cat, nil)
		repo.On("HasChildren", mock.Anything, cat.ID).Return(true, nil)

		err := svc.Delete(ctx, cat.ID)
		assert.True(t, shared.IsDomainError(err, "HAS_CHILDREN"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrNotFound)
	})
}

func TestCategoryService_GetTree(t *testing.T) {
	ctx := context.Background()

	electronics := mustCategory("Electronics", nil)
	_ = electronics.SetSortOrder(1)
	books := mustCategory("Books", nil)
	phones := mustCategory("Phones", electronics)
	laptops := mustCategory("Laptops", electronics)
	flat := []catalog.Category{*electronics, *books, *phones, *laptops}

	t.Run("nests and orders by sort order then name", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		repo.On("FindAllForTree", mock.Anything, false).Return(flat, nil).Once()

		tree, err := svc.GetTree(ctx, false)
		require.NoError(t, err)
		require.Len(t, tree, 2)
		assert.Equal(t, "Books", tree[0].Name)
		assert.Equal(t, "Electronics", tree[1].Name)
		require.Len(t, tree[1].Children, 2)
		assert.Equal(t, "Laptops", tree[1].Children[0].Name)
		assert.Equal(t, "Phones", tree[1].Children[1].Name)
		assert.Empty(t, tree[0].Children)
	})

	t.Run("second read is served from cache until a write", func(t *testing.T) {
		svc, repo, _ := newCategoryService(t)
		repo.On("FindAllForTree", mock.Anything, true).Return(flat, nil).Twice()
		repo.On("ExistsBySlug", mock.Anything, "toys", uuid.Nil).Return(false, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.GetTree(ctx, true)
		require.NoError(t, err)
		cached, err := svc.GetTree(ctx, true)
		require.NoError(t, err)
		assert.Len(t, cached, 2)
		repo.AssertNumberOfCalls(t, "FindAllForTree", 1)

		_, err = svc.Create(ctx, CreateCategoryRequest{Name: "Toys"})
		require.NoError(t, err)

		_, err = svc.GetTree(ctx, true)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "FindAllForTree", 2)
	})

	t.Run("children of filtered-out parents are dropped", func(t *testing.T) {
		tree := buildCategoryTree([]catalog.Category{*books, *phones})
		require.Len(t, tree, 1)
		assert.Equal(t, "Books", tree[0].Name)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo, nil, zap.NewNop())
		repo.On("FindAllForTree", mock.Anything, false).Return(flat, nil)

		tree, err := svc.GetTree(ctx, false)
		require.NoError(t, err)
		assert.Len(t, tree, 2)
	})
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCategoryService(t)
	cat := mustCategory("Books", nil)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f catalog.CategoryFilter) bool {
		return f.RootOnly && f.Page == 1 && f.PageSize == 20
	})).Return([]catalog.Category{*cat}, int64(1), nil)

	page, err := svc.List(ctx, catalog.CategoryFilter{RootOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "books", page.Items[0].Slug)
}
