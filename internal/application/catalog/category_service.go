package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	treeCacheKeyAll    = "catalog:category-tree:all"
	treeCacheKeyActive = "catalog:category-tree:active"
	treeCacheTTL       = 10 * time.Minute
)

var errParentNotFound = shared.NewDomainError("INVALID_PARENT", "Parent category not found")

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	cache        cache.Store
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService. A nil store disables tree caching.
func NewCategoryService(categoryRepo catalog.CategoryRepository, store cache.Store, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        store,
		logger:       logger,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "Create")
	defer span.End()

	var (
		category *catalog.Category
		err      error
	)
	if req.ParentID != nil {
		parent, perr := s.findParent(ctx, *req.ParentID)
		if perr != nil {
			return nil, perr
		}
		category, err = catalog.NewChildCategory(req.Name, req.Slug, parent)
	} else {
		category, err = catalog.NewCategory(req.Name, req.Slug)
	}
	if err != nil {
		return nil, err
	}

	if err := category.SetDescription(req.Description); err != nil {
		return nil, err
	}
	if err := category.SetSortOrder(req.SortOrder); err != nil {
		return nil, err
	}
	category.SetImageURL(req.ImageURL)
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}

	if err := s.ensureSlugFree(ctx, category.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.invalidateTree(ctx)

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug))

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves a page of categories
func (s *CategoryService) List(ctx context.Context, filter catalog.CategoryFilter) (shared.Paginated[CategoryResponse], error) {
	filter.Filter = filter.Filter.Normalize()

	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetTree returns the nested category tree, served from cache when possible
func (s *CategoryService) GetTree(ctx context.Context, activeOnly bool) ([]CategoryTreeNode, error) {
	key := treeCacheKeyAll
	if activeOnly {
		key = treeCacheKeyActive
	}

	if s.cache != nil {
		cached, err := cache.GetJSON[[]CategoryTreeNode](ctx, s.cache, key)
		if err == nil {
			return *cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Category tree cache read failed", zap.Error(err))
		}
	}

	categories, err := s.categoryRepo.FindAllForTree(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	tree := buildCategoryTree(categories)

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, tree, treeCacheTTL); err != nil {
			s.logger.Warn("Category tree cache write failed", zap.Error(err))
		}
	}
	return tree, nil
}

// Update applies a partial update. Setting the parent re-roots the whole
// subtree; moving under itself or a descendant is rejected.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "Update")
	defer span.End()

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Slug != nil && *req.Slug != category.Slug {
		if err := category.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, category.Slug, category.ID); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := category.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		category.SetImageURL(req.ImageURL)
	}
	if req.SortOrder != nil {
		if err := category.SetSortOrder(*req.SortOrder); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}

	if req.ParentSet && !sameParent(category.ParentID, req.ParentID) {
		if err := s.move(ctx, category, req.ParentID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	} else if err := s.categoryRepo.Save(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.invalidateTree(ctx)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// move re-parents category and persists it together with its subtree
func (s *CategoryService) move(ctx context.Context, category *catalog.Category, parentID *uuid.UUID) error {
	var parent *catalog.Category
	if parentID != nil {
		if *parentID == category.ID {
			return shared.NewDomainError("CIRCULAR_REFERENCE", "Category cannot be its own parent")
		}
		p, err := s.findParent(ctx, *parentID)
		if err != nil {
			return err
		}
		parent = p
	}

	height, err := s.categoryRepo.SubtreeHeight(ctx, category)
	if err != nil {
		return err
	}

	oldLevel := category.Level
	oldPath, err := category.MoveTo(parent, height)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.SaveMoved(ctx, category, oldPath, category.Level-oldLevel); err != nil {
		return err
	}

	s.logger.Info("Category moved",
		zap.String("category_id", category.ID.String()),
		zap.String("old_path", oldPath),
		zap.String("new_path", category.Path))
	return nil
}

// Delete deletes a category without children
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete category with children")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateTree(ctx)

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *CategoryService) findParent(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	parent, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errParentNotFound
		}
		return nil, err
	}
	return parent, nil
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}
	return nil
}

func (s *CategoryService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, treeCacheKeyAll, treeCacheKeyActive); err != nil {
		s.logger.Warn("Category tree cache invalidation failed", zap.Error(err))
	}
}

func sameParent(current, next *uuid.UUID) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}

// buildCategoryTree nests a flat category list. Nodes whose parent is absent
// from the list (e.g. an inactive parent when filtering) are dropped along
// with their subtree.
func buildCategoryTree(categories []catalog.Category) []CategoryTreeNode {
	children := make(map[uuid.UUID][]*catalog.Category, len(categories))
	present := make(map[uuid.UUID]struct{}, len(categories))
	var roots []*catalog.Category

	for i := range categories {
		present[categories[i].ID] = struct{}{}
	}
	for i := range categories {
		cat := &categories[i]
		if cat.ParentID == nil {
			roots = append(roots, cat)
			continue
		}
		if _, ok := present[*cat.ParentID]; ok {
			children[*cat.ParentID] = append(children[*cat.ParentID], cat)
		}
	}

	var build func(nodes []*catalog.Category) []CategoryTreeNode
	build = func(nodes []*catalog.Category) []CategoryTreeNode {
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].SortOrder != nodes[j].SortOrder {
				return nodes[i].SortOrder < nodes[j].SortOrder
			}
			return nodes[i].Name < nodes[j].Name
		})
		out := make([]CategoryTreeNode, len(nodes))
		for i, cat := range nodes {
			out[i] = CategoryTreeNode{
				ID:        cat.ID,
				Name:      cat.Name,
				Slug:      cat.Slug,
				ParentID:  cat.ParentID,
				Level:     cat.Level,
				ImageURL:  cat.ImageURL,
				SortOrder: cat.SortOrder,
				IsActive:  cat.IsActive,
				Children:  build(children[cat.ID]),
			}
		}
		return out
	}
	return build(roots)
}
