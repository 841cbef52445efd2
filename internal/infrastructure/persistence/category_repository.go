package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a category by its slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns categories matching the filter with the total count.
// Without an explicit order categories are listed by sort_order ascending.
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter catalog.CategoryFilter) ([]catalog.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	query = applySearch(query, filter.Search, "name", "slug")
	switch {
	case filter.RootOnly:
		query = query.Where("parent_id IS NULL")
	case filter.ParentID != nil:
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	page := filter.Filter
	if page.OrderBy == "" {
		page.OrderBy, page.OrderDir = "sort_order", "asc"
	}

	var rows []models.CategoryModel
	total, err := findPage(query, page, CategorySortFields, "sort_order", &rows)
	if err != nil {
		return nil, 0, err
	}
	return toCategories(rows), total, nil
}

// FindAllForTree returns every category ordered by depth, then sort order and name
func (r *GormCategoryRepository) FindAllForTree(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []models.CategoryModel
	if err := query.Order("level ASC, sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// FindDescendants finds all descendants of a category (using materialized path)
func (r *GormCategoryRepository) FindDescendants(ctx context.Context, category *catalog.Category) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("path LIKE ?", category.Path+"/%").
		Order("level ASC, sort_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return upsert(ctx, r.db, models.CategoryModelFromDomain(category))
}

// SaveMoved persists a re-parented category and shifts the paths and levels of its subtree
func (r *GormCategoryRepository) SaveMoved(ctx context.Context, category *catalog.Category, oldPath string, levelDelta int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateAll(ctx, tx, models.CategoryModelFromDomain(category)); err != nil {
			return err
		}
		if oldPath == category.Path {
			return nil
		}
		return tx.Model(&models.CategoryModel{}).
			Where("path LIKE ?", oldPath+"/%").
			Updates(map[string]any{
				"path":  gorm.Expr("CAST(? AS TEXT) || SUBSTR(path, CAST(? AS INTEGER))", category.Path, len(oldPath)+1),
				"level": gorm.Expr("level + ?", levelDelta),
			}).Error
	})
}

// SubtreeHeight returns how many levels exist below the category
func (r *GormCategoryRepository) SubtreeHeight(ctx context.Context, category *catalog.Category) (int, error) {
	var deepest int
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("path LIKE ?", category.Path+"/%").
		Select("COALESCE(MAX(level), ?)", category.Level).
		Scan(&deepest).Error; err != nil {
		return 0, err
	}
	return max(deepest-category.Level, 0), nil
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasChildren checks if a category has any children
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug checks if another category already uses slug
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(ctx, r.db, &models.CategoryModel{}, slug, excludeID)
}

func toCategories(rows []models.CategoryModel) []catalog.Category {
	out := make([]catalog.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
