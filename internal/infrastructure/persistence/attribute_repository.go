package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttributeRepository implements AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

func preloadValues(db *gorm.DB) *gorm.DB {
	return db.Preload("Values", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, value ASC")
	})
}

// FindByID loads an attribute together with its values
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	var model models.AttributeModel
	if err := preloadValues(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns attributes matching the filter with the total count
func (r *GormAttributeRepository) FindAll(ctx context.Context, filter catalog.AttributeFilter) ([]catalog.Attribute, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AttributeModel{})
	query = applySearch(query, filter.Search, "name", "slug")
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsFilterable != nil {
		query = query.Where("is_filterable = ?", *filter.IsFilterable)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	page := filter.Filter
	if page.OrderBy == "" {
		page.OrderBy, page.OrderDir = "sort_order", "asc"
	}

	var rows []models.AttributeModel
	total, err := findPage(preloadValues(query), page, AttributeSortFields, "sort_order", &rows)
	if err != nil {
		return nil, 0, err
	}
	return toAttributes(rows), total, nil
}

// FindByIDs loads the attributes with the given ids; missing ids are skipped
func (r *GormAttributeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Attribute, error) {
	if len(ids) == 0 {
		return []catalog.Attribute{}, nil
	}
	var rows []models.AttributeModel
	if err := preloadValues(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAttributes(rows), nil
}

// Save creates or updates an attribute; values are saved with SaveValue
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	return upsert(ctx, r.db, models.AttributeModelFromDomain(attribute))
}

// Delete removes an attribute, its values and its attribute set memberships
func (r *GormAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&models.AttributeSetItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_id = ?", id).Delete(&models.AttributeValueModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AttributeModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks if another attribute already uses slug
func (r *GormAttributeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(ctx, r.db, &models.AttributeModel{}, slug, excludeID)
}

// FindValueByID finds a value that belongs to attributeID
func (r *GormAttributeRepository) FindValueByID(ctx context.Context, attributeID, valueID uuid.UUID) (*catalog.AttributeValue, error) {
	var model models.AttributeValueModel
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND id = ?", attributeID, valueID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveValue creates or updates an attribute value
func (r *GormAttributeRepository) SaveValue(ctx context.Context, value *catalog.AttributeValue) error {
	return upsert(ctx, r.db, models.AttributeValueModelFromDomain(value))
}

// DeleteValue removes a value that belongs to attributeID
func (r *GormAttributeRepository) DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("attribute_id = ? AND id = ?", attributeID, valueID).
		Delete(&models.AttributeValueModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountValues counts the values of an attribute
func (r *GormAttributeRepository) CountValues(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttributeValueModel{}).
		Where("attribute_id = ?", attributeID).
		Count(&count).Error
	return count, err
}

// ValueSlugExists checks if another value of the attribute uses slug
func (r *GormAttributeRepository) ValueSlugExists(ctx context.Context, attributeID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(ctx, r.db.Where("attribute_id = ?", attributeID), &models.AttributeValueModel{}, slug, excludeID)
}

func toAttributes(rows []models.AttributeModel) []catalog.Attribute {
	out := make([]catalog.Attribute, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormAttributeRepository implements AttributeRepository
var _ catalog.AttributeRepository = (*GormAttributeRepository)(nil)

// GormAttributeSetRepository implements AttributeSetRepository using GORM
type GormAttributeSetRepository struct {
	db *gorm.DB
}

// NewGormAttributeSetRepository creates a new GormAttributeSetRepository
func NewGormAttributeSetRepository(db *gorm.DB) *GormAttributeSetRepository {
	return &GormAttributeSetRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByID loads an attribute set with its ordered member ids
func (r *GormAttributeSetRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AttributeSet, error) {
	var model models.AttributeSetModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns attribute sets matching the filter with the total count
func (r *GormAttributeSetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.AttributeSet, int64, error) {
	query := applySearch(r.db.WithContext(ctx).Model(&models.AttributeSetModel{}), filter.Search, "name", "slug")
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "name", "asc"
	}

	var rows []models.AttributeSetModel
	total, err := findPage(preloadItems(query), filter, AttributeSetSortFields, "name", &rows)
	if err != nil {
		return nil, 0, err
	}
	sets := make([]catalog.AttributeSet, len(rows))
	for i := range rows {
		sets[i] = *rows[i].ToDomain()
	}
	return sets, total, nil
}

// Save creates or updates a set and replaces its member list
func (r *GormAttributeSetRepository) Save(ctx context.Context, set *catalog.AttributeSet) error {
	model := models.AttributeSetModelFromDomain(set)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(ctx, tx, model); err != nil {
			return err
		}
		if err := tx.Where("attribute_set_id = ?", set.ID).Delete(&models.AttributeSetItem{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return translateError(tx.Omit(clause.Associations).Create(&model.Items).Error)
	})
}

// Delete removes a set and its memberships
func (r *GormAttributeSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_set_id = ?", id).Delete(&models.AttributeSetItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AttributeSetModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks if another attribute set already uses slug
func (r *GormAttributeSetRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugTaken(ctx, r.db, &models.AttributeSetModel{}, slug, excludeID)
}

// Ensure GormAttributeSetRepository implements AttributeSetRepository
var _ catalog.AttributeSetRepository = (*GormAttributeSetRepository)(nil)
