package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/media"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormImageRepository implements ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// Save records an uploaded image
func (r *GormImageRepository) Save(ctx context.Context, image *media.UploadedImage) error {
	return upsert(ctx, r.db, models.UploadedImageModelFromDomain(image))
}

// FindByID finds an uploaded image by ID
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*media.UploadedImage, error) {
	var model models.UploadedImageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByKey finds an uploaded image by its storage key
func (r *GormImageRepository) FindByKey(ctx context.Context, key string) (*media.UploadedImage, error) {
	var model models.UploadedImageModel
	if err := r.db.WithContext(ctx).Where("object_key = ?", key).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns uploads matching the filter, newest first by default
func (r *GormImageRepository) FindAll(ctx context.Context, filter media.UploadFilter) ([]media.UploadedImage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UploadedImageModel{})
	query = applySearch(query, filter.Search, "original_name", "object_key")
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	page := filter.Filter
	if page.OrderBy == "" {
		page.OrderBy, page.OrderDir = "created_at", "desc"
	}

	var rows []models.UploadedImageModel
	total, err := findPage(query, page, UploadSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	images := make([]media.UploadedImage, len(rows))
	for i := range rows {
		images[i] = *rows[i].ToDomain()
	}
	return images, total, nil
}

// Delete removes an upload record
func (r *GormImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UploadedImageModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormImageRepository implements ImageRepository
var _ media.ImageRepository = (*GormImageRepository)(nil)
