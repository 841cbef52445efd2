package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create inserts a new admin
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	return translateError(r.db.WithContext(ctx).Create(models.AdminModelFromDomain(admin)).Error)
}

// Update persists changes to an existing admin
func (r *GormAdminRepository) Update(ctx context.Context, admin *identity.Admin) error {
	return updateAll(ctx, r.db, models.AdminModelFromDomain(admin))
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an admin by email (case-insensitive)
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdminModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns admins matching the filter with the total count
func (r *GormAdminRepository) FindAll(ctx context.Context, filter identity.AdminFilter) ([]*identity.Admin, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminModel{})
	query = applySearch(query, filter.Search, "email", "name")
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var rows []models.AdminModel
	total, err := findPage(query, filter.Filter, AdminSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}

	admins := make([]*identity.Admin, len(rows))
	for i := range rows {
		admins[i] = rows[i].ToDomain()
	}
	return admins, total, nil
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
