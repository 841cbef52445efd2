package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter catalog.CategoryFilter) ([]catalog.Category, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) FindAllForTree(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindDescendants(ctx context.Context, category *catalog.Category) ([]catalog.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) SaveMoved(ctx context.Context, category *catalog.Category, oldPath string, levelDelta int) error {
	args := m.Called(ctx, category, oldPath, levelDelta)
	return args.Error(0)
}

func (m *MockCategoryRepository) SubtreeHeight(ctx context.Context, category *catalog.Category) (int, error) {
	args := m.Called(ctx, category)
	return args.Int(0), args.Error(1)
}

// MockAttributeRepository is a mock implementation of catalog.AttributeRepository
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) FindAll(ctx context.Context, filter catalog.AttributeFilter) ([]catalog.Attribute, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Attribute), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttributeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Attribute, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	args := m.Called(ctx, attribute)
	return args.Error(0)
}

func (m *MockAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttributeRepository) FindValueByID(ctx context.Context, attributeID, valueID uuid.UUID) (*catalog.AttributeValue, error) {
	args := m.Called(ctx, attributeID, valueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AttributeValue), args.Error(1)
}

func (m *MockAttributeRepository) SaveValue(ctx context.Context, value *catalog.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockAttributeRepository) DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID) error {
	args := m.Called(ctx, attributeID, valueID)
	return args.Error(0)
}

func (m *MockAttributeRepository) CountValues(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttributeRepository) ValueSlugExists(ctx context.Context, attributeID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, attributeID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockAttributeSetRepository is a mock implementation of catalog.AttributeSetRepository
type MockAttributeSetRepository struct {
	mock.Mock
}

func (m *MockAttributeSetRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AttributeSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AttributeSet), args.Error(1)
}

func (m *MockAttributeSetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.AttributeSet, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.AttributeSet), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttributeSetRepository) Save(ctx context.Context, set *catalog.AttributeSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockAttributeSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeSetRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func mustCategory(name string, parent *catalog.Category) *catalog.Category {
	var (
		c   *catalog.Category
		err error
	)
	if parent == nil {
		c, err = catalog.NewCategory(name, "")
	} else {
		c, err = catalog.NewChildCategory(name, "", parent)
	}
	if err != nil {
		panic(err)
	}
	return c
}

func mustAttribute(name string, t catalog.AttributeType) *catalog.Attribute {
	a, err := catalog.NewAttribute(name, "", t)
	if err != nil {
		panic(err)
	}
	return a
}
