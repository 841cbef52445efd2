package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// AttributeFilter narrows attribute listings
type AttributeFilter struct {
	shared.Filter
	Type         *AttributeType
	IsFilterable *bool
	IsActive     *bool
}

// AttributeRepository defines the interface for attribute and attribute value persistence
type AttributeRepository interface {
	// FindByID loads an attribute together with its values
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	FindAll(ctx context.Context, filter AttributeFilter) ([]Attribute, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Attribute, error)
	Save(ctx context.Context, attribute *Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	FindValueByID(ctx context.Context, attributeID, valueID uuid.UUID) (*AttributeValue, error)
	SaveValue(ctx context.Context, value *AttributeValue) error
	DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID) error
	CountValues(ctx context.Context, attributeID uuid.UUID) (int64, error)
	ValueSlugExists(ctx context.Context, attributeID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
}

// AttributeSetRepository defines the interface for attribute set persistence
type AttributeSetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AttributeSet, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AttributeSet, int64, error)
	Save(ctx context.Context, set *AttributeSet) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}
