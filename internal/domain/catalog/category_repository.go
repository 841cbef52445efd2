package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// CategoryFilter narrows category listings
type CategoryFilter struct {
	shared.Filter
	ParentID *uuid.UUID
	RootOnly bool
	IsActive *bool
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns categories matching the filter with the total count
	FindAll(ctx context.Context, filter CategoryFilter) ([]Category, int64, error)

	// FindAllForTree returns every category ordered for tree assembly
	FindAllForTree(ctx context.Context, activeOnly bool) ([]Category, error)

	// FindDescendants finds all descendants of a category (using materialized path)
	FindDescendants(ctx context.Context, category *Category) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsBySlug checks if another category already uses slug.
	// excludeID may be uuid.Nil.
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// SaveMoved persists a re-parented category and rewrites the
	// materialized path and level of its descendants in one transaction
	SaveMoved(ctx context.Context, category *Category, oldPath string, levelDelta int) error

	// SubtreeHeight returns how many levels exist below the category
	SubtreeHeight(ctx context.Context, category *Category) (int, error)
}
