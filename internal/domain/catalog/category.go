package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// Category represents a node of the storefront category tree.
// Path is a materialized path of ancestor IDs ("root/child/self") kept in
// sync with ParentID so subtree queries and cycle checks are prefix tests.
type Category struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
	ParentID    *uuid.UUID
	Path        string
	Level       int
	ImageURL    *string
	SortOrder   int
	IsActive    bool
}

// NewCategory creates a new root category.
// An empty slug is derived from the name.
func NewCategory(name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(name, slug)
	if err != nil {
		return nil, err
	}

	category := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		IsActive:   true,
		Level:      0,
	}
	category.Path = category.ID.String()
	return category, nil
}

// NewChildCategory creates a new category under parent
func NewChildCategory(name, slug string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	category, err := NewCategory(name, slug)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	category.ParentID = &parentID
	category.Level = parent.Level + 1
	category.Path = parent.Path + "/" + category.ID.String()
	return category, nil
}

// Rename changes the display name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetSlug replaces the slug after validating it
func (c *Category) SetSlug(slug string) error {
	if err := shared.ValidateSlug(slug); err != nil {
		return err
	}
	c.Slug = slug
	c.Touch()
	return nil
}

// SetDescription replaces the description
func (c *Category) SetDescription(description string) error {
	if utf8.RuneCountInString(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	c.Description = description
	c.Touch()
	return nil
}

// SetImageURL sets or clears the category image
func (c *Category) SetImageURL(url *string) {
	if url != nil && strings.TrimSpace(*url) == "" {
		url = nil
	}
	c.ImageURL = url
	c.Touch()
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int) error {
	if order < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}
	c.SortOrder = order
	c.Touch()
	return nil
}

// SetActive toggles storefront visibility
func (c *Category) SetActive(active bool) {
	c.IsActive = active
	c.Touch()
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsAncestorOf returns true if this category is an ancestor of the given category
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

// IsDescendantOf returns true if this category is a descendant of the given category
func (c *Category) IsDescendantOf(other *Category) bool {
	if other == nil {
		return false
	}
	return other.IsAncestorOf(c)
}

// GetAncestorIDs returns the IDs of all ancestor categories, root first
func (c *Category) GetAncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	if len(parts) <= 1 {
		return nil
	}
	ancestors := make([]uuid.UUID, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(part); err == nil {
			ancestors = append(ancestors, id)
		}
	}
	return ancestors
}

// MoveTo re-parents the category. A nil parent makes it a root.
// subtreeHeight is the number of levels below this category, used to keep
// the whole subtree within MaxCategoryDepth. The returned old path is needed
// to rewrite descendant paths.
func (c *Category) MoveTo(parent *Category, subtreeHeight int) (oldPath string, err error) {
	oldPath = c.Path

	if parent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = c.ID.String()
		c.Touch()
		return oldPath, nil
	}

	if parent.ID == c.ID {
		return oldPath, shared.NewDomainError("CIRCULAR_REFERENCE", "Category cannot be its own parent")
	}
	if c.IsAncestorOf(parent) {
		return oldPath, shared.NewDomainError("CIRCULAR_REFERENCE", "Cannot move category under one of its descendants")
	}
	if parent.Level+1+subtreeHeight >= MaxCategoryDepth {
		return oldPath, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	parentID := parent.ID
	c.ParentID = &parentID
	c.Level = parent.Level + 1
	c.Path = parent.Path + "/" + c.ID.String()
	c.Touch()
	return oldPath, nil
}

func resolveSlug(name, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = shared.Slugify(name)
		if slug == "" {
			return "", shared.NewDomainError("INVALID_SLUG", "Slug cannot be derived from name; provide one explicitly")
		}
		return slug, nil
	}
	if err := shared.ValidateSlug(slug); err != nil {
		return "", err
	}
	return slug, nil
}

// validateCategoryName validates the category name
func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
