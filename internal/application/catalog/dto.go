package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uuid.UUID
	ImageURL    *string
	SortOrder   int
	IsActive    *bool
}

// UpdateCategoryRequest represents a partial category update.
// ParentSet distinguishes "leave parent alone" from "move"; with ParentSet
// and a nil ParentID the category becomes a root.
type UpdateCategoryRequest struct {
	Name        *string
	Slug        *string
	Description *string
	ImageURL    *string
	SortOrder   *int
	IsActive    *bool
	ParentSet   bool
	ParentID    *uuid.UUID
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Path        string     `json:"path"`
	Level       int        `json:"level"`
	ImageURL    *string    `json:"image_url"`
	SortOrder   int        `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		Path:        c.Path,
		Level:       c.Level,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryTreeNode represents a category node in tree structure
type CategoryTreeNode struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	ParentID  *uuid.UUID         `json:"parent_id"`
	Level     int                `json:"level"`
	ImageURL  *string            `json:"image_url"`
	SortOrder int                `json:"sort_order"`
	IsActive  bool               `json:"is_active"`
	Children  []CategoryTreeNode `json:"children"`
}

// CreateAttributeRequest represents a request to create an attribute
type CreateAttributeRequest struct {
	Name         string
	Slug         string
	Type         catalog.AttributeType
	Unit         string
	IsFilterable bool
	IsRequired   bool
	SortOrder    int
}

// UpdateAttributeRequest represents a partial attribute update
type UpdateAttributeRequest struct {
	Name         *string
	Slug         *string
	Type         *catalog.AttributeType
	Unit         *string
	IsFilterable *bool
	IsRequired   *bool
	SortOrder    *int
	IsActive     *bool
}

// AttributeValueRequest creates or replaces an attribute value
type AttributeValueRequest struct {
	Value     string
	Slug      string
	ColorHex  *string
	SortOrder int
}

// AttributeValueResponse represents an attribute value in API responses
type AttributeValueResponse struct {
	ID          uuid.UUID `json:"id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Value       string    `json:"value"`
	Slug        string    `json:"slug"`
	ColorHex    *string   `json:"color_hex"`
	SortOrder   int       `json:"sort_order"`
}

// ToAttributeValueResponse converts a domain AttributeValue
func ToAttributeValueResponse(v *catalog.AttributeValue) AttributeValueResponse {
	return AttributeValueResponse{
		ID:          v.ID,
		AttributeID: v.AttributeID,
		Value:       v.Value,
		Slug:        v.Slug,
		ColorHex:    v.ColorHex,
		SortOrder:   v.SortOrder,
	}
}

// AttributeResponse represents an attribute with its values
type AttributeResponse struct {
	ID           uuid.UUID                `json:"id"`
	Name         string                   `json:"name"`
	Slug         string                   `json:"slug"`
	Type         catalog.AttributeType    `json:"type"`
	Unit         string                   `json:"unit"`
	IsFilterable bool                     `json:"is_filterable"`
	IsRequired   bool                     `json:"is_required"`
	SortOrder    int                      `json:"sort_order"`
	IsActive     bool                     `json:"is_active"`
	Values       []AttributeValueResponse `json:"values"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ToAttributeResponse converts a domain Attribute
func ToAttributeResponse(a *catalog.Attribute) AttributeResponse {
	values := make([]AttributeValueResponse, len(a.Values))
	for i := range a.Values {
		values[i] = ToAttributeValueResponse(&a.Values[i])
	}
	return AttributeResponse{
		ID:           a.ID,
		Name:         a.Name,
		Slug:         a.Slug,
		Type:         a.Type,
		Unit:         a.Unit,
		IsFilterable: a.IsFilterable,
		IsRequired:   a.IsRequired,
		SortOrder:    a.SortOrder,
		IsActive:     a.IsActive,
		Values:       values,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AttributeSetRequest creates an attribute set or replaces one wholesale
type AttributeSetRequest struct {
	Name         string
	Slug         string
	Description  string
	IsActive     *bool
	AttributeIDs []uuid.UUID
}

// UpdateAttributeSetRequest is a partial update; a non-nil AttributeIDs
// replaces the member list
type UpdateAttributeSetRequest struct {
	Name         *string
	Slug         *string
	Description  *string
	IsActive     *bool
	AttributeIDs []uuid.UUID
}

// AttributeSetResponse represents an attribute set with its member attributes
type AttributeSetResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	IsActive    bool                `json:"is_active"`
	Attributes  []AttributeResponse `json:"attributes"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToAttributeSetResponse converts a set; members follow set order and
// attributes missing from members are skipped
func ToAttributeSetResponse(s *catalog.AttributeSet, members []catalog.Attribute) AttributeSetResponse {
	byID := make(map[uuid.UUID]*catalog.Attribute, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}
	attrs := make([]AttributeResponse, 0, len(s.AttributeIDs))
	for _, id := range s.AttributeIDs {
		if a, ok := byID[id]; ok {
			attrs = append(attrs, ToAttributeResponse(a))
		}
	}
	return AttributeSetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		IsActive:    s.IsActive,
		Attributes:  attrs,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
