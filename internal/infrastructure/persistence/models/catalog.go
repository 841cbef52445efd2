package models

import (
	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(120);not null;uniqueIndex:idx_categories_slug"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Path        string     `gorm:"type:varchar(500);not null;index"`
	Level       int        `gorm:"not null;default:0"`
	ImageURL    *string    `gorm:"type:varchar(500)"`
	SortOrder   int        `gorm:"not null;default:0"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ParentID:    uuidPtr(m.ParentID),
		Path:        m.Path,
		Level:       m.Level,
		ImageURL:    m.ImageURL,
		SortOrder:   m.SortOrder,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
	m.ParentID = uuidPtr(c.ParentID)
	m.Path = c.Path
	m.Level = c.Level
	m.ImageURL = c.ImageURL
	m.SortOrder = c.SortOrder
	m.IsActive = c.IsActive
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// AttributeModel is the persistence model for the Attribute domain entity.
type AttributeModel struct {
	BaseModel
	Name         string                `gorm:"type:varchar(100);not null"`
	Slug         string                `gorm:"type:varchar(120);not null;uniqueIndex:idx_attributes_slug"`
	Type         catalog.AttributeType `gorm:"type:varchar(20);not null"`
	Unit         string                `gorm:"type:varchar(20)"`
	IsFilterable bool                  `gorm:"not null;default:false"`
	IsRequired   bool                  `gorm:"not null;default:false"`
	SortOrder    int                   `gorm:"not null;default:0"`
	IsActive     bool                  `gorm:"not null;default:true"`
	Values       []AttributeValueModel `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "attributes"
}

// ToDomain converts the persistence model to a domain Attribute entity,
// including any preloaded values.
func (m *AttributeModel) ToDomain() *catalog.Attribute {
	values := make([]catalog.AttributeValue, len(m.Values))
	for i := range m.Values {
		values[i] = *m.Values[i].ToDomain()
	}
	return &catalog.Attribute{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Slug:         m.Slug,
		Type:         m.Type,
		Unit:         m.Unit,
		IsFilterable: m.IsFilterable,
		IsRequired:   m.IsRequired,
		SortOrder:    m.SortOrder,
		IsActive:     m.IsActive,
		Values:       values,
	}
}

// FromDomain populates the persistence model from a domain Attribute entity.
// Values are persisted separately.
func (m *AttributeModel) FromDomain(a *catalog.Attribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Name = a.Name
	m.Slug = a.Slug
	m.Type = a.Type
	m.Unit = a.Unit
	m.IsFilterable = a.IsFilterable
	m.IsRequired = a.IsRequired
	m.SortOrder = a.SortOrder
	m.IsActive = a.IsActive
}

// AttributeModelFromDomain creates a new persistence model from a domain Attribute entity.
func AttributeModelFromDomain(a *catalog.Attribute) *AttributeModel {
	m := &AttributeModel{}
	m.FromDomain(a)
	return m
}

// AttributeValueModel is the persistence model for the AttributeValue domain entity.
type AttributeValueModel struct {
	BaseModel
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_values_slug,priority:1"`
	Value       string    `gorm:"type:varchar(100);not null"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_attribute_values_slug,priority:2"`
	ColorHex    *string   `gorm:"type:varchar(7)"`
	SortOrder   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "attribute_values"
}

// ToDomain converts the persistence model to a domain AttributeValue entity.
func (m *AttributeValueModel) ToDomain() *catalog.AttributeValue {
	return &catalog.AttributeValue{
		BaseEntity:  m.BaseModel.ToDomain(),
		AttributeID: m.AttributeID,
		Value:       m.Value,
		Slug:        m.Slug,
		ColorHex:    m.ColorHex,
		SortOrder:   m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain AttributeValue entity.
func (m *AttributeValueModel) FromDomain(v *catalog.AttributeValue) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.AttributeID = v.AttributeID
	m.Value = v.Value
	m.Slug = v.Slug
	m.ColorHex = v.ColorHex
	m.SortOrder = v.SortOrder
}

// AttributeValueModelFromDomain creates a new persistence model from a domain AttributeValue entity.
func AttributeValueModelFromDomain(v *catalog.AttributeValue) *AttributeValueModel {
	m := &AttributeValueModel{}
	m.FromDomain(v)
	return m
}

// AttributeSetModel is the persistence model for the AttributeSet domain entity.
// Membership lives in attribute_set_items.
type AttributeSetModel struct {
	BaseModel
	Name        string             `gorm:"type:varchar(100);not null"`
	Slug        string             `gorm:"type:varchar(120);not null;uniqueIndex:idx_attribute_sets_slug"`
	Description string             `gorm:"type:text"`
	IsActive    bool               `gorm:"not null;default:true"`
	Items       []AttributeSetItem `gorm:"foreignKey:AttributeSetID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AttributeSetModel) TableName() string {
	return "attribute_sets"
}

// ToDomain converts the persistence model to a domain AttributeSet entity.
// Items must be preloaded and ordered by position.
func (m *AttributeSetModel) ToDomain() *catalog.AttributeSet {
	ids := make([]uuid.UUID, len(m.Items))
	for i, item := range m.Items {
		ids[i] = item.AttributeID
	}
	return &catalog.AttributeSet{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		IsActive:     m.IsActive,
		AttributeIDs: ids,
	}
}

// FromDomain populates the persistence model from a domain AttributeSet entity.
func (m *AttributeSetModel) FromDomain(s *catalog.AttributeSet) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.Slug = s.Slug
	m.Description = s.Description
	m.IsActive = s.IsActive
	m.Items = make([]AttributeSetItem, len(s.AttributeIDs))
	for i, id := range s.AttributeIDs {
		m.Items[i] = AttributeSetItem{AttributeSetID: s.ID, AttributeID: id, Position: i}
	}
}

// AttributeSetModelFromDomain creates a new persistence model from a domain AttributeSet entity.
func AttributeSetModelFromDomain(s *catalog.AttributeSet) *AttributeSetModel {
	m := &AttributeSetModel{}
	m.FromDomain(s)
	return m
}

// AttributeSetItem is the ordered join row between a set and an attribute
type AttributeSetItem struct {
	AttributeSetID uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AttributeID    uuid.UUID      `gorm:"type:uuid;primaryKey;index"`
	Position       int            `gorm:"not null;default:0"`
	Attribute      AttributeModel `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AttributeSetItem) TableName() string {
	return "attribute_set_items"
}
