package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AttributeType determines how attribute values are entered and filtered
type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeNumber      AttributeType = "number"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiSelect AttributeType = "multiselect"
	AttributeTypeBoolean     AttributeType = "boolean"
	AttributeTypeColor       AttributeType = "color"
)

// IsValid reports whether t is a known attribute type
func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeText, AttributeTypeNumber, AttributeTypeSelect,
		AttributeTypeMultiSelect, AttributeTypeBoolean, AttributeTypeColor:
		return true
	}
	return false
}

// AcceptsValues reports whether the type carries a predefined value list
func (t AttributeType) AcceptsValues() bool {
	return t == AttributeTypeSelect || t == AttributeTypeMultiSelect || t == AttributeTypeColor || t == AttributeTypeNumber
}

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsValidHexColor reports whether s is a #RRGGBB color
func IsValidHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// Attribute is a product characteristic such as size or color
type Attribute struct {
	shared.BaseEntity
	Name         string
	Slug         string
	Type         AttributeType
	Unit         string
	IsFilterable bool
	IsRequired   bool
	SortOrder    int
	IsActive     bool
	Values       []AttributeValue
}

// NewAttribute creates an active attribute.
// An empty slug is derived from the name.
func NewAttribute(name, slug string, attrType AttributeType) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return nil, err
	}
	if !attrType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE_TYPE", "Unknown attribute type: "+string(attrType))
	}
	slug, err := resolveSlug(name, slug)
	if err != nil {
		return nil, err
	}

	return &Attribute{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		Type:       attrType,
		IsActive:   true,
		Values:     make([]AttributeValue, 0),
	}, nil
}

// Rename changes the display name
func (a *Attribute) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return err
	}
	a.Name = name
	a.Touch()
	return nil
}

// SetSlug replaces the slug after validating it
func (a *Attribute) SetSlug(slug string) error {
	if err := shared.ValidateSlug(slug); err != nil {
		return err
	}
	a.Slug = slug
	a.Touch()
	return nil
}

// ChangeType switches the attribute type.
// Types without a value list cannot be chosen while option values exist.
func (a *Attribute) ChangeType(t AttributeType, valueCount int) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_ATTRIBUTE_TYPE", "Unknown attribute type: "+string(t))
	}
	if t == a.Type {
		return nil
	}
	if valueCount > 0 && !t.AcceptsValues() {
		return shared.NewDomainError("INVALID_STATE", "Remove existing values before switching to type "+string(t))
	}
	if valueCount > 0 && (t == AttributeTypeNumber) != (a.Type == AttributeTypeNumber) {
		return shared.NewDomainError("INVALID_STATE", "Existing values are incompatible with type "+string(t))
	}
	// existing options carry no color code
	if valueCount > 0 && t == AttributeTypeColor {
		return shared.NewDomainError("INVALID_STATE", "Existing values have no color code; remove them before switching to type color")
	}
	a.Type = t
	a.Touch()
	return nil
}

// SetUnit sets the measurement unit label (e.g. "cm")
func (a *Attribute) SetUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if utf8.RuneCountInString(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	a.Unit = unit
	a.Touch()
	return nil
}

// SetFlags updates filterable and required flags
func (a *Attribute) SetFlags(filterable, required bool) {
	a.IsFilterable = filterable
	a.IsRequired = required
	a.Touch()
}

// SetSortOrder sets the display order
func (a *Attribute) SetSortOrder(order int) error {
	if order < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}
	a.SortOrder = order
	a.Touch()
	return nil
}

// SetActive toggles the attribute
func (a *Attribute) SetActive(active bool) {
	a.IsActive = active
	a.Touch()
}

// AttributeValue is a predefined option of an attribute
type AttributeValue struct {
	shared.BaseEntity
	AttributeID uuid.UUID
	Value       string
	Slug        string
	ColorHex    *string
	SortOrder   int
}

// NewAttributeValue creates an option for attribute, normalizing it per type.
// Number values are stored in canonical decimal form; color values require a hex code.
func NewAttributeValue(attribute *Attribute, value, slug string, colorHex *string, sortOrder int) (*AttributeValue, error) {
	if attribute == nil {
		return nil, shared.ErrNotFound
	}
	if !attribute.Type.AcceptsValues() {
		return nil, shared.NewDomainError("INVALID_STATE", "Attributes of type "+string(attribute.Type)+" do not take predefined values")
	}

	v := &AttributeValue{
		BaseEntity:  shared.NewBaseEntity(),
		AttributeID: attribute.ID,
	}
	if err := v.apply(attribute.Type, value, slug, colorHex, sortOrder); err != nil {
		return nil, err
	}
	return v, nil
}

// Update changes the option in place using the same rules as creation
func (v *AttributeValue) Update(attrType AttributeType, value, slug string, colorHex *string, sortOrder int) error {
	if err := v.apply(attrType, value, slug, colorHex, sortOrder); err != nil {
		return err
	}
	v.Touch()
	return nil
}

func (v *AttributeValue) apply(attrType AttributeType, value, slug string, colorHex *string, sortOrder int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return shared.NewDomainError("INVALID_VALUE", "Value cannot be empty")
	}
	if utf8.RuneCountInString(value) > 100 {
		return shared.NewDomainError("INVALID_VALUE", "Value cannot exceed 100 characters")
	}
	if sortOrder < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}

	switch attrType {
	case AttributeTypeNumber:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return shared.NewDomainError("INVALID_VALUE", "Value must be a decimal number")
		}
		value = d.String()
		colorHex = nil
	case AttributeTypeColor:
		if colorHex == nil || !IsValidHexColor(*colorHex) {
			return shared.NewDomainError("INVALID_COLOR", "Color values require a #RRGGBB color code")
		}
		upper := strings.ToUpper(*colorHex)
		colorHex = &upper
	default:
		colorHex = nil
	}

	if strings.TrimSpace(slug) == "" {
		slug = deriveValueSlug(attrType, value)
	}
	if err := shared.ValidateSlug(slug); err != nil {
		return err
	}

	v.Value = value
	v.Slug = slug
	v.ColorHex = colorHex
	v.SortOrder = sortOrder
	return nil
}

// deriveValueSlug builds the default slug of an option. Negative numbers
// get a "minus-" prefix so -1.5 and 1.5 stay distinct.
func deriveValueSlug(attrType AttributeType, value string) string {
	if attrType == AttributeTypeNumber {
		slug := shared.Slugify(strings.ReplaceAll(strings.TrimPrefix(value, "-"), ".", "-"))
		if strings.HasPrefix(value, "-") {
			return "minus-" + slug
		}
		return slug
	}
	return shared.Slugify(value)
}

// AttributeSet groups attributes that apply together, e.g. to a product type
type AttributeSet struct {
	shared.BaseEntity
	Name         string
	Slug         string
	Description  string
	IsActive     bool
	AttributeIDs []uuid.UUID
}

// NewAttributeSet creates an active attribute set
func NewAttributeSet(name, slug string, attributeIDs []uuid.UUID) (*AttributeSet, error) {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(name, slug)
	if err != nil {
		return nil, err
	}

	set := &AttributeSet{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		IsActive:   true,
	}
	set.SetAttributes(attributeIDs)
	return set, nil
}

// Rename changes the display name
func (s *AttributeSet) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return err
	}
	s.Name = name
	s.Touch()
	return nil
}

// SetSlug replaces the slug after validating it
func (s *AttributeSet) SetSlug(slug string) error {
	if err := shared.ValidateSlug(slug); err != nil {
		return err
	}
	s.Slug = slug
	s.Touch()
	return nil
}

// SetDescription replaces the description
func (s *AttributeSet) SetDescription(description string) error {
	if utf8.RuneCountInString(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	s.Description = description
	s.Touch()
	return nil
}

// SetActive toggles the set
func (s *AttributeSet) SetActive(active bool) {
	s.IsActive = active
	s.Touch()
}

// SetAttributes replaces the member list, dropping duplicates and keeping order
func (s *AttributeSet) SetAttributes(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	s.AttributeIDs = out
	s.Touch()
}

func validateAttributeName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
