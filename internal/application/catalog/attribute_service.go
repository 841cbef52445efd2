package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeService manages attributes and their option values
type AttributeService struct {
	repo   catalog.AttributeRepository
	logger *zap.Logger
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(repo catalog.AttributeRepository, logger *zap.Logger) *AttributeService {
	return &AttributeService{repo: repo, logger: logger}
}

// Create creates an attribute without values
func (s *AttributeService) Create(ctx context.Context, req CreateAttributeRequest) (*AttributeResponse, error) {
	attr, err := catalog.NewAttribute(req.Name, req.Slug, req.Type)
	if err != nil {
		return nil, err
	}
	if err := attr.SetUnit(req.Unit); err != nil {
		return nil, err
	}
	if err := attr.SetSortOrder(req.SortOrder); err != nil {
		return nil, err
	}
	attr.SetFlags(req.IsFilterable, req.IsRequired)

	if err := s.ensureSlugFree(ctx, attr.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, attr); err != nil {
		return nil, err
	}

	s.logger.Info("Attribute created",
		zap.String("attribute_id", attr.ID.String()),
		zap.String("type", string(attr.Type)))

	resp := ToAttributeResponse(attr)
	return &resp, nil
}

// GetByID returns an attribute together with its values
func (s *AttributeService) GetByID(ctx context.Context, id uuid.UUID) (*AttributeResponse, error) {
	attr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(attr)
	return &resp, nil
}

// List returns a page of attributes
func (s *AttributeService) List(ctx context.Context, filter catalog.AttributeFilter) (shared.Paginated[AttributeResponse], error) {
	filter.Filter = filter.Filter.Normalize()

	attrs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AttributeResponse]{}, err
	}

	items := make([]AttributeResponse, len(attrs))
	for i := range attrs {
		items[i] = ToAttributeResponse(&attrs[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update applies a partial update
func (s *AttributeService) Update(ctx context.Context, id uuid.UUID, req UpdateAttributeRequest) (*AttributeResponse, error) {
	attr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := attr.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Slug != nil && *req.Slug != attr.Slug {
		if err := attr.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, attr.Slug, attr.ID); err != nil {
			return nil, err
		}
	}
	if req.Type != nil && *req.Type != attr.Type {
		count, err := s.repo.CountValues(ctx, attr.ID)
		if err != nil {
			return nil, err
		}
		if err := attr.ChangeType(*req.Type, int(count)); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil {
		if err := attr.SetUnit(*req.Unit); err != nil {
			return nil, err
		}
	}
	if req.IsFilterable != nil || req.IsRequired != nil {
		filterable, required := attr.IsFilterable, attr.IsRequired
		if req.IsFilterable != nil {
			filterable = *req.IsFilterable
		}
		if req.IsRequired != nil {
			required = *req.IsRequired
		}
		attr.SetFlags(filterable, required)
	}
	if req.SortOrder != nil {
		if err := attr.SetSortOrder(*req.SortOrder); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		attr.SetActive(*req.IsActive)
	}

	if err := s.repo.Save(ctx, attr); err != nil {
		return nil, err
	}

	resp := ToAttributeResponse(attr)
	return &resp, nil
}

// Delete removes an attribute with its values and set memberships
func (s *AttributeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Attribute deleted", zap.String("attribute_id", id.String()))
	return nil
}

// AddValue adds an option value to an attribute
func (s *AttributeService) AddValue(ctx context.Context, attributeID uuid.UUID, req AttributeValueRequest) (*AttributeValueResponse, error) {
	attr, err := s.repo.FindByID(ctx, attributeID)
	if err != nil {
		return nil, err
	}

	value, err := catalog.NewAttributeValue(attr, req.Value, req.Slug, req.ColorHex, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.ensureValueSlugFree(ctx, attr.ID, value.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.SaveValue(ctx, value); err != nil {
		return nil, err
	}

	resp := ToAttributeValueResponse(value)
	return &resp, nil
}

// UpdateValue replaces an option value
func (s *AttributeService) UpdateValue(ctx context.Context, attributeID, valueID uuid.UUID, req AttributeValueRequest) (*AttributeValueResponse, error) {
	attr, err := s.repo.FindByID(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	value, err := s.repo.FindValueByID(ctx, attributeID, valueID)
	if err != nil {
		return nil, err
	}

	if err := value.Update(attr.Type, req.Value, req.Slug, req.ColorHex, req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.ensureValueSlugFree(ctx, attr.ID, value.Slug, value.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveValue(ctx, value); err != nil {
		return nil, err
	}

	resp := ToAttributeValueResponse(value)
	return &resp, nil
}

// DeleteValue removes an option value
func (s *AttributeService) DeleteValue(ctx context.Context, attributeID, valueID uuid.UUID) error {
	return s.repo.DeleteValue(ctx, attributeID, valueID)
}

func (s *AttributeService) ensureSlugFree(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Attribute with this slug already exists")
	}
	return nil
}

func (s *AttributeService) ensureValueSlugFree(ctx context.Context, attributeID uuid.UUID, slug string, excludeID uuid.UUID) error {
	exists, err := s.repo.ValueSlugExists(ctx, attributeID, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Value with this slug already exists for the attribute")
	}
	return nil
}
