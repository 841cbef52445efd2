package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeSetService manages attribute sets
type AttributeSetService struct {
	sets       catalog.AttributeSetRepository
	attributes catalog.AttributeRepository
	logger     *zap.Logger
}

// NewAttributeSetService creates a new AttributeSetService
func NewAttributeSetService(sets catalog.AttributeSetRepository, attributes catalog.AttributeRepository, logger *zap.Logger) *AttributeSetService {
	return &AttributeSetService{sets: sets, attributes: attributes, logger: logger}
}

// Create creates an attribute set; every attribute id must exist
func (s *AttributeSetService) Create(ctx context.Context, req AttributeSetRequest) (*AttributeSetResponse, error) {
	set, err := catalog.NewAttributeSet(req.Name, req.Slug, req.AttributeIDs)
	if err != nil {
		return nil, err
	}
	if err := set.SetDescription(req.Description); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		set.SetActive(*req.IsActive)
	}

	members, err := s.resolveAttributes(ctx, set.AttributeIDs)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, set.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.sets.Save(ctx, set); err != nil {
		return nil, err
	}

	s.logger.Info("Attribute set created",
		zap.String("attribute_set_id", set.ID.String()),
		zap.Int("attributes", len(set.AttributeIDs)))

	resp := ToAttributeSetResponse(set, members)
	return &resp, nil
}

// GetByID returns a set with its member attributes
func (s *AttributeSetService) GetByID(ctx context.Context, id uuid.UUID) (*AttributeSetResponse, error) {
	set, err := s.sets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.attributes.FindByIDs(ctx, set.AttributeIDs)
	if err != nil {
		return nil, err
	}
	resp := ToAttributeSetResponse(set, members)
	return &resp, nil
}

// List returns a page of sets. Member attributes are loaded in one query.
func (s *AttributeSetService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[AttributeSetResponse], error) {
	filter = filter.Normalize()

	sets, total, err := s.sets.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AttributeSetResponse]{}, err
	}

	var ids []uuid.UUID
	for i := range sets {
		ids = append(ids, sets[i].AttributeIDs...)
	}
	var members []catalog.Attribute
	if len(ids) > 0 {
		members, err = s.attributes.FindByIDs(ctx, ids)
		if err != nil {
			return shared.Paginated[AttributeSetResponse]{}, err
		}
	}

	items := make([]AttributeSetResponse, len(sets))
	for i := range sets {
		items[i] = ToAttributeSetResponse(&sets[i], members)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update applies a partial update; a non-nil attribute list replaces the members
func (s *AttributeSetService) Update(ctx context.Context, id uuid.UUID, req UpdateAttributeSetRequest) (*AttributeSetResponse, error) {
	set, err := s.sets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := set.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Slug != nil && *req.Slug != set.Slug {
		if err := set.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, set.Slug, set.ID); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := set.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		set.SetActive(*req.IsActive)
	}
	if req.AttributeIDs != nil {
		set.SetAttributes(req.AttributeIDs)
	}

	members, err := s.resolveAttributes(ctx, set.AttributeIDs)
	if err != nil {
		return nil, err
	}
	if err := s.sets.Save(ctx, set); err != nil {
		return nil, err
	}

	resp := ToAttributeSetResponse(set, members)
	return &resp, nil
}

// Delete removes a set; its attributes are untouched
func (s *AttributeSetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sets.Delete(ctx, id)
}

// resolveAttributes loads the given attributes and fails on the first unknown id
func (s *AttributeSetService) resolveAttributes(ctx context.Context, ids []uuid.UUID) ([]catalog.Attribute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.attributes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for i := range found {
		known[found[i].ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown attribute ids: %s", strings.Join(missing, ", ")))
	}
	return found, nil
}

func (s *AttributeSetService) ensureSlugFree(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.sets.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Attribute set with this slug already exists")
	}
	return nil
}
