package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// AttributeHandler handles attributes, their option values and attribute sets
type AttributeHandler struct {
	BaseHandler
	attributeService *catalogapp.AttributeService
	setService       *catalogapp.AttributeSetService
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(attributeService *catalogapp.AttributeService, setService *catalogapp.AttributeSetService) *AttributeHandler {
	return &AttributeHandler{
		attributeService: attributeService,
		setService:       setService,
	}
}

// CreateAttributeRequest represents a request to create an attribute
// @Description Request body for creating an attribute
type CreateAttributeRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100" example:"Color"`
	Slug         string `json:"slug" binding:"omitempty,max=120,slug" example:"color"`
	Type         string `json:"type" binding:"required,oneof=text number select multiselect boolean color" example:"color"`
	Unit         string `json:"unit" binding:"max=20" example:""`
	IsFilterable bool   `json:"is_filterable" example:"true"`
	IsRequired   bool   `json:"is_required" example:"false"`
	SortOrder    int    `json:"sort_order" binding:"min=0" example:"0"`
}

// UpdateAttributeRequest represents a partial attribute update
// @Description Request body for updating an attribute
type UpdateAttributeRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug         *string `json:"slug" binding:"omitempty,max=120,slug"`
	Type         *string `json:"type" binding:"omitempty,oneof=text number select multiselect boolean color"`
	Unit         *string `json:"unit" binding:"omitempty,max=20"`
	IsFilterable *bool   `json:"is_filterable"`
	IsRequired   *bool   `json:"is_required"`
	SortOrder    *int    `json:"sort_order" binding:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// AttributeValueRequest creates or replaces an option value
// @Description Request body for an attribute option value
type AttributeValueRequest struct {
	Value     string  `json:"value" binding:"required,min=1,max=100" example:"Navy Blue"`
	Slug      string  `json:"slug" binding:"omitempty,max=120,slug" example:"navy-blue"`
	ColorHex  *string `json:"color_hex" binding:"omitempty,hexcolor" example:"#000080"`
	SortOrder int     `json:"sort_order" binding:"min=0" example:"0"`
}

// AttributeListQuery represents query parameters for listing attributes
type AttributeListQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search       string `form:"search"`
	Type         string `form:"type" binding:"omitempty,oneof=text number select multiselect boolean color"`
	IsFilterable *bool  `form:"is_filterable"`
	IsActive     *bool  `form:"is_active"`
}

// CreateAttributeSetRequest represents a request to create an attribute set
// @Description Request body for creating an attribute set
type CreateAttributeSetRequest struct {
	Name         string      `json:"name" binding:"required,min=1,max=100" example:"Apparel"`
	Slug         string      `json:"slug" binding:"omitempty,max=120,slug" example:"apparel"`
	Description  string      `json:"description" binding:"max=2000"`
	IsActive     *bool       `json:"is_active"`
	AttributeIDs []uuid.UUID `json:"attribute_ids" swaggertype:"array,string"`
}

// UpdateAttributeSetRequest is a partial update. A present attribute_ids
// list replaces the set members.
// @Description Request body for updating an attribute set
type UpdateAttributeSetRequest struct {
	Name         *string     `json:"name" binding:"omitempty,min=1,max=100"`
	Slug         *string     `json:"slug" binding:"omitempty,max=120,slug"`
	Description  *string     `json:"description" binding:"omitempty,max=2000"`
	IsActive     *bool       `json:"is_active"`
	AttributeIDs []uuid.UUID `json:"attribute_ids" swaggertype:"array,string"`
}

// Create godoc
// @Summary      Create attribute
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateAttributeRequest true "Attribute data"
// @Success      201 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute [post]
func (h *AttributeHandler) Create(c *gin.Context) {
	var req CreateAttributeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	attr, err := h.attributeService.Create(c.Request.Context(), catalogapp.CreateAttributeRequest{
		Name:         req.Name,
		Slug:         req.Slug,
		Type:         catalog.AttributeType(req.Type),
		Unit:         req.Unit,
		IsFilterable: req.IsFilterable,
		IsRequired:   req.IsRequired,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, attr)
}

// List godoc
// @Summary      List attributes
// @Tags         attributes
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(name, slug, sort_order, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Search by name or slug"
// @Param        type query string false "Attribute type" Enums(text, number, select, multiselect, boolean, color)
// @Param        is_filterable query bool false "Filterable flag"
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttributeResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute [get]
func (h *AttributeHandler) List(c *gin.Context) {
	var query AttributeListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	filter := catalog.AttributeFilter{
		Filter: listFilter(dto.ListRequest{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
			Search:   query.Search,
		}),
		IsFilterable: query.IsFilterable,
		IsActive:     query.IsActive,
	}
	if query.Type != "" {
		t := catalog.AttributeType(query.Type)
		filter.Type = &t
	}

	page, err := h.attributeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get attribute
// @Description  Returns the attribute with its option values
// @Tags         attributes
// @Produce      json
// @Param        id path string true "Attribute ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id} [get]
func (h *AttributeHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	attr, err := h.attributeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attr)
}

// Update godoc
// @Summary      Update attribute
// @Description  Changing the type is rejected while incompatible values exist
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute ID" format(uuid)
// @Param        request body UpdateAttributeRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id} [patch]
func (h *AttributeHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateAttributeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	update := catalogapp.UpdateAttributeRequest{
		Name:         req.Name,
		Slug:         req.Slug,
		Unit:         req.Unit,
		IsFilterable: req.IsFilterable,
		IsRequired:   req.IsRequired,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
	if req.Type != nil {
		t := catalog.AttributeType(*req.Type)
		update.Type = &t
	}

	attr, err := h.attributeService.Update(c.Request.Context(), id, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attr)
}

// Delete godoc
// @Summary      Delete attribute
// @Tags         attributes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute ID" format(uuid)
// @Success      200 {object} dto.Response{data=DeletedData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id} [delete]
func (h *AttributeHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.attributeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeletedData{Deleted: true, Key: id.String()})
}

// AddValue godoc
// @Summary      Add attribute value
// @Description  Only select, multiselect, color and number attributes accept values
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute ID" format(uuid)
// @Param        request body AttributeValueRequest true "Value data"
// @Success      201 {object} dto.Response{data=catalogapp.AttributeValueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id}/values [post]
func (h *AttributeHandler) AddValue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req AttributeValueRequest
	if !h.bindJSON(c, &req) {
		return
	}

	value, err := h.attributeService.AddValue(c.Request.Context(), id, toAttributeValueInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, value)
}

// UpdateValue godoc
// @Summary      Update attribute value
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute ID" format(uuid)
// @Param        valueId path string true "Value ID" format(uuid)
// @Param        request body AttributeValueRequest true "Value data"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeValueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id}/values/{valueId} [patch]
func (h *AttributeHandler) UpdateValue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	valueID, ok := h.parseUUIDParam(c, "valueId")
	if !ok {
		return
	}
	var req AttributeValueRequest
	if !h.bindJSON(c, &req) {
		return
	}

	value, err := h.attributeService.UpdateValue(c.Request.Context(), id, valueID, toAttributeValueInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, value)
}

// DeleteValue godoc
// @Summary      Delete attribute value
// @Tags         attributes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute ID" format(uuid)
// @Param        valueId path string true "Value ID" format(uuid)
// @Success      200 {object} dto.Response{data=DeletedData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/{id}/values/{valueId} [delete]
func (h *AttributeHandler) DeleteValue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	valueID, ok := h.parseUUIDParam(c, "valueId")
	if !ok {
		return
	}

	if err := h.attributeService.DeleteValue(c.Request.Context(), id, valueID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeletedData{Deleted: true, Key: valueID.String()})
}

// CreateSet godoc
// @Summary      Create attribute set
// @Tags         attribute-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateAttributeSetRequest true "Attribute set data"
// @Success      201 {object} dto.Response{data=catalogapp.AttributeSetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/sets [post]
func (h *AttributeHandler) CreateSet(c *gin.Context) {
	var req CreateAttributeSetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	set, err := h.setService.Create(c.Request.Context(), catalogapp.AttributeSetRequest{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		IsActive:     req.IsActive,
		AttributeIDs: req.AttributeIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, set)
}

// ListSets godoc
// @Summary      List attribute sets
// @Tags         attribute-sets
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(name, slug, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Search by name or slug"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttributeSetResponse,meta=dto.Meta}
// @Router       /attribute/sets [get]
func (h *AttributeHandler) ListSets(c *gin.Context) {
	var query dto.ListRequest
	if !h.bindQuery(c, &query) {
		return
	}

	page, err := h.setService.List(c.Request.Context(), listFilter(query))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetSet godoc
// @Summary      Get attribute set
// @Description  Returns the set with its member attributes in set order
// @Tags         attribute-sets
// @Produce      json
// @Param        id path string true "Attribute set ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.AttributeSetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/sets/{id} [get]
func (h *AttributeHandler) GetSet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	set, err := h.setService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, set)
}

// UpdateSet godoc
// @Summary      Update attribute set
// @Tags         attribute-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute set ID" format(uuid)
// @Param        request body UpdateAttributeSetRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeSetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/sets/{id} [patch]
func (h *AttributeHandler) UpdateSet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateAttributeSetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	set, err := h.setService.Update(c.Request.Context(), id, catalogapp.UpdateAttributeSetRequest{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		IsActive:     req.IsActive,
		AttributeIDs: req.AttributeIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, set)
}

// DeleteSet godoc
// @Summary      Delete attribute set
// @Tags         attribute-sets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attribute set ID" format(uuid)
// @Success      200 {object} dto.Response{data=DeletedData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attribute/sets/{id} [delete]
func (h *AttributeHandler) DeleteSet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.setService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeletedData{Deleted: true, Key: id.String()})
}

func toAttributeValueInput(req AttributeValueRequest) catalogapp.AttributeValueRequest {
	return catalogapp.AttributeValueRequest{
		Value:     req.Value,
		Slug:      req.Slug,
		ColorHex:  req.ColorHex,
		SortOrder: req.SortOrder,
	}
}
