package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents a request to create a new category
// @Description Request body for creating a new category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100" example:"Running Shoes"`
	Slug        string     `json:"slug" binding:"omitempty,max=120,slug" example:"running-shoes"`
	Description string     `json:"description" binding:"max=2000" example:"Shoes for road and trail"`
	ParentID    *uuid.UUID `json:"parent_id" swaggertype:"string" format:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,max=500" example:"/uploads/categories/01HZX3.jpg"`
	SortOrder   int        `json:"sort_order" binding:"min=0" example:"0"`
	IsActive    *bool      `json:"is_active" example:"true"`
}

// OptionalUUID records whether a JSON field was present, so an explicit
// null can be told apart from an omitted field
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// UpdateCategoryRequest represents a partial category update.
// Send "parent_id": null to move the category to the root.
// @Description Request body for updating a category
type UpdateCategoryRequest struct {
	Name        *string      `json:"name" binding:"omitempty,min=1,max=100" example:"Trail Shoes"`
	Slug        *string      `json:"slug" binding:"omitempty,max=120,slug" example:"trail-shoes"`
	Description *string      `json:"description" binding:"omitempty,max=2000"`
	ParentID    OptionalUUID `json:"parent_id" swaggertype:"string" format:"uuid"`
	ImageURL    *string      `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int         `json:"sort_order" binding:"omitempty,min=0" example:"1"`
	IsActive    *bool        `json:"is_active" example:"true"`
}

// CategoryListQuery represents query parameters for listing categories
type CategoryListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1" example:"20"`
	OrderBy  string `form:"order_by" example:"sort_order"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc" example:"asc"`
	Search   string `form:"search" example:"shoe"`
	ParentID string `form:"parent_id" binding:"omitempty,uuid"`
	RootOnly bool   `form:"root_only"`
	IsActive *bool  `form:"is_active"`
}

// TreeQuery selects active-only or full trees
type TreeQuery struct {
	Active *bool `form:"active"`
}

// Create godoc
// @Summary      Create category
// @Description  Create a category. The slug is derived from the name when omitted.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category data"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), catalogapp.CreateCategoryRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(name, slug, sort_order, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Search by name or slug"
// @Param        parent_id query string false "Parent category ID" format(uuid)
// @Param        root_only query bool false "Only root categories"
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var query CategoryListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	filter := catalog.CategoryFilter{
		Filter: listFilter(dto.ListRequest{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
			Search:   query.Search,
		}),
		RootOnly: query.RootOnly,
		IsActive: query.IsActive,
	}
	if query.ParentID != "" {
		parentID := uuid.MustParse(query.ParentID)
		filter.ParentID = &parentID
	}

	page, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetTree godoc
// @Summary      Category tree
// @Description  Nested category tree ordered by sort order then name
// @Tags         categories
// @Produce      json
// @Param        active query bool false "Only active categories" default(true)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryTreeNode}
// @Router       /category/tree [get]
func (h *CategoryHandler) GetTree(c *gin.Context) {
	var query TreeQuery
	if !h.bindQuery(c, &query) {
		return
	}
	activeOnly := query.Active == nil || *query.Active

	tree, err := h.categoryService.GetTree(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if tree == nil {
		tree = []catalogapp.CategoryTreeNode{}
	}

	h.Success(c, tree)
}

// GetBySlug godoc
// @Summary      Get category by slug
// @Tags         categories
// @Produce      json
// @Param        slug path string true "Category slug"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category/slug/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// GetByID godoc
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Update godoc
// @Summary      Update category
// @Description  Partial update. A parent that is the category itself or one of its descendants is rejected.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body UpdateCategoryRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, catalogapp.UpdateCategoryRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
		ParentSet:   req.ParentID.Set,
		ParentID:    req.ParentID.Value,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=DeletedData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /category/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeletedData{Deleted: true, Key: id.String()})
}
