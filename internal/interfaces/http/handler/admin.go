package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/application/identity"
	identitydomain "github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// AdminHandler handles admin account management
type AdminHandler struct {
	BaseHandler
	adminService *identity.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *identity.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// actor resolves the calling admin, answering 401 when absent
func (h *AdminHandler) actor(c *gin.Context) (identity.Actor, bool) {
	_, id, err := currentSubject(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return identity.Actor{}, false
	}
	return identity.Actor{ID: id}, true
}

// Create godoc
// @Summary      Create admin
// @Description  Create an admin account. Only a superadmin may create another superadmin.
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateAdminRequest true "Admin data"
// @Success      201 {object} dto.Response{data=AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin/create [post]
func (h *AdminHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateAdminRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.Create(c.Request.Context(), actor, identity.CreateAdminInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Role:        identitydomain.Role(req.Role),
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdminResponse(*profile))
}

// List godoc
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(email, name, created_at, last_login_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Search by email or name"
// @Param        role query string false "Role filter" Enums(admin, superadmin)
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} dto.Response{data=[]AdminResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin [get]
func (h *AdminHandler) List(c *gin.Context) {
	var query AdminListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	filter := identitydomain.AdminFilter{
		Filter: listFilter(dto.ListRequest{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
			Search:   query.Search,
		}),
		IsActive: query.IsActive,
	}
	if query.Role != "" {
		role := identitydomain.Role(query.Role)
		filter.Role = &role
	}

	page, err := h.adminService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, mapPage(page, toAdminResponse))
}

// Get godoc
// @Summary      Get admin
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdminResponse(*profile))
}

// UpdatePermissions godoc
// @Summary      Update admin permissions
// @Description  Replace the stored permission list of an admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body UpdatePermissionsRequest true "Permissions"
// @Success      200 {object} dto.Response{data=AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin/{id}/permissions [patch]
func (h *AdminHandler) UpdatePermissions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.UpdatePermissions(c.Request.Context(), actor, id, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdminResponse(*profile))
}

// UpdateStatus godoc
// @Summary      Activate or deactivate admin
// @Description  Deactivation revokes all tokens of the admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body UpdateStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.SetActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdminResponse(*profile))
}
