package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	mediaapp "github.com/shopadmin/backend/internal/application/media"
	"github.com/shopadmin/backend/internal/domain/media"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// multipartOverhead leaves room for form boundaries and the text fields
const multipartOverhead = 1 << 20

// UploadHandler handles image uploads
type UploadHandler struct {
	BaseHandler
	uploadService *mediaapp.UploadService
	maxSize       int64
}

// NewUploadHandler creates a new UploadHandler. maxSize bounds the file part.
func NewUploadHandler(uploadService *mediaapp.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxSize:       maxSize,
	}
}

// DeleteUploadRequest identifies an upload by storage key or public URL
// @Description Request body for deleting an upload
type DeleteUploadRequest struct {
	Key string `json:"key" binding:"required_without=URL" example:"products/shoes/01HZX3K6Q8W4T5B7N9M2C1D0EF.jpg"`
	URL string `json:"url" binding:"required_without=Key" example:"/uploads/products/shoes/01HZX3K6Q8W4T5B7N9M2C1D0EF.jpg"`
}

// UploadListQuery represents query parameters for listing uploads
type UploadListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=categories products attributes banners avatars"`
}

// Upload godoc
// @Summary      Upload image
// @Description  Stores a JPEG, PNG, WEBP or GIF image with a generated thumbnail. The content type is sniffed, the declared one is ignored.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image file"
// @Param        category formData string true "Upload category" Enums(categories, products, attributes, banners, avatars)
// @Param        subfolder formData string false "Optional subfolder, up to three segments"
// @Success      201 {object} dto.Response{data=mediaapp.UploadResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleError(c, mediaapp.ErrFileTooLarge)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "A file is required in the 'file' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	input := mediaapp.UploadInput{
		Filename:  fileHeader.Filename,
		Size:      fileHeader.Size,
		Content:   file,
		Category:  c.PostForm("category"),
		Subfolder: c.PostForm("subfolder"),
	}
	if subject, id, err := currentSubject(c); err == nil && subject != "" {
		input.UploadedBy = &id
	}

	result, err := h.uploadService.Upload(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Delete godoc
// @Summary      Delete image
// @Description  Removes an image and its thumbnail by key or URL
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DeleteUploadRequest true "Key or URL"
// @Success      200 {object} dto.Response{data=DeletedData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /upload [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	var req DeleteUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ref := req.Key
	if ref == "" {
		ref = req.URL
	}

	if err := h.uploadService.Delete(c.Request.Context(), ref); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeletedData{Deleted: true, Key: ref})
}

// List godoc
// @Summary      List uploads
// @Tags         uploads
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" Enums(created_at, size, original_name)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        search query string false "Search by original file name or key"
// @Param        category query string false "Upload category" Enums(categories, products, attributes, banners, avatars)
// @Success      200 {object} dto.Response{data=[]mediaapp.UploadResult,meta=dto.Meta}
// @Router       /upload [get]
func (h *UploadHandler) List(c *gin.Context) {
	var query UploadListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	filter := media.UploadFilter{
		Filter: listFilter(dto.ListRequest{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
			Search:   query.Search,
		}),
	}
	if query.Category != "" {
		category := media.UploadCategory(query.Category)
		filter.Category = &category
	}

	page, err := h.uploadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get upload
// @Tags         uploads
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Upload ID" format(uuid)
// @Success      200 {object} dto.Response{data=mediaapp.UploadResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /upload/{id} [get]
func (h *UploadHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.uploadService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

