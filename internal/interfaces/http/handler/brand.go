package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// BrandService is the brand use cases
type BrandService interface {
	Create(ctx context.Context, req catalogapp.CreateBrandRequest) (*catalogapp.BrandResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.BrandResponse, error)
	List(ctx context.Context, filter catalogapp.BrandListFilter) ([]catalogapp.BrandResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateBrandRequest) (*catalogapp.BrandResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandHandler handles admin brand endpoints
type BrandHandler struct {
	BaseHandler
	brandService BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// Create handles POST /admin/brands
//
//	@Summary		Create a brand
//	@Tags			brands
//	@Accept			json
//	@Produce		json
//	@Param			request	body		catalogapp.CreateBrandRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=catalogapp.BrandResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/brands [post]
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// GetByID handles GET /admin/brands/:id
//
//	@Summary		Get a brand
//	@Tags			brands
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=catalogapp.BrandResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/brands/{id} [get]
func (h *BrandHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// List handles GET /admin/brands
//
//	@Summary		List brands
//	@Tags			brands
//	@Produce		json
//	@Param			filter	query		catalogapp.BrandListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]catalogapp.BrandResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	var filter catalogapp.BrandListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	brands, total, err := h.brandService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, brands, total, filter.Page, filter.PageSize)
}

// Update handles PUT /admin/brands/:id
//
//	@Summary		Update a brand
//	@Tags			brands
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.UpdateBrandRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.BrandResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/brands/{id} [put]
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete handles DELETE /admin/brands/:id
//
//	@Summary		Delete a brand
//	@Tags			brands
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
