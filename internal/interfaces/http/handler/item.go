package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ItemService is the admin item use cases
type ItemService interface {
	Create(ctx context.Context, req catalogapp.CreateItemRequest) (*catalogapp.ItemResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ItemResponse, error)
	List(ctx context.Context, filter catalogapp.ItemListFilter) ([]catalogapp.ItemResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateItemRequest) (*catalogapp.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImages(ctx context.Context, id uuid.UUID, req catalogapp.SetImagesRequest) (*catalogapp.ItemResponse, error)
	UpsertDetails(ctx context.Context, id uuid.UUID, locale string, req catalogapp.UpsertDetailsRequest) (*catalogapp.ItemDetailsResponse, error)
	ListDetails(ctx context.Context, id uuid.UUID) ([]catalogapp.ItemDetailsResponse, error)
	DeleteDetails(ctx context.Context, id uuid.UUID, locale string) error
}

// ItemHandler handles admin item endpoints
type ItemHandler struct {
	BaseHandler
	itemService ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /admin/items
//
//	@Summary		Create an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		catalogapp.CreateItemRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=catalogapp.ItemResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID handles GET /admin/items/:id
//
//	@Summary		Get an item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=catalogapp.ItemResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List handles GET /admin/items
//
//	@Summary		List items
//	@Tags			items
//	@Produce		json
//	@Param			filter	query		catalogapp.ItemListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]catalogapp.ItemResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.CategoryID, ok = h.queryUUID(c, "category_id"); !ok {
		return
	}
	if filter.SubcategoryID, ok = h.queryUUID(c, "subcategory_id"); !ok {
		return
	}
	if filter.BrandID, ok = h.queryUUID(c, "brand_id"); !ok {
		return
	}
	if filter.Locale == "" {
		filter.Locale = c.GetHeader("Accept-Language")
	}
	items, total, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PUT /admin/items/:id
//
//	@Summary		Update an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.UpdateItemRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.ItemResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.itemService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /admin/items/:id
//
//	@Summary		Delete an item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetImages handles PUT /admin/items/:id/images
//
//	@Summary		Replace item images
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.SetImagesRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.ItemResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/images [put]
func (h *ItemHandler) SetImages(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetImagesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.itemService.SetImages(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListDetails handles GET /admin/items/:id/details
//
//	@Summary		List item details
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=[]catalogapp.ItemDetailsResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/details [get]
func (h *ItemHandler) ListDetails(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	details, err := h.itemService.ListDetails(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, details)
}

// UpsertDetails handles PUT /admin/items/:id/details/:locale
//
//	@Summary		Create or replace item details
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			locale	path		string	true	"Locale"
//	@Param			request	body		catalogapp.UpsertDetailsRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.ItemDetailsResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/details/{locale} [put]
func (h *ItemHandler) UpsertDetails(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpsertDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	details, err := h.itemService.UpsertDetails(c.Request.Context(), id, c.Param("locale"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, details)
}

// DeleteDetails handles DELETE /admin/items/:id/details/:locale
//
//	@Summary		Delete item details
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			locale	path		string	true	"Locale"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/details/{locale} [delete]
func (h *ItemHandler) DeleteDetails(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.itemService.DeleteDetails(c.Request.Context(), id, c.Param("locale")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
