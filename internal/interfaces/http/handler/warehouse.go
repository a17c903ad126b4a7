package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	warehouseapp "github.com/storefront/backend/internal/application/warehouse"
)

// WarehouseService is the warehouse and country use cases
type WarehouseService interface {
	Create(ctx context.Context, req warehouseapp.CreateWarehouseRequest) (*warehouseapp.WarehouseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*warehouseapp.WarehouseResponse, error)
	List(ctx context.Context, filter warehouseapp.WarehouseListFilter) ([]warehouseapp.WarehouseResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req warehouseapp.UpdateWarehouseRequest) (*warehouseapp.WarehouseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListCountries(ctx context.Context) ([]warehouseapp.CountryResponse, error)
	UpsertCountry(ctx context.Context, req warehouseapp.UpsertCountryRequest) (*warehouseapp.CountryResponse, error)
}

// WarehouseHandler handles warehouse-related API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create handles POST /admin/warehouses
//
//	@Summary		Create a warehouse
//	@Tags			warehouses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		warehouseapp.CreateWarehouseRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=warehouseapp.WarehouseResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req warehouseapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	wh, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wh)
}

// GetByID handles GET /admin/warehouses/:id
//
//	@Summary		Get a warehouse
//	@Tags			warehouses
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=warehouseapp.WarehouseResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	wh, err := h.warehouseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wh)
}

// List handles GET /admin/warehouses
//
//	@Summary		List warehouses
//	@Tags			warehouses
//	@Produce		json
//	@Param			filter	query		warehouseapp.WarehouseListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]warehouseapp.WarehouseResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	var filter warehouseapp.WarehouseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	warehouses, total, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// Update handles PUT /admin/warehouses/:id
//
//	@Summary		Update a warehouse
//	@Tags			warehouses
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		warehouseapp.UpdateWarehouseRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=warehouseapp.WarehouseResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req warehouseapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	wh, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wh)
}

// Delete handles DELETE /admin/warehouses/:id
//
//	@Summary		Delete a warehouse
//	@Tags			warehouses
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.warehouseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCountries handles GET /admin/countries
//
//	@Summary		List countries
//	@Tags			warehouses
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]warehouseapp.CountryResponse}
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/countries [get]
func (h *WarehouseHandler) ListCountries(c *gin.Context) {
	countries, err := h.warehouseService.ListCountries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, countries)
}

// UpsertCountry handles PUT /admin/countries
//
//	@Summary		Create or update a country
//	@Tags			warehouses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		warehouseapp.UpsertCountryRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=warehouseapp.CountryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/countries [put]
func (h *WarehouseHandler) UpsertCountry(c *gin.Context) {
	var req warehouseapp.UpsertCountryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	country, err := h.warehouseService.UpsertCountry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, country)
}
