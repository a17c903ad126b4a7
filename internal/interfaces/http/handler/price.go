package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
)

// PriceService is the per-warehouse price use cases
type PriceService interface {
	SetPrice(ctx context.Context, itemID, warehouseID uuid.UUID, req pricingapp.SetPriceRequest) (*pricingapp.PriceResponse, error)
	GetPrices(ctx context.Context, itemID uuid.UUID) ([]pricingapp.PriceResponse, error)
	ListHistory(ctx context.Context, itemID uuid.UUID, filter pricingapp.HistoryFilter) ([]pricingapp.HistoryResponse, int64, error)
}

// PriceHandler handles admin price endpoints
type PriceHandler struct {
	BaseHandler
	priceService PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// List handles GET /admin/items/:id/prices
//
//	@Summary		List item prices by warehouse
//	@Tags			prices
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=[]pricingapp.PriceResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/prices [get]
func (h *PriceHandler) List(c *gin.Context) {
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	prices, err := h.priceService.GetPrices(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// Set handles PUT /admin/items/:id/prices/:warehouse_id.
// The superseded values are archived to the price history.
//
//	@Summary		Set an item price in a warehouse
//	@Description	The superseded values are archived to the price history.
//	@Tags			prices
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			warehouse_id	path		string	true	"Warehouse ID"
//	@Param			request	body		pricingapp.SetPriceRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=pricingapp.PriceResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/prices/{warehouse_id} [put]
func (h *PriceHandler) Set(c *gin.Context) {
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "warehouse_id")
	if !ok {
		return
	}
	var req pricingapp.SetPriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	price, err := h.priceService.SetPrice(c.Request.Context(), itemID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

// History handles GET /admin/items/:id/price-history
//
//	@Summary		List archived item prices
//	@Tags			prices
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			filter	query		pricingapp.HistoryFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]pricingapp.HistoryResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/items/{id}/price-history [get]
func (h *PriceHandler) History(c *gin.Context) {
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter pricingapp.HistoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.WarehouseID, ok = h.queryUUID(c, "warehouse_id"); !ok {
		return
	}
	rows, total, err := h.priceService.ListHistory(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows, total, filter.Page, filter.PageSize)
}
