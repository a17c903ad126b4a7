package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// StorefrontService is the shopper-facing catalog read model
type StorefrontService interface {
	ListItems(ctx context.Context, q catalogapp.StorefrontQuery) ([]catalogapp.StorefrontItem, int64, error)
	GetItem(ctx context.Context, slug string, q catalogapp.StorefrontQuery) (*catalogapp.StorefrontItem, error)
}

// StorefrontHandler serves the public catalog
type StorefrontHandler struct {
	BaseHandler
	storefront StorefrontService
	categories CategoryService
	brands     BrandService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(storefront StorefrontService, categories CategoryService, brands BrandService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront, categories: categories, brands: brands}
}

// ListItems handles GET /catalog/items.
// Prices are resolved for ?country= and shown in ?currency=.
//
//	@Summary		Browse catalog items
//	@Description	Prices are resolved for ?country= and shown in ?currency=.
//	@Tags			catalog
//	@Produce		json
//	@Param			q	query		catalogapp.StorefrontQuery	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]catalogapp.StorefrontItem,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/catalog/items [get]
func (h *StorefrontHandler) ListItems(c *gin.Context) {
	var q catalogapp.StorefrontQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Locale = requestedLocale(c)

	items, total, err := h.storefront.ListItems(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// GetItem handles GET /catalog/items/:slug
//
//	@Summary		Get a catalog item
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Item slug"
//	@Param			q	query		catalogapp.StorefrontQuery	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=catalogapp.StorefrontItem}
//	@Failure		400	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/catalog/items/{slug} [get]
func (h *StorefrontHandler) GetItem(c *gin.Context) {
	var q catalogapp.StorefrontQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Locale = requestedLocale(c)

	item, err := h.storefront.GetItem(c.Request.Context(), c.Param("slug"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListCategories handles GET /catalog/categories
//
//	@Summary		List catalog categories
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]catalogapp.CategoryResponse}
//	@Failure		500	{object}	dto.Response
//	@Router			/catalog/categories [get]
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	tree, err := h.categories.ListTree(c.Request.Context(), requestedLocale(c), false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// ListBrands handles GET /catalog/brands
//
//	@Summary		List catalog brands
//	@Tags			catalog
//	@Produce		json
//	@Param			filter	query		catalogapp.BrandListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]catalogapp.BrandResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/catalog/brands [get]
func (h *StorefrontHandler) ListBrands(c *gin.Context) {
	var filter catalogapp.BrandListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	brands, total, err := h.brands.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, brands, total, filter.Page, filter.PageSize)
}
