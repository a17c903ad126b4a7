package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CategoryService is the category and subcategory use cases
type CategoryService interface {
	ListTree(ctx context.Context, locale string, withNames bool) ([]catalogapp.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateSubcategory(ctx context.Context, categoryID uuid.UUID, req catalogapp.CreateSubcategoryRequest) (*catalogapp.SubcategoryResponse, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.SubcategoryResponse, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

// CategoryHandler handles admin category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles GET /admin/categories; every translation is included
//
//	@Summary		List categories with translations
//	@Description	Every translation is included
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]catalogapp.CategoryResponse}
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	tree, err := h.categoryService.ListTree(c.Request.Context(), requestedLocale(c), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// GetByID handles GET /admin/categories/:id
//
//	@Summary		Get a category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=catalogapp.CategoryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
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

// Create handles POST /admin/categories
//
//	@Summary		Create a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			request	body		catalogapp.CreateCategoryRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=catalogapp.CategoryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update handles PUT /admin/categories/:id
//
//	@Summary		Update a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.UpdateCategoryRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.CategoryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete handles DELETE /admin/categories/:id
//
//	@Summary		Delete a category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateSubcategory handles POST /admin/categories/:id/subcategories
//
//	@Summary		Create a subcategory
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.CreateSubcategoryRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=catalogapp.SubcategoryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	categoryID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CreateSubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.categoryService.CreateSubcategory(c.Request.Context(), categoryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// UpdateSubcategory handles PUT /admin/subcategories/:id
//
//	@Summary		Update a subcategory
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		catalogapp.UpdateCategoryRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=catalogapp.SubcategoryResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/subcategories/{id} [put]
func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.categoryService.UpdateSubcategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// DeleteSubcategory handles DELETE /admin/subcategories/:id
//
//	@Summary		Delete a subcategory
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteSubcategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
