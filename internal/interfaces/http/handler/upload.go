package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/bulkupload"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BulkUploadService applies price list files to a warehouse
type BulkUploadService interface {
	Upload(ctx context.Context, req bulkupload.UploadRequest) (*bulkupload.UploadResponse, error)
	ListUploads(ctx context.Context, filter bulkupload.UploadListFilter) ([]bulkupload.UploadLogResponse, int64, error)
	GetUpload(ctx context.Context, id uuid.UUID) (*bulkupload.UploadLogResponse, error)
}

// UploadHandler handles bulk price/inventory uploads
type UploadHandler struct {
	BaseHandler
	uploadService BulkUploadService
	maxFileSize   int64
}

// NewUploadHandler creates a new UploadHandler; files over maxFileSize bytes are rejected
func NewUploadHandler(uploadService BulkUploadService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxFileSize: maxFileSize}
}

// Upload handles POST /admin/uploads (multipart: file, warehouse_id, locale).
// Row errors do not fail the request; they are listed in the result.
//
//	@Summary		Upload a price list
//	@Description	Row errors do not fail the request; they are listed in the result.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"Price list (csv, xlsx or json)"
//	@Param			warehouse_id	formData	string	true	"Warehouse ID"
//	@Success		200	{object}	dto.Response{data=bulkupload.UploadResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	var form dto.BulkUploadForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
		return
	}

	req := bulkupload.UploadRequest{
		WarehouseID: uuid.MustParse(form.WarehouseID),
		Locale:      form.Locale,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if userID, ok := middleware.CurrentUserID(c); ok {
		req.UploadedBy = &userID
	}

	result, err := h.uploadService.Upload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /admin/uploads
//
//	@Summary		List price list uploads
//	@Tags			uploads
//	@Produce		json
//	@Param			filter	query		bulkupload.UploadListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]bulkupload.UploadLogResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/uploads [get]
func (h *UploadHandler) List(c *gin.Context) {
	var filter bulkupload.UploadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.WarehouseID, ok = h.queryUUID(c, "warehouse_id"); !ok {
		return
	}
	uploads, total, err := h.uploadService.ListUploads(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, uploads, total, filter.Page, filter.PageSize)
}

// Get handles GET /admin/uploads/:id
//
//	@Summary		Get a price list upload
//	@Tags			uploads
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=bulkupload.UploadLogResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/uploads/{id} [get]
func (h *UploadHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	upload, err := h.uploadService.GetUpload(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}
