package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	mediaapp "github.com/storefront/backend/internal/application/media"
)

// MediaService is the image library use cases
type MediaService interface {
	CreateUploadURL(ctx context.Context, req mediaapp.UploadURLRequest) (*mediaapp.UploadURLResponse, error)
	ListImages(ctx context.Context, q mediaapp.ListQuery) ([]mediaapp.ImageResponse, error)
	DeleteImage(ctx context.Context, key string) error
}

// MediaHandler handles image library endpoints
type MediaHandler struct {
	BaseHandler
	mediaService MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// CreateUploadURL handles POST /admin/media/upload-url. The client PUTs the
// file to the returned URL and stores the public URL on an item.
//
//	@Summary		Create a presigned image upload URL
//	@Description	The client PUTs the file to the returned URL and stores the public URL on an item.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mediaapp.UploadURLRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=mediaapp.UploadURLResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/media/upload-url [post]
func (h *MediaHandler) CreateUploadURL(c *gin.Context) {
	var req mediaapp.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.mediaService.CreateUploadURL(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /admin/media
//
//	@Summary		List images
//	@Tags			media
//	@Produce		json
//	@Param			q	query		mediaapp.ListQuery	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]mediaapp.ImageResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	var q mediaapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	images, err := h.mediaService.ListImages(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// Delete handles DELETE /admin/media/*key
//
//	@Summary		Delete an image
//	@Tags			media
//	@Produce		json
//	@Param			key	path		string	true	"Object key"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/media/{key} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.BadRequest(c, "key is required")
		return
	}
	if err := h.mediaService.DeleteImage(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
