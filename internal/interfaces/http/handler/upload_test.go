package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/bulkupload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBulkUploadService struct {
	mock.Mock
}

func (m *mockBulkUploadService) Upload(ctx context.Context, req bulkupload.UploadRequest) (*bulkupload.UploadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulkupload.UploadResponse), args.Error(1)
}

func (m *mockBulkUploadService) ListUploads(ctx context.Context, filter bulkupload.UploadListFilter) ([]bulkupload.UploadLogResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]bulkupload.UploadLogResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockBulkUploadService) GetUpload(ctx context.Context, id uuid.UUID) (*bulkupload.UploadLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulkupload.UploadLogResponse), args.Error(1)
}

func newUploadRouter(svc *mockBulkUploadService, userID uuid.UUID, maxSize int64) *gin.Engine {
	h := NewUploadHandler(svc, maxSize)
	router := newTestRouter(asUser(userID, "admin"))
	router.POST("/admin/uploads", h.Upload)
	router.GET("/admin/uploads", h.List)
	router.GET("/admin/uploads/:id", h.Get)
	return router
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Upload(t *testing.T) {
	userID, whID := uuid.New(), uuid.New()
	csv := []byte("article,price,quantity\nA-1,1000,5\n")

	t.Run("passes file to service", func(t *testing.T) {
		var received []byte
		svc := new(mockBulkUploadService)
		svc.On("Upload", mock.Anything, mock.MatchedBy(func(req bulkupload.UploadRequest) bool {
			return req.WarehouseID == whID && req.FileName == "prices.csv" && req.Locale == "ru" &&
				req.UploadedBy != nil && *req.UploadedBy == userID
		})).Run(func(args mock.Arguments) {
			received, _ = io.ReadAll(args.Get(1).(bulkupload.UploadRequest).Body)
		}).Return(&bulkupload.UploadResponse{UploadID: uuid.New()}, nil)

		req := multipartUpload(t, map[string]string{"warehouse_id": whID.String(), "locale": "ru"}, "prices.csv", csv)
		w := httptest.NewRecorder()
		newUploadRouter(svc, userID, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, csv, received)
		svc.AssertExpectations(t)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		svc := new(mockBulkUploadService)
		req := multipartUpload(t, nil, "prices.csv", csv)
		w := httptest.NewRecorder()
		newUploadRouter(svc, userID, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "warehouse_id", decode(t, w).Error.Details[0].Field)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := new(mockBulkUploadService)
		req := multipartUpload(t, map[string]string{"warehouse_id": whID.String()}, "", nil)
		w := httptest.NewRecorder()
		newUploadRouter(svc, userID, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("file too large", func(t *testing.T) {
		svc := new(mockBulkUploadService)
		req := multipartUpload(t, map[string]string{"warehouse_id": whID.String()}, "prices.csv", csv)
		w := httptest.NewRecorder()
		newUploadRouter(svc, userID, 8).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})
}

func TestUploadHandler_ListFiltersByWarehouse(t *testing.T) {
	whID := uuid.New()
	svc := new(mockBulkUploadService)
	svc.On("ListUploads", mock.Anything, mock.MatchedBy(func(f bulkupload.UploadListFilter) bool {
		return f.WarehouseID != nil && *f.WarehouseID == whID && f.Status == "failed"
	})).Return([]bulkupload.UploadLogResponse{}, int64(0), nil)

	w := serve(newUploadRouter(svc, uuid.New(), 0), http.MethodGet, "/admin/uploads?status=failed&warehouse_id="+whID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
