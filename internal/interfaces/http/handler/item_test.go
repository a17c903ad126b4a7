package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) Create(ctx context.Context, req catalogapp.CreateItemRequest) (*catalogapp.ItemResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) List(ctx context.Context, filter catalogapp.ItemListFilter) ([]catalogapp.ItemResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalogapp.ItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockItemService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateItemRequest) (*catalogapp.ItemResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockItemService) SetImages(ctx context.Context, id uuid.UUID, req catalogapp.SetImagesRequest) (*catalogapp.ItemResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) UpsertDetails(ctx context.Context, id uuid.UUID, locale string, req catalogapp.UpsertDetailsRequest) (*catalogapp.ItemDetailsResponse, error) {
	args := m.Called(ctx, id, locale, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ItemDetailsResponse), args.Error(1)
}

func (m *mockItemService) ListDetails(ctx context.Context, id uuid.UUID) ([]catalogapp.ItemDetailsResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]catalogapp.ItemDetailsResponse), args.Error(1)
}

func (m *mockItemService) DeleteDetails(ctx context.Context, id uuid.UUID, locale string) error {
	return m.Called(ctx, id, locale).Error(0)
}

func newItemRouter(svc *mockItemService) *gin.Engine {
	h := NewItemHandler(svc)
	router := newTestRouter(asUser(uuid.New(), "admin"))
	router.POST("/admin/items", h.Create)
	router.GET("/admin/items", h.List)
	router.GET("/admin/items/:id", h.GetByID)
	router.DELETE("/admin/items/:id", h.Delete)
	router.PUT("/admin/items/:id/details/:locale", h.UpsertDetails)
	return router
}

func TestItemHandler_List(t *testing.T) {
	categoryID := uuid.New()

	t.Run("uuid filters and locale header", func(t *testing.T) {
		svc := new(mockItemService)
		svc.On("List", mock.Anything, mock.MatchedBy(func(f catalogapp.ItemListFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID &&
				f.BrandID == nil && f.Locale == "" && f.Page == 1
		})).Return([]catalogapp.ItemResponse{{Article: "A-1"}}, int64(1), nil)

		w := serve(newItemRouter(svc), http.MethodGet, "/admin/items?page=1&category_id="+categoryID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		svc.AssertExpectations(t)
	})

	t.Run("bad uuid filter", func(t *testing.T) {
		svc := new(mockItemService)
		w := serve(newItemRouter(svc), http.MethodGet, "/admin/items?brand_id=acme", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestItemHandler_Create(t *testing.T) {
	t.Run("duplicate article", func(t *testing.T) {
		svc := new(mockItemService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this article already exists"))

		w := serve(newItemRouter(svc), http.MethodPost, "/admin/items", map[string]any{"article": "A-1"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing article", func(t *testing.T) {
		svc := new(mockItemService)
		w := serve(newItemRouter(svc), http.MethodPost, "/admin/items", map[string]any{"name": "Chair"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "article", decode(t, w).Error.Details[0].Field)
	})
}

func TestItemHandler_UpsertDetails(t *testing.T) {
	id := uuid.New()
	svc := new(mockItemService)
	svc.On("UpsertDetails", mock.Anything, id, "kk", catalogapp.UpsertDetailsRequest{Name: "Орындық"}).
		Return(&catalogapp.ItemDetailsResponse{Locale: "kk", Name: "Орындық"}, nil)

	w := serve(newItemRouter(svc), http.MethodPut, "/admin/items/"+id.String()+"/details/kk", map[string]any{"name": "Орындық"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestItemHandler_DeleteNotFound(t *testing.T) {
	id := uuid.New()
	svc := new(mockItemService)
	svc.On("Delete", mock.Anything, id).Return(shared.NewDomainError("ITEM_NOT_FOUND", "Item not found"))

	w := serve(newItemRouter(svc), http.MethodDelete, "/admin/items/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", decode(t, w).Error.Code)
}
