package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCategoryService() (*CategoryService, *testutil.MockCategoryRepository, *testutil.MockSubcategoryRepository, *testutil.MockItemRepository) {
	categories := new(testutil.MockCategoryRepository)
	subcategories := new(testutil.MockSubcategoryRepository)
	items := new(testutil.MockItemRepository)
	svc := NewCategoryService(categories, subcategories, items, catalog.NewLocaleMatcher([]string{"en", "ru", "kk"}))
	return svc, categories, subcategories, items
}

func TestCategoryService_Create(t *testing.T) {
	svc, categories, _, _ := newCategoryService()
	ctx := context.Background()

	categories.On("ExistsBySlug", ctx, "phones").Return(false, nil)
	categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := svc.Create(ctx, CreateCategoryRequest{
		SortOrder: 3,
		Names:     map[string]string{"ru": "Телефоны", "en": "Phones"},
	})

	require.NoError(t, err)
	// The slug comes from the default-locale name
	assert.Equal(t, "phones", resp.Slug)
	assert.Equal(t, "Phones", resp.Name)
	assert.Equal(t, 3, resp.SortOrder)
	assert.Equal(t, map[string]string{"en": "Phones", "ru": "Телефоны"}, resp.Names)
}

func TestCategoryService_Create_UnsupportedLocale(t *testing.T) {
	svc, categories, _, _ := newCategoryService()

	_, err := svc.Create(context.Background(), CreateCategoryRequest{Names: map[string]string{"de": "Handys"}})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_LOCALE", de.Code)
	categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCategoryService_Create_DuplicateSlug(t *testing.T) {
	svc, categories, _, _ := newCategoryService()
	ctx := context.Background()
	categories.On("ExistsBySlug", ctx, "phones").Return(true, nil)

	_, err := svc.Create(ctx, CreateCategoryRequest{Names: map[string]string{"en": "Phones"}})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ALREADY_EXISTS", de.Code)
}

func TestCategoryService_Update_MergesNames(t *testing.T) {
	svc, categories, _, _ := newCategoryService()
	ctx := context.Background()
	c, err := catalog.NewCategory("phones", "en", "Phones")
	require.NoError(t, err)

	categories.On("FindByID", ctx, c.ID).Return(c, nil)
	categories.On("Save", ctx, c).Return(nil)

	resp, err := svc.Update(ctx, c.ID, UpdateCategoryRequest{Names: map[string]string{"kk": "Телефондар"}})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"en": "Phones", "kk": "Телефондар"}, resp.Names)
}

func TestCategoryService_Delete_InUse(t *testing.T) {
	svc, categories, _, items := newCategoryService()
	ctx := context.Background()
	c, _ := catalog.NewCategory("phones", "en", "Phones")

	categories.On("FindByID", ctx, c.ID).Return(c, nil)
	items.On("CountByCategory", ctx, c.ID).Return(int64(2), nil)

	err := svc.Delete(ctx, c.ID)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CATEGORY_IN_USE", de.Code)
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_ListTree_Localized(t *testing.T) {
	svc, categories, _, _ := newCategoryService()
	ctx := context.Background()

	c, _ := catalog.NewCategory("phones", "en", "Phones")
	require.NoError(t, c.SetTranslation("ru", "Телефоны"))
	sub, _ := catalog.NewSubcategory(c.ID, "smartphones", "en", "Smartphones")
	c.Subcategories = []catalog.Subcategory{*sub}
	categories.On("FindAll", ctx).Return([]catalog.Category{*c}, nil)

	tree, err := svc.ListTree(ctx, "ru-RU,ru;q=0.9", false)

	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Телефоны", tree[0].Name)
	assert.Nil(t, tree[0].Names)
	require.Len(t, tree[0].Subcategories, 1)
	// No Russian name: falls back to the default locale
	assert.Equal(t, "Smartphones", tree[0].Subcategories[0].Name)
}

func TestCategoryService_CreateSubcategory(t *testing.T) {
	svc, categories, subcategories, _ := newCategoryService()
	ctx := context.Background()
	c, _ := catalog.NewCategory("phones", "en", "Phones")

	categories.On("FindByID", ctx, c.ID).Return(c, nil)
	subcategories.On("ExistsBySlug", ctx, "smartphones").Return(false, nil)
	subcategories.On("Save", ctx, mock.AnythingOfType("*catalog.Subcategory")).Return(nil)

	resp, err := svc.CreateSubcategory(ctx, c.ID, CreateSubcategoryRequest{Names: map[string]string{"en": "Smartphones"}})

	require.NoError(t, err)
	assert.Equal(t, c.ID, resp.CategoryID)
	assert.Equal(t, "smartphones", resp.Slug)
}

func TestCategoryService_DeleteSubcategory_InUse(t *testing.T) {
	svc, _, subcategories, _ := newCategoryService()
	ctx := context.Background()
	sub, _ := catalog.NewSubcategory(uuid.New(), "smartphones", "en", "Smartphones")

	subcategories.On("FindByID", ctx, sub.ID).Return(sub, nil)
	subcategories.On("CountItems", ctx, sub.ID).Return(int64(1), nil)

	err := svc.DeleteSubcategory(ctx, sub.ID)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "SUBCATEGORY_IN_USE", de.Code)
}
