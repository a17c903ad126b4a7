package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormItemRepository_FindWithDetails(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "ab-100", "Desk Lamp")

	byArticle, err := repo.FindByArticle(ctx, " AB-100 ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, byArticle.ID)
	require.Len(t, byArticle.Details, 1)
	assert.Equal(t, "Desk Lamp", byArticle.Details[0].Name)

	bySlug, err := repo.FindBySlug(ctx, item.Slug)
	require.NoError(t, err)
	assert.Equal(t, item.ID, bySlug.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormItemRepository_FindAllSearchAndPaging(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	seedItem(t, db, "LAMP-1", "Desk Lamp")
	seedItem(t, db, "LAMP-2", "Floor Lamp")
	seedItem(t, db, "CHAIR-1", "Office Chair")

	items, err := repo.FindAll(ctx, shared.Filter{Search: "lamp", Page: 1, PageSize: 10, OrderBy: "article", OrderDir: "asc"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "LAMP-1", items[0].Article)

	total, err := repo.Count(ctx, shared.Filter{Search: "CHAIR"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	page, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestGormItemRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "AB-1", "Lamp")

	require.NoError(t, repo.Delete(ctx, item.ID))

	details, err := NewGormItemDetailsRepository(db).FindByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, details)
	assert.True(t, shared.IsNotFound(repo.Delete(ctx, item.ID)))

	exists, err := repo.ExistsByArticle(ctx, "ab-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
