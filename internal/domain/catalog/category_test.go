package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("derives slug from name", func(t *testing.T) {
		c, err := NewCategory("", "en", "Green Tea")
		require.NoError(t, err)
		assert.Equal(t, "green-tea", c.Slug)
		require.Len(t, c.Translations, 1)
		assert.Equal(t, c.ID, c.Translations[0].CategoryID)
		assert.Equal(t, 1, c.Version)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("tea", "en", " ")
		require.Error(t, err)
	})

	t.Run("fails with invalid locale", func(t *testing.T) {
		_, err := NewCategory("tea", "!!", "Tea")
		require.Error(t, err)
	})
}

func TestCategory_SetTranslation(t *testing.T) {
	c, err := NewCategory("tea", "en", "Tea")
	require.NoError(t, err)

	require.NoError(t, c.SetTranslation("ru", "Чай"))
	require.NoError(t, c.SetTranslation("en", "Teas"))
	assert.Len(t, c.Translations, 2)

	assert.Equal(t, "Teas", c.NameFor("en", "en"))
	assert.Equal(t, "Чай", c.NameFor("ru", "en"))
	assert.Equal(t, "Teas", c.NameFor("kk", "en"))
	assert.Equal(t, "tea", c.NameFor("kk", "de"))

	assert.True(t, c.HasName("чай"))
	assert.False(t, c.HasName("coffee"))
}

func TestNewSubcategory(t *testing.T) {
	_, err := NewSubcategory(uuid.Nil, "", "en", "Green")
	require.Error(t, err)

	catID := uuid.New()
	s, err := NewSubcategory(catID, "", "en", "Green Tea")
	require.NoError(t, err)
	assert.Equal(t, catID, s.CategoryID)
	assert.Equal(t, "green-tea", s.Slug)
	assert.Equal(t, "Green Tea", s.NameFor("ru", "en"))

	require.NoError(t, s.SetTranslation("ru", "Зелёный чай"))
	assert.True(t, s.HasName("зелёный чай"))
}

func TestNewBrand(t *testing.T) {
	b, err := NewBrand("Ahmad Tea", "")
	require.NoError(t, err)
	assert.Equal(t, "ahmad-tea", b.Slug)
	assert.Equal(t, 1, b.Version)

	_, err = NewBrand("", "")
	assert.Error(t, err)
}
