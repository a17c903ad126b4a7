package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarehouse(t *testing.T) {
	t.Run("creates active warehouse", func(t *testing.T) {
		w, err := NewWarehouse("alm-01", " Almaty Main ", "kz")
		require.NoError(t, err)
		assert.Equal(t, "ALM-01", w.Code)
		assert.Equal(t, "Almaty Main", w.Name)
		assert.Equal(t, "KZ", w.CountryCode)
		assert.True(t, w.IsActive)
	})

	t.Run("rejects bad code", func(t *testing.T) {
		_, err := NewWarehouse("ALM 01", "Almaty", "KZ")
		require.Error(t, err)
	})

	t.Run("rejects bad country", func(t *testing.T) {
		_, err := NewWarehouse("ALM", "Almaty", "KAZ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "two letters")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewWarehouse("ALM", "", "KZ")
		require.Error(t, err)
	})
}

func TestWarehouse_UpdateAndToggle(t *testing.T) {
	w, err := NewWarehouse("DXB", "Dubai", "AE")
	require.NoError(t, err)

	require.NoError(t, w.Update("Dubai Hub", "ae", "Dubai", "Jebel Ali", 3))
	assert.Equal(t, "Dubai Hub", w.Name)
	assert.Equal(t, 3, w.SortOrder)
	assert.Equal(t, 2, w.Version)

	w.Disable()
	assert.False(t, w.IsActive)
	w.Disable()
	assert.Equal(t, 3, w.Version)
	w.Enable()
	assert.True(t, w.IsActive)
}

func TestNewCountry(t *testing.T) {
	c, err := NewCountry("ae", "United Arab Emirates", "aed")
	require.NoError(t, err)
	assert.Equal(t, "AE", c.Code)
	assert.Equal(t, "AED", c.CurrencyCode)

	_, err = NewCountry("AE", "UAE", "dirham")
	assert.Error(t, err)

	_, err = NewCountry("A", "UAE", "AED")
	assert.Error(t, err)
}
