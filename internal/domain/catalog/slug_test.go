package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Green Tea", "green-tea"},
		{"  Hello   World ", "hello-world"},
		{"Crème Brûlée 2024!", "creme-brulee-2024"},
		{"Чай Зелёный", "чай-зеленый"},
		{"a--b__c", "a-b-c"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}

	long := Slugify(strings.Repeat("ab ", 200))
	assert.LessOrEqual(t, len([]rune(long)), maxSlugLength)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("green-tea"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Green-Tea"))
	assert.Error(t, ValidateSlug("green--tea"))
	assert.Error(t, ValidateSlug("-green"))
}

func TestNormalizeLocale(t *testing.T) {
	got, err := NormalizeLocale("en-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", got)

	got, err = NormalizeLocale(" ru ")
	require.NoError(t, err)
	assert.Equal(t, "ru", got)

	_, err = NormalizeLocale("")
	assert.Error(t, err)

	_, err = NormalizeLocale("not a locale!")
	assert.Error(t, err)
}

func TestLocaleMatcher(t *testing.T) {
	m := NewLocaleMatcher([]string{"en", "ru", "kk"})

	assert.Equal(t, "en", m.Default())
	assert.Equal(t, "ru", m.Match("ru-RU,ru;q=0.9,en;q=0.5"))
	assert.Equal(t, "kk", m.Match("kk"))
	assert.Equal(t, "en", m.Match(""))
	assert.True(t, m.IsSupported("RU"))
	assert.False(t, m.IsSupported("de"))
	assert.Equal(t, []string{"en", "ru", "kk"}, m.Supported())
}
