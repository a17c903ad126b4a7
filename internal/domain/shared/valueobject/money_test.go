package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{"usd", USD, false},
		{" eur ", EUR, false},
		{"KZT", KZT, false},
		{"US", "", true},
		{"U5D", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCurrency(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(10), USD)
	b := MustMoney(decimal.RequireFromString("2.55"), USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.55 USD", sum.String())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.RequireFromString("7.45")))

	assert.True(t, b.MultiplyByInt(3).Amount().Equal(decimal.RequireFromString("7.65")))

	_, err = a.Add(MustMoney(decimal.NewFromInt(1), EUR))
	assert.Error(t, err)
}

func TestMoney_MarshalJSON(t *testing.T) {
	m := MustMoney(decimal.RequireFromString("19.9"), GBP)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"19.90","currency":"GBP"}`, string(data))
}
