package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func offer(country string, qty int, price string) WarehouseOffer {
	return WarehouseOffer{
		Price: ItemPrice{
			ItemID:      uuid.New(),
			WarehouseID: uuid.New(),
			Price:       dec(price),
			Currency:    "USD",
			Quantity:    qty,
		},
		WarehouseName: "wh-" + country,
		CountryCode:   country,
	}
}

func TestEffectivePrice(t *testing.T) {
	p := ItemPrice{Price: dec("100")}
	assert.True(t, EffectivePrice(p, now).Equal(dec("100")))

	p.PromoPrice = decPtr("80")
	assert.True(t, EffectivePrice(p, now).Equal(dec("100")), "promo without end date is ignored")

	p.PromoEndsAt = timePtr(now.Add(time.Hour))
	assert.True(t, EffectivePrice(p, now).Equal(dec("80")))
	assert.Equal(t, 20, DiscountPercent(p, now))

	p.PromoEndsAt = timePtr(now.Add(-time.Second))
	assert.True(t, EffectivePrice(p, now).Equal(dec("100")))
	assert.Equal(t, 0, DiscountPercent(p, now))

	p.PromoEndsAt = timePtr(now)
	assert.False(t, IsPromoActive(p, now), "promotion ending exactly now is over")
}

func TestDiscountPercent_Rounds(t *testing.T) {
	p := ItemPrice{Price: dec("30"), PromoPrice: decPtr("20"), PromoEndsAt: timePtr(now.Add(time.Hour))}
	assert.Equal(t, 33, DiscountPercent(p, now))

	p.PromoPrice = decPtr("9.99")
	assert.Equal(t, 67, DiscountPercent(p, now))
}

func TestSelectRecommended(t *testing.T) {
	t.Run("no offers", func(t *testing.T) {
		assert.Nil(t, SelectRecommended(nil, "KZ"))
	})

	t.Run("preferred country with stock wins", func(t *testing.T) {
		offers := []WarehouseOffer{offer("AE", 5, "10"), offer("KZ", 0, "9"), offer("KZ", 2, "11")}
		got := SelectRecommended(offers, "KZ")
		require.NotNil(t, got)
		assert.Equal(t, offers[2].Price.WarehouseID, got.Price.WarehouseID)
	})

	t.Run("falls back to first in stock", func(t *testing.T) {
		offers := []WarehouseOffer{offer("AE", 0, "10"), offer("TR", 3, "9"), offer("RU", 4, "8")}
		got := SelectRecommended(offers, "KZ")
		assert.Equal(t, offers[1].Price.WarehouseID, got.Price.WarehouseID)
	})

	t.Run("preferred country without stock beats first", func(t *testing.T) {
		offers := []WarehouseOffer{offer("AE", 0, "10"), offer("KZ", 0, "9")}
		got := SelectRecommended(offers, "KZ")
		assert.Equal(t, offers[1].Price.WarehouseID, got.Price.WarehouseID)
	})

	t.Run("nothing in stock and no preference returns first", func(t *testing.T) {
		offers := []WarehouseOffer{offer("AE", 0, "10"), offer("KZ", 0, "9")}
		got := SelectRecommended(offers, "")
		assert.Equal(t, offers[0].Price.WarehouseID, got.Price.WarehouseID)
	})
}

func TestExchangeRates_Convert(t *testing.T) {
	rates := NewExchangeRates(valueobject.USD, map[valueobject.Currency]decimal.Decimal{
		valueobject.EUR: dec("0.9"),
		valueobject.KZT: dec("450"),
		valueobject.GBP: dec("-1"),
	})

	got, err := rates.Convert(dec("10"), valueobject.USD, valueobject.KZT)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("4500")))

	got, err = rates.Convert(dec("900"), valueobject.KZT, valueobject.EUR)
	require.NoError(t, err)
	assert.True(t, got.Round(2).Equal(dec("1.8")))

	got, err = rates.Convert(dec("7"), valueobject.AED, valueobject.AED)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("7")))

	_, err = rates.Convert(dec("1"), valueobject.USD, valueobject.GBP)
	assert.Error(t, err, "non-positive rates are dropped")

	assert.Equal(t, []valueobject.Currency{valueobject.EUR, valueobject.KZT, valueobject.USD}, rates.Currencies())

	updated := rates.WithRate(valueobject.GBP, dec("0.8"))
	assert.True(t, updated.Supports(valueobject.GBP))
	assert.False(t, rates.Supports(valueobject.GBP))
}

func TestResolve(t *testing.T) {
	rates := NewExchangeRates(valueobject.USD, map[valueobject.Currency]decimal.Decimal{
		valueobject.KZT: dec("450"),
	})

	t.Run("empty offers", func(t *testing.T) {
		got, err := Resolve(nil, "KZ", valueobject.USD, rates, now)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("converts and applies promotion", func(t *testing.T) {
		o := offer("KZ", 3, "20")
		o.Price.PromoPrice = decPtr("15")
		o.Price.PromoEndsAt = timePtr(now.Add(24 * time.Hour))
		o.Price.Badge = BadgeSale

		got, err := Resolve([]WarehouseOffer{offer("AE", 0, "25"), o}, "KZ", valueobject.KZT, rates, now)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, o.Price.WarehouseID, got.WarehouseID)
		assert.Equal(t, "9000.00 KZT", got.Price.String())
		assert.Equal(t, "6750.00 KZT", got.EffectivePrice.String())
		assert.Equal(t, 25, got.DiscountPercent)
		assert.Equal(t, BadgeSale, got.Badge)
		assert.True(t, got.InStock)
		assert.NotNil(t, got.PromoEndsAt)
	})

	t.Run("unknown price currency", func(t *testing.T) {
		o := offer("KZ", 3, "20")
		o.Price.Currency = "JPY"
		_, err := Resolve([]WarehouseOffer{o}, "KZ", valueobject.USD, rates, now)
		assert.Error(t, err)
	})
}
