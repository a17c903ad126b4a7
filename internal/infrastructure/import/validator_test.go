package fileimport

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() []FieldRule {
	return []FieldRule{
		Field("article").Required().MaxLength(10).Build(),
		Field("price").Required().Decimal().MinValue(decimal.Zero).Build(),
		Field("quantity").Int().MinValue(decimal.Zero).Build(),
		Field("currency").Pattern(`^[A-Za-z]{3}$`, "a 3-letter code").Build(),
		Field("promo_ends_at").Date().Build(),
		Field("badge").Custom(func(v string) error {
			if v != "new" {
				return errors.New("unknown badge")
			}
			return nil
		}).Build(),
	}
}

func row(line int, data map[string]string) *Row {
	return &Row{Line: line, Data: data}
}

func TestFieldValidator_ValidRow(t *testing.T) {
	errs := NewErrorCollection(10)
	v := NewFieldValidator(testRules(), errs)

	ok := v.ValidateRow(row(2, map[string]string{
		"article": "AB-1", "price": "1 200,50", "quantity": "3.0", "currency": "usd",
		"promo_ends_at": "31.12.2026", "badge": "new",
	}))

	assert.True(t, ok)
	assert.False(t, errs.HasErrors())
}

func TestFieldValidator_CollectsErrors(t *testing.T) {
	errs := NewErrorCollection(10)
	v := NewFieldValidator(testRules(), errs)

	ok := v.ValidateRow(row(7, map[string]string{
		"article": "AB-1", "price": "-1", "quantity": "two", "currency": "dollars",
		"promo_ends_at": "someday", "badge": "old",
	}))

	assert.False(t, ok)
	summary := errs.ErrorSummary()
	assert.Equal(t, 1, summary[ErrCodeInvalidRange])
	assert.Equal(t, 2, summary[ErrCodeInvalidType])
	assert.Equal(t, 1, summary[ErrCodeInvalidFormat])
	assert.Equal(t, 1, summary[ErrCodeValidation])
	for _, e := range errs.Errors() {
		assert.Equal(t, 7, e.Line)
		assert.Equal(t, "AB-1", e.Article)
	}
}

func TestFieldValidator_Required(t *testing.T) {
	errs := NewErrorCollection(10)
	v := NewFieldValidator(testRules(), errs)

	assert.False(t, v.ValidateRow(row(3, map[string]string{"price": "1"})))
	require.Equal(t, 1, errs.Count())
	assert.Equal(t, ErrCodeRequiredField, errs.Errors()[0].Code)
	assert.Equal(t, "article", errs.Errors()[0].Column)
}

func TestErrorCollection_Truncates(t *testing.T) {
	errs := NewErrorCollection(2)
	for i := 0; i < 5; i++ {
		errs.Add(RowError{Line: i + 2, Code: ErrCodeValidation, Message: "bad"})
	}
	assert.Equal(t, 2, errs.Count())
	assert.Equal(t, 5, errs.TotalCount())
	assert.True(t, errs.IsTruncated())
	assert.Contains(t, errs.String(), "5 error(s) found (showing first 2)")
}

func TestParseHelpers(t *testing.T) {
	d, err := ParseDecimal("1 234,5")
	require.NoError(t, err)
	assert.Equal(t, "1234.5", d.String())

	n, err := ParseInt("12.0")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	_, err = ParseInt("1.5")
	assert.Error(t, err)

	ts, err := ParseDate("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), ts)
}
