package telemetry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewStoreMetrics_NilMeter(t *testing.T) {
	m, err := NewStoreMetrics(nil)

	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Equal(t, "meter cannot be nil", err.Error())
}

func TestStoreMetrics_RecordOrderPlaced(t *testing.T) {
	meter, reader := newTestMeter(t)
	m, err := NewStoreMetrics(meter)
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordOrderPlaced(ctx, "EUR", decimal.RequireFromString("10.50"))
	m.RecordOrderPlaced(ctx, "EUR", decimal.RequireFromString("89.50"))
	m.RecordOrderPlaced(ctx, "USD", decimal.RequireFromString("5"))

	rm := collect(t, reader)
	placed, ok := findMetric(rm, "storefront_orders_placed_total")
	require.True(t, ok)
	assert.Equal(t, int64(2), sumByAttr(t, placed, "currency", "EUR"))
	assert.Equal(t, int64(1), sumByAttr(t, placed, "currency", "USD"))

	value, ok := findMetric(rm, "storefront_order_value")
	require.True(t, ok)
	hist, ok := value.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	var sum float64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		sum += dp.Sum
	}
	assert.Equal(t, uint64(3), count)
	assert.InDelta(t, 105.0, sum, 0.0001)
}

func TestStoreMetrics_RecordBulkUploadRows(t *testing.T) {
	meter, reader := newTestMeter(t)
	m, err := NewStoreMetrics(meter)
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordBulkUploadRows(ctx, "csv", 3, 2, 1)
	m.RecordBulkUploadRows(ctx, "xlsx", 4, 0, 0)

	rm := collect(t, reader)
	rows, ok := findMetric(rm, "storefront_bulk_upload_rows_total")
	require.True(t, ok)
	assert.Equal(t, int64(7), sumByAttr(t, rows, "upload.outcome", "created"))
	assert.Equal(t, int64(2), sumByAttr(t, rows, "upload.outcome", "updated"))
	assert.Equal(t, int64(1), sumByAttr(t, rows, "upload.outcome", "failed"))

	failedRuns, ok := findMetric(rm, "storefront_bulk_upload_failed_runs_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumByAttr(t, failedRuns, "upload.source", "csv"))
	assert.Equal(t, int64(0), sumByAttr(t, failedRuns, "upload.source", "xlsx"))
}
