package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when an instrument set is built without a meter
var ErrMeterNil = &MetricsError{Message: "meter cannot be nil"}

// MetricsError reports a metrics setup problem
type MetricsError struct {
	Message string
}

func (e *MetricsError) Error() string {
	return e.Message
}

// StoreMetrics records storefront business events: orders placed and
// bulk-upload row outcomes.
type StoreMetrics struct {
	ordersPlaced     *Counter
	orderValue       *Histogram
	bulkUploadRows   *Counter
	bulkUploadErrors *Counter
}

// NewStoreMetrics registers the business instruments on meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   StoreMetrics
		err error
	)
	if m.ordersPlaced, err = NewCounter(meter,
		"storefront_orders_placed_total", "Orders placed through checkout", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_order_value",
		Description: "Order totals in the display currency of the order",
		Unit:        "{currency_unit}",
		Boundaries:  OrderValueBuckets,
	}); err != nil {
		return nil, err
	}
	if m.bulkUploadRows, err = NewCounter(meter,
		"storefront_bulk_upload_rows_total", "Bulk upload rows by outcome", "{rows}"); err != nil {
		return nil, err
	}
	if m.bulkUploadErrors, err = NewCounter(meter,
		"storefront_bulk_upload_failed_runs_total", "Bulk uploads with at least one rejected row", "{uploads}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOrderPlaced counts an order and records its total
func (m *StoreMetrics) RecordOrderPlaced(ctx context.Context, currency string, total decimal.Decimal) {
	attr := AttrCurrency.String(currency)
	m.ordersPlaced.Inc(ctx, attr)
	m.orderValue.Record(ctx, total.InexactFloat64(), attr)
}

// RecordBulkUploadRows counts the created, updated and failed rows of one upload
func (m *StoreMetrics) RecordBulkUploadRows(ctx context.Context, source string, created, updated, failed int) {
	src := AttrUploadSource.String(source)
	m.bulkUploadRows.Add(ctx, int64(created), src, AttrUploadOutcome.String("created"))
	m.bulkUploadRows.Add(ctx, int64(updated), src, AttrUploadOutcome.String("updated"))
	m.bulkUploadRows.Add(ctx, int64(failed), src, AttrUploadOutcome.String("failed"))
	if failed > 0 {
		m.bulkUploadErrors.Inc(ctx, src)
	}
}
