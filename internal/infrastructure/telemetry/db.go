package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// DBConfig controls database instrumentation
type DBConfig struct {
	// Tracing registers otelgorm so every statement gets a span
	Tracing bool
	// FullSQL keeps bound variables in span statements. Development only.
	FullSQL            bool
	SlowQueryThreshold time.Duration
	DBSystem           string
}

// DBInstrumentation records query metrics and flags slow statements.
// Pool statistics are observed on each metrics collection.
type DBInstrumentation struct {
	cfg    DBConfig
	logger *zap.Logger

	queries     *Counter
	duration    *Histogram
	slowQueries *Counter

	registration metric.Registration
}

type queryStartKey struct{}

// InstrumentDB attaches tracing and metrics callbacks to db
func InstrumentDB(db *gorm.DB, meter metric.Meter, cfg DBConfig, logger *zap.Logger) (*DBInstrumentation, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQueryThreshold
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = db.Dialector.Name()
	}

	in := &DBInstrumentation{cfg: cfg, logger: logger}
	var err error
	if in.queries, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if in.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if in.slowQueries, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the threshold", "{query}"); err != nil {
		return nil, err
	}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.FullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	if err := in.registerCallbacks(db); err != nil {
		return nil, err
	}
	if err := in.observePool(db, meter); err != nil {
		return nil, err
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return in, nil
}

func (in *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("storefront_metrics:before_create", in.before),
		cb.Create().After("gorm:create").Register("storefront_metrics:after_create", in.afterFor("create")),
		cb.Query().Before("gorm:query").Register("storefront_metrics:before_query", in.before),
		cb.Query().After("gorm:query").Register("storefront_metrics:after_query", in.afterFor("select")),
		cb.Update().Before("gorm:update").Register("storefront_metrics:before_update", in.before),
		cb.Update().After("gorm:update").Register("storefront_metrics:after_update", in.afterFor("update")),
		cb.Delete().Before("gorm:delete").Register("storefront_metrics:before_delete", in.before),
		cb.Delete().After("gorm:delete").Register("storefront_metrics:after_delete", in.afterFor("delete")),
		cb.Row().Before("gorm:row").Register("storefront_metrics:before_row", in.before),
		cb.Row().After("gorm:row").Register("storefront_metrics:after_row", in.afterFor("select")),
		cb.Raw().Before("gorm:raw").Register("storefront_metrics:before_raw", in.before),
		cb.Raw().After("gorm:raw").Register("storefront_metrics:after_raw", in.afterFor("raw")),
	)
}

func (in *DBInstrumentation) afterFor(op string) func(*gorm.DB) {
	return func(db *gorm.DB) { in.after(db, op) }
}

func (in *DBInstrumentation) before(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
}

func (in *DBInstrumentation) after(db *gorm.DB, op string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	operation := strings.ToUpper(op)
	table := db.Statement.Table
	if table == "" {
		table = "unknown"
	}

	in.queries.Inc(ctx, AttrDBOperation.String(operation))
	in.duration.RecordDuration(ctx, elapsed, AttrDBOperation.String(operation))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
			attribute.String("db.sql.table", table),
		)
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}

	if elapsed <= in.cfg.SlowQueryThreshold {
		return
	}
	in.slowQueries.Inc(ctx, AttrDBTable.String(table))
	if span.IsRecording() {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", in.cfg.SlowQueryThreshold.Milliseconds()),
		))
	}
	in.logger.Warn("Slow query",
		zap.String("operation", operation),
		zap.String("table", table),
		zap.Duration("elapsed", elapsed),
	)
}

// observePool reports connection pool state on every metrics collection
func (in *DBInstrumentation) observePool(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}

	in.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, conns, maxConns)
	return err
}

// Stop unregisters the pool observer
func (in *DBInstrumentation) Stop() error {
	if in.registration == nil {
		return nil
	}
	return in.registration.Unregister()
}
