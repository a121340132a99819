package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attribute keys on database metrics
const (
	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBStatus    = attribute.Key("status")
	AttrPoolState   = attribute.Key("state")
)

// DBMetrics records query latency and connection pool usage
type DBMetrics struct {
	queries       *Counter
	queryDuration *Histogram
	slowQueries   *Counter
	slowThreshold time.Duration

	registration metric.Registration
	logger       *zap.Logger
}

// NewDBMetrics registers query instruments on meter and, when sqlDB is non-nil,
// observable gauges over its pool statistics.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{slowThreshold: slowThreshold, logger: logger}
	var err error
	if m.queries, err = NewCounter(meter, "db_query_total", "Database queries executed", "{queries}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, "db_query_duration_seconds", "Database query latency", "s",
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}); err != nil {
		return nil, err
	}
	if m.slowQueries, err = NewCounter(meter, "db_slow_query_total", "Queries slower than the slow query threshold", "{queries}"); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		if err := m.observePool(meter, sqlDB); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *DBMetrics) observePool(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"), metric.WithUnit("{connections}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connections}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"), metric.WithUnit("{waits}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxConns, waits)
	return err
}

// Instrument attaches query timing callbacks to db
func (m *DBMetrics) Instrument(db *gorm.DB) error {
	return registerHooks(db, gormHook{
		name:   "procurement_metrics",
		before: markQueryStart,
		after:  m.observe,
	})
}

func (m *DBMetrics) observe(tx *gorm.DB) {
	elapsed, ok := queryElapsed(tx)
	if !ok {
		return
	}
	ctx := tx.Statement.Context
	status := "ok"
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		status = "error"
	}
	attrs := []attribute.KeyValue{
		AttrDBOperation.String(operationOf(tx)),
		AttrDBTable.String(tx.Statement.Table),
	}
	m.queries.Inc(ctx, append(attrs, AttrDBStatus.String(status))...)
	m.queryDuration.RecordDuration(ctx, elapsed, attrs...)
	if elapsed >= m.slowThreshold {
		m.slowQueries.Inc(ctx, attrs...)
	}
}

// Close unregisters the pool callback
func (m *DBMetrics) Close() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

// operationOf derives the SQL verb from the built statement
func operationOf(tx *gorm.DB) string {
	fields := strings.Fields(tx.Statement.SQL.String())
	if len(fields) == 0 {
		return "OTHER"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return verb
	default:
		return "OTHER"
	}
}
