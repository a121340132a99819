package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls query spans
type DBTracingConfig struct {
	LogFullSQL      bool          // keep bound variables in span statements
	SlowQueryThresh time.Duration // zero disables slow query marking
	DBName          string
}

// gormHook is one before/after pair around every gorm operation
type gormHook struct {
	name   string
	before func(*gorm.DB)
	after  func(*gorm.DB)
	// insideSpan runs after ahead of the otelgorm span end
	insideSpan bool
}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

// registerHooks installs h on the create, query, update, delete, row and raw chains
func registerHooks(db *gorm.DB, h gormHook) error {
	cb := db.Callback()
	spanEnd := func(op string) string {
		if !h.insideSpan {
			return ""
		}
		return "otel:after:" + op
	}
	hooks := []struct {
		op            string
		before, after gormRegister
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create").Before(spanEnd("create"))},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query").Before(spanEnd("select"))},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update").Before(spanEnd("update"))},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete").Before(spanEnd("delete"))},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row").Before(spanEnd("row"))},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw").Before(spanEnd("raw"))},
	}
	var errs []error
	for _, hk := range hooks {
		errs = append(errs,
			hk.before.Register(h.name+":before_"+hk.op, h.before),
			hk.after.Register(h.name+":after_"+hk.op, h.after),
		)
	}
	return errors.Join(errs...)
}

const queryStartKey = "procurement:query_start"

// markQueryStart stamps the statement with its start time
func markQueryStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func queryElapsed(db *gorm.DB) (time.Duration, bool) {
	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return 0, false
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// InstrumentTracing adds otelgorm spans to db and marks slow queries on them
func InstrumentTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	opts := []otelgorm.Option{}
	if cfg.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(cfg.DBName))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if cfg.SlowQueryThresh <= 0 {
		return nil
	}

	err := registerHooks(db, gormHook{
		name:       "procurement_slow_query",
		before:     markQueryStart,
		insideSpan: true,
		after: func(tx *gorm.DB) {
			elapsed, ok := queryElapsed(tx)
			if !ok || elapsed < cfg.SlowQueryThresh {
				return
			}
			span := trace.SpanFromContext(tx.Statement.Context)
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query")
			logger.Warn("Slow query",
				zap.String("table", tx.Statement.Table),
				zap.Duration("elapsed", elapsed),
				zap.Duration("threshold", cfg.SlowQueryThresh),
			)
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}
