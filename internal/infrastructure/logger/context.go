package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	fieldsKey
)

// Fields are the request scoped identifiers attached to every log entry
type Fields struct {
	RequestID string
	TenantID  string
	UserID    string
}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the attached logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// FieldsFromContext returns the identifiers set on ctx
func FieldsFromContext(ctx context.Context) Fields {
	f, _ := ctx.Value(fieldsKey).(Fields)
	return f
}

func withFields(ctx context.Context, update func(*Fields)) context.Context {
	f := FieldsFromContext(ctx)
	update(&f)
	return context.WithValue(ctx, fieldsKey, f)
}

// WithRequestID records the request id on ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withFields(ctx, func(f *Fields) { f.RequestID = requestID })
}

// WithTenantID records the tenant on ctx
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return withFields(ctx, func(f *Fields) { f.TenantID = tenantID })
}

// WithUserID records the acting user on ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return withFields(ctx, func(f *Fields) { f.UserID = userID })
}

// RequestID returns the request id on ctx
func RequestID(ctx context.Context) string { return FieldsFromContext(ctx).RequestID }

// TenantID returns the tenant on ctx
func TenantID(ctx context.Context) string { return FieldsFromContext(ctx).TenantID }

// UserID returns the acting user on ctx
func UserID(ctx context.Context) string { return FieldsFromContext(ctx).UserID }

// ContextFields returns zap fields for the trace, span and request identifiers
// present on ctx.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	f := FieldsFromContext(ctx)
	if f.RequestID != "" {
		fields = append(fields, zap.String("request_id", f.RequestID))
	}
	if f.TenantID != "" {
		fields = append(fields, zap.String("tenant_id", f.TenantID))
	}
	if f.UserID != "" {
		fields = append(fields, zap.String("user_id", f.UserID))
	}
	return fields
}

// For returns base enriched with the identifiers on ctx
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// L returns the logger attached to ctx enriched with its identifiers.
// Usage: logger.L(ctx).Info("Order approved", zap.String("order_number", n))
func L(ctx context.Context) *zap.Logger {
	return For(ctx, FromContext(ctx))
}
