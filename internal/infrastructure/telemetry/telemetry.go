// Package telemetry wires OpenTelemetry traces, metrics and logs plus Pyroscope
// profiling for the procurement service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/procurement/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// InstrumentationName names the tracer and meter used by this service
const InstrumentationName = "github.com/erp/procurement"

// Providers owns the telemetry pipelines started for the process. Every
// component is optional; a disabled one leaves the otel no-op globals in place.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler

	logger *zap.Logger
}

// Setup starts the pipelines enabled in cfg. On error everything already started
// is shut down again.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Providers, error) {
	p := &Providers{logger: logger}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled")
		p.Tracer = &TracerProvider{logger: logger}
		p.Meter = &MeterProvider{logger: logger}
		p.Logs = &LoggerProvider{logger: logger}
		p.Profiler = &Profiler{logger: logger}
		return p, nil
	}

	res, err := newResource(cfg.ServiceName, version)
	if err != nil {
		return nil, err
	}

	if p.Tracer, err = NewTracerProvider(ctx, cfg, res, logger); err != nil {
		return nil, err
	}
	if p.Meter, err = NewMeterProvider(ctx, cfg, res, logger); err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}
	if p.Logs, err = NewLoggerProvider(ctx, cfg, res, logger); err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}
	if p.Profiler, err = NewProfiler(cfg, version, logger); err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}
	if p.Profiler.IsEnabled() {
		p.Tracer.EnableSpanProfiles()
	}
	return p, nil
}

// MeterFor returns the service meter from the configured provider
func (p *Providers) MeterFor() metric.Meter {
	if p == nil || p.Meter == nil {
		return otel.GetMeterProvider().Meter(InstrumentationName)
	}
	return p.Meter.Meter(InstrumentationName)
}

// Shutdown flushes and stops every started pipeline, profiler last
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	return errors.Join(errs...)
}

func newResource(serviceName, version string) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = "procurement"
	}
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
