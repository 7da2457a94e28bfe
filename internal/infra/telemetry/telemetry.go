package telemetry

import (
	"context"
	"errors"
	"formflow/internal/logger"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	DefaultEndpoint    = "localhost:4317"
	DefaultServiceName = "formctl"

	_collectPeriod   = 30 * time.Second
	_collectTimeout  = 35 * time.Second
	_minimumInterval = time.Minute
)

type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

type ShutdownFunc func(ctx context.Context) error

func noop(context.Context) error { return nil }

// Start installs global OTLP meter and tracer providers. When telemetry is
// disabled the global no-op providers stay in place.
func Start(ctx context.Context, config Config, log logger.Logger) (ShutdownFunc, error) {
	log = logger.OrNop(log)
	if !config.Enabled {
		log.Debugw("telemetry disabled")
		return noop, nil
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.ServiceName == "" {
		config.ServiceName = DefaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(config.ServiceName),
	)

	metricsShutdown, err := startMetricsProvider(ctx, config.Endpoint, res)
	if err != nil {
		return nil, err
	}

	traceShutdown, err := startTraceProvider(ctx, config.Endpoint, res)
	if err != nil {
		_ = metricsShutdown(ctx)
		return nil, err
	}

	log.Infow("telemetry started", "endpoint", config.Endpoint, "service", config.ServiceName)

	return func(ctx context.Context) error {
		return errors.Join(metricsShutdown(ctx), traceShutdown(ctx))
	}, nil
}

func startTraceProvider(ctx context.Context, endpoint string, res *resource.Resource) (ShutdownFunc, error) {
	exp, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func startMetricsProvider(ctx context.Context, endpoint string, res *resource.Resource) (ShutdownFunc, error) {
	exp, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	mp := NewMeterProvider(metric.NewPeriodicReader(
		exp,
		metric.WithTimeout(_collectTimeout),
		metric.WithInterval(_collectPeriod),
	), res)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(_minimumInterval)); err != nil {
		return nil, err
	}

	return mp.Shutdown, nil
}

// NewMeterProvider builds the provider used by Start. Tests pass a
// metric.ManualReader to inspect what the client records.
func NewMeterProvider(reader metric.Reader, res *resource.Resource) *metric.MeterProvider {
	opts := []metric.Option{metric.WithReader(reader)}
	if res != nil {
		opts = append(opts, metric.WithResource(res))
	}
	return metric.NewMeterProvider(opts...)
}
