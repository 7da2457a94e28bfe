package httpclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	requestDuration    metric.Float64Histogram
	requestTotal       metric.Int64Counter
	metricsInitialized bool
	metricsMutex       sync.Mutex
)

// ResetMetricsForTesting makes the next client re-register its instruments
// against the current meter provider.
func ResetMetricsForTesting() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsInitialized = false
}

func initMetrics() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if metricsInitialized {
		return
	}

	meter := otel.GetMeterProvider().Meter("formflow")

	var err error
	requestDuration, err = meter.Float64Histogram(
		fmt.Sprintf("%s.%s", "formflow", "api.request.duration.seconds"),
		metric.WithDescription("Duration of backend API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		panic(err)
	}

	requestTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", "formflow", "api.requests.total"),
		metric.WithDescription("Total number of backend API calls"),
	)
	if err != nil {
		panic(err)
	}

	metricsInitialized = true
}

func recordCall(ctx context.Context, op string, status int, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("api.operation", op),
		attribute.Int("http.status_code", status),
	)
	requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	requestTotal.Add(ctx, 1, attrs)
}
