package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce     sync.Once
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter("github.com/dealerpress/api/internal/platform/observability")

	var err error
	requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of inbound HTTP requests."),
	)
	if err != nil {
		requestDuration = nil
	}
	requestCount, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Count of inbound HTTP requests."),
	)
	if err != nil {
		requestCount = nil
	}
}

func recordRequestMetrics(ctx context.Context, method, route string, status int, latency time.Duration) {
	metricsOnce.Do(initMetrics)

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
	if requestDuration != nil {
		requestDuration.Record(ctx, latency.Seconds(), attrs)
	}
	if requestCount != nil {
		requestCount.Add(ctx, 1, attrs)
	}
}
