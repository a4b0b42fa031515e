// Package observability records domain metrics through OpenTelemetry and
// exports them into a Prometheus registry.
package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"loan-risk/logger"
)

type Observability struct {
	meterProvider     *metric.MeterProvider
	meter             otelmetric.Meter
	predictions       otelmetric.Int64Counter
	scores            otelmetric.Float64Histogram
	inferenceDuration otelmetric.Float64Histogram
}

// New registers the exporter with reg, or the default Prometheus registerer
// when reg is nil. An exporter failure yields a no-op Observability.
func New(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	predictions, _ := meter.Int64Counter(
		"predictions",
		otelmetric.WithDescription("Number of predictions served"),
	)

	scores, _ := meter.Float64Histogram(
		"prediction.score",
		otelmetric.WithDescription("Distribution of raw model scores"),
		otelmetric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	)

	inferenceDuration, _ := meter.Float64Histogram(
		"inference.duration",
		otelmetric.WithDescription("Model forward pass duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:     provider,
		meter:             meter,
		predictions:       predictions,
		scores:            scores,
		inferenceDuration: inferenceDuration,
	}
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordPrediction(ctx context.Context, label int, score float64, cached bool) {
	if o == nil || o.predictions == nil {
		return
	}
	o.predictions.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.Int("label", label),
		attribute.Bool("cached", cached),
	))
	if o.scores != nil {
		o.scores.Record(ctx, score)
	}
}

func (o *Observability) RecordInferenceDuration(ctx context.Context, duration time.Duration) {
	if o == nil || o.inferenceDuration == nil {
		return
	}
	o.inferenceDuration.Record(ctx, float64(duration.Microseconds())/1000)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
