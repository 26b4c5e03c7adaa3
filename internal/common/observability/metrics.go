package observability

import (
	"context"
	"errors"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	requestCounter otelmetric.Int64Counter
	requestLatency otelmetric.Float64Histogram
}

type options struct {
	registerer     promclient.Registerer
	jaegerEndpoint string
}

type Option func(*options)

// WithRegisterer sends otel metrics to reg instead of the default Prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithJaeger exports spans to a Jaeger collector. An empty endpoint disables export.
func WithJaeger(endpoint string) Option {
	return func(o *options) { o.jaegerEndpoint = endpoint }
}

// New sets up the global meter and tracer providers. Exporter failures are
// logged and leave the corresponding instruments as no-ops.
func New(serviceName string, log *zap.Logger, opts ...Option) *Observability {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	o := &Observability{}

	exporterOpts := []prometheus.Option{}
	if cfg.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(cfg.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", zap.Error(err))
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(o.meterProvider)
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.jaegerEndpoint != "" {
		jexp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.jaegerEndpoint)))
		if err != nil {
			log.Warn("Failed to create Jaeger exporter", zap.Error(err))
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(jexp))
			log.Info("Jaeger tracing enabled", zap.String("endpoint", cfg.jaegerEndpoint))
		}
	}
	o.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(o.tracerProvider)

	o.meter = otel.GetMeterProvider().Meter(serviceName)
	if o.meterProvider != nil {
		o.meter = o.meterProvider.Meter(serviceName)
	}
	o.tracer = o.tracerProvider.Tracer(serviceName)

	o.requestCounter, _ = o.meter.Int64Counter(
		"http_server_requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	)

	o.requestLatency, _ = o.meter.Float64Histogram(
		"http_server_duration",
		otelmetric.WithDescription("HTTP request handling duration"),
		otelmetric.WithUnit("ms"),
	)

	return o
}

// Tracer returns the service tracer.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestLatency != nil {
		o.requestLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
