package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "redbus-search"

// Init installs an OTLP/HTTP tracer provider. When disabled, or when the
// exporter cannot be created, the global no-op provider stays in place.
func Init(ctx context.Context, enabled bool, endpoint string) (func(), error) {
	if !enabled {
		slog.Debug("tracing disabled")
		return func() {}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, using noop", "error", err)
		return func() {}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Warn("error shutting down tracer provider", "error", err)
		}
	}, nil
}

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(ServiceName + "/" + name)
}

// Error type attribute values.
const (
	ErrorTypeConnection = "connection"
	ErrorTypeQuery      = "query"
	ErrorTypeValidation = "validation"
)

// RecordError records err on span with its type and marks the span failed.
func RecordError(span trace.Span, err error, errorType string) {
	span.RecordError(err, trace.WithAttributes(
		attribute.String("error.type", errorType),
	))
	span.SetStatus(codes.Error, err.Error())
}
