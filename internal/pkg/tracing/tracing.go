// Package tracing configures OpenTelemetry spans for event dispatch and rule
// execution.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bitversity/automation"

const (
	OrderIDKey     = "orders.order.id"
	EventIDKey     = "orders.event.id"
	EventTypeKey   = "orders.event.type"
	RuleIDKey      = "orders.rule.id"
	RuleNameKey    = "orders.rule.name"
	ActionKindKey  = "orders.action.kind"
	ActionIndexKey = "orders.action.index"
)

// Setup installs a global tracer provider exporting over OTLP/HTTP. The
// exporter endpoint comes from the standard OTEL_EXPORTER_OTLP_* variables.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))

	return tp.Shutdown, nil
}

// Tracer returns the tracer of the automation engine. Without Setup it is
// the no-op tracer of the global provider.
//
//nolint:ireturn // OpenTelemetry tracers are interfaces
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

//nolint:ireturn,spancheck // callers end the span
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(attrs...))
}
