// Package trace wraps the OpenTelemetry setup so the rest of the code
// only deals with StartSpan. Spans are exported to stdout; the whole
// layer is disabled with TRACING_ENABLED=false.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "stockpilot"

var (
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
)

// Init wires the stdout exporter into a batching tracer provider and
// installs it globally. Safe to skip Shutdown when Init fails.
func Init() error {
	if os.Getenv("TRACING_ENABLED") == "false" {
		enabled = false
		return nil
	}
	enabled = true

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return err
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = otel.Tracer(serviceName)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// StartSpan opens a span, or hands back the ambient one when tracing is
// off so callers never branch.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

func Enabled() bool {
	return enabled
}

// GetTraceFields extracts the current trace and span IDs for log
// correlation.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
