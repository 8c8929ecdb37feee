package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newExporter builds the span exporter named by kind.
func newExporter(kind, endpoint string) (sdktrace.SpanExporter, error) {
	switch kind {
	case "jaeger":
		return newJaegerExporter(endpoint)
	case "zipkin":
		return newZipkinExporter(endpoint)
	case "stdout":
		return newStdoutExporter(), nil
	case "none", "":
		return noopExporter{}, nil
	default:
		return nil, fmt.Errorf("otel: unsupported exporter %q", kind)
	}
}

func newJaegerExporter(endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		endpoint = "http://localhost:14268/api/traces"
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, fmt.Errorf("otel: failed to create Jaeger exporter: %w", err)
	}
	return exporter, nil
}

func newZipkinExporter(endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9411/api/v2/spans"
	}

	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, fmt.Errorf("otel: failed to create Zipkin exporter: %w", err)
	}
	return exporter, nil
}

func newStdoutExporter() sdktrace.SpanExporter {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		// Fall back to noop if stdout fails.
		return noopExporter{}
	}
	return exporter
}

// noopExporter drops all spans.
type noopExporter struct{}

func (noopExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (noopExporter) Shutdown(ctx context.Context) error {
	return nil
}
