// Package otel initializes OpenTelemetry tracing for spoold. A span is
// recorded per handled request in the serving layer; the pool core itself
// stays tracing-free since jobs are opaque.
package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// Config configures tracing.
type Config struct {
	// ServiceName is the name reported on every span.
	ServiceName string

	// ServiceVersion is the version reported on every span.
	ServiceVersion string

	// Exporter is the exporter type: "jaeger", "zipkin", "stdout", "none".
	Exporter string

	// Endpoint is the collector endpoint URL (jaeger/zipkin only).
	Endpoint string

	// Environment is the deployment environment (dev, staging, prod).
	Environment string

	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64
}

// DefaultConfig returns a configuration that traces nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "spoold",
		ServiceVersion: "1.0.0",
		Exporter:       "none",
		Environment:    "development",
		SampleRate:     1.0,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("otel: service name cannot be empty")
	}
	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("otel: sample rate must be between 0.0 and 1.0")
	}
	return nil
}

var (
	globalTracer trace.Tracer
	mu           sync.RWMutex
	initialized  bool
)

// Initialize sets up the global tracer provider from the configuration.
// It may be called at most once per process.
func Initialize(ctx context.Context, config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return fmt.Errorf("otel: already initialized")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("otel: failed to create resource: %w", err)
	}

	exporter, err := newExporter(config.Exporter, config.Endpoint)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	globalTracer = tp.Tracer(config.ServiceName)
	initialized = true
	return nil
}

// Tracer returns the global tracer, or a noop tracer before Initialize.
func Tracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	if globalTracer == nil {
		return trace.NewNoopTracerProvider().Tracer("noop")
	}
	return globalTracer
}

// StartSpan starts a new span on the global tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// Shutdown flushes and shuts down the tracer provider.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		return nil
	}

	if tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		return tp.Shutdown(ctx)
	}
	return nil
}
