// Package tracing installs the OpenTelemetry SDK tracer provider.
package tracing

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
)

const serviceName = "bloodlink"

// New builds a tracer provider for cfg. The stdout exporter writes to w.
// Callers own Shutdown, which flushes batched spans.
func New(cfg config.TracingConfig, w io.Writer) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	}

	switch cfg.Exporter {
	case "", "none":
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
	return sdktrace.NewTracerProvider(opts...), nil
}
