// Package observability wires OpenTelemetry tracing into the Genkit
// trace pipeline.
//
// Genkit instruments every embed and generate call with spans on its own
// TracerProvider. Registering an OTLP exporter on that provider exports
// the whole query path (retrieval plus generation) without instrumenting
// call sites by hand.
//
// Tracing is opt-in: when no collector endpoint is configured the setup
// is a no-op and the returned shutdown does nothing. Exporter creation
// failures degrade to a warning rather than aborting startup, an
// unreachable collector should never take the answering service down
// with it.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/labsmc/wikigpt/internal/config"
)

// Setup registers an OTLP HTTP exporter with Genkit's TracerProvider.
// It returns a shutdown function that flushes pending spans.
func Setup(ctx context.Context, cfg config.Tracing, logger *slog.Logger) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if cfg.Endpoint == "" {
		logger.Debug("tracing disabled, no collector endpoint configured")
		return noop, nil
	}

	// Genkit's TracerProvider reads the service identity from the
	// standard OTEL environment variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("failed to create trace exporter, tracing disabled", "error", err)
		return noop, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return tracing.TracerProvider().Shutdown, nil
}
