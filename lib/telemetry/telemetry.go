package telemetry

import (
	"context"
	"errors"
	"fmt"
	"golfexport/lib/configutil"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	mu             sync.Mutex
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
)

// Tracer returns a tracer from the global provider, it is a no-op until
// Setup has been called.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Meter returns a meter from the global provider, it is a no-op until
// Setup has been called.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry.
//
// returns os.ErrNotExist when there is no telemetry.json5.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}

// Setup installs providers for the signals that have an endpoint in cfg,
// signals without one stay no-ops.
func Setup(ctx context.Context, serviceName string, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	if cfg.Otlp.Traces.transport() == transportNone && cfg.Otlp.Metrics.transport() == transportNone {
		slog.Debug("telemetry config has no otlp endpoints")
		return nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	tp, err := newTracerProvider(ctx, r, cfg.Otlp.Traces)
	if err != nil {
		return fmt.Errorf("traces: %w", err)
	}
	mp, err := newMeterProvider(ctx, r, cfg.Otlp.Metrics, cfg.metricInterval())
	if err != nil {
		if tp != nil {
			_ = tp.Shutdown(ctx)
		}
		return fmt.Errorf("metrics: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if tp != nil {
		tracerProvider = tp
		otel.SetTracerProvider(tp)
	}
	if mp != nil {
		meterProvider = mp
		otel.SetMeterProvider(mp)
	}
	return nil
}

// Shutdown flushes and stops the providers created by Setup, it is a no-op
// if Setup was never called.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	var errlist []error
	if tracerProvider != nil {
		errlist = append(errlist, tracerProvider.Shutdown(ctx))
		tracerProvider = nil
	}
	if meterProvider != nil {
		errlist = append(errlist, meterProvider.Shutdown(ctx))
		meterProvider = nil
	}
	return errors.Join(errlist...)
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}
