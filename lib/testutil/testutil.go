package testutil

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Telemetry gives tests access to what was traced and measured.
type Telemetry struct {
	Spans  *tracetest.InMemoryExporter
	Reader *sdkmetric.ManualReader
}

var (
	setupOnce sync.Once
	shared    Telemetry
)

// SetupTelemetry installs in-memory providers as the global otel providers.
//
// note: tracers and meters obtained before the first call are bound to the
// first providers installed, so the providers are installed once per test
// binary and only the recorded spans are reset between tests.
func SetupTelemetry(t testing.TB) Telemetry {
	t.Helper()
	setupOnce.Do(func() {
		shared.Spans = tracetest.NewInMemoryExporter()
		shared.Reader = sdkmetric.NewManualReader()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(shared.Spans)))
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(shared.Reader)))
	})
	shared.Spans.Reset()
	return shared
}

// SpanNames returns the names of the spans ended since the last setup.
func (tel Telemetry) SpanNames() []string {
	spans := tel.Spans.GetSpans()
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Name
	}
	return out
}

// Counter returns the cumulative value of an int64 counter across all
// attribute sets, 0 if it was never recorded.
func (tel Telemetry) Counter(t testing.TB, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	err := tel.Reader.Collect(context.Background(), &rm)
	if err != nil {
		t.Fatal(err)
	}

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is not an int64 sum", name)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
