package telemetry

import (
	"context"
	"golfexport/lib/configutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEndpointTransport(t *testing.T) {
	cases := []struct {
		endpoint otlpEndpoint
		expected transport
		url      string
	}{
		{otlpEndpoint{}, transportNone, ""},
		{otlpEndpoint{HttpEndpoint: "http://localhost:4318/v1/traces"}, transportHttp, "http://localhost:4318/v1/traces"},
		{otlpEndpoint{GrpcEndpoint: "http://localhost:4317"}, transportGrpc, "http://localhost:4317"},
		{
			otlpEndpoint{GrpcEndpoint: "http://localhost:4317", HttpEndpoint: "http://localhost:4318/v1/traces"},
			transportGrpc,
			"http://localhost:4317",
		},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, c.endpoint.transport())
		require.Equal(t, c.url, c.endpoint.url())
	}
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, defaultMetricInterval, config{}.metricInterval())
	require.Equal(t, 30*time.Second, config{MetricIntervalSeconds: 30}.metricInterval())
}

func TestSetupWithoutEndpoints(t *testing.T) {
	require.NoError(t, Setup(context.Background(), "golfexport-test", config{}))

	mu.Lock()
	require.Nil(t, tracerProvider)
	require.Nil(t, meterProvider)
	mu.Unlock()

	require.NoError(t, Shutdown(context.Background()))
}

func TestSetupTracesOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.json5")
	err := os.WriteFile(path, []byte(`{
		otlp: {
			traces: { http_endpoint: "http://127.0.0.1:4318/v1/traces" },
		},
	}`), 0644)
	require.NoError(t, err)

	cfg, err := configutil.ReadConfig[config](path)
	require.NoError(t, err)
	require.Equal(t, transportNone, cfg.Otlp.Metrics.transport())

	require.NoError(t, Setup(context.Background(), "golfexport-test", cfg))

	mu.Lock()
	require.NotNil(t, tracerProvider)
	require.Nil(t, meterProvider, "metrics without an endpoint get no exporter")
	mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Shutdown(ctx))

	mu.Lock()
	require.Nil(t, tracerProvider)
	mu.Unlock()
}
