package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const defaultMetricInterval = 5 * time.Second

type transport string

const (
	transportNone transport = ""
	transportGrpc transport = "grpc"
	transportHttp transport = "http"
)

// otlpEndpoint is where one signal is sent, grpc is used when both
// endpoints are set and the signal is off when neither is.
type otlpEndpoint struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (e otlpEndpoint) transport() transport {
	switch {
	case e.GrpcEndpoint != "":
		return transportGrpc
	case e.HttpEndpoint != "":
		return transportHttp
	}
	return transportNone
}

func (e otlpEndpoint) url() string {
	if e.transport() == transportGrpc {
		return e.GrpcEndpoint
	}
	return e.HttpEndpoint
}

type otlpConfig struct {
	Traces  otlpEndpoint `json:"traces"`
	Metrics otlpEndpoint `json:"metrics"`
}

type config struct {
	Otlp otlpConfig `json:"otlp"`
	// metrics are also pushed once on shutdown, so short runs lose nothing
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

func (c config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds <= 0 {
		return defaultMetricInterval
	}
	return time.Duration(c.MetricIntervalSeconds) * time.Second
}

// newTracerProvider returns nil when traces have no endpoint.
func newTracerProvider(ctx context.Context, r *resource.Resource, e otlpEndpoint) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch e.transport() {
	case transportGrpc:
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(e.GrpcEndpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	case transportHttp:
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(e.HttpEndpoint),
			otlptracehttp.WithHeaders(e.Headers),
		)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("exporting traces", "transport", e.transport(), "endpoint", e.url())
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	), nil
}

// newMeterProvider returns nil when metrics have no endpoint.
func newMeterProvider(ctx context.Context, r *resource.Resource, e otlpEndpoint, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch e.transport() {
	case transportGrpc:
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(e.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	case transportHttp:
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(e.HttpEndpoint),
			otlpmetrichttp.WithHeaders(e.Headers),
		)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("exporting metrics", "transport", e.transport(), "endpoint", e.url(), "interval", interval)
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(r),
	), nil
}
