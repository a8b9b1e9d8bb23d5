// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nativecore

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsProvider selects which OpenTelemetry metrics exporter backs
// a Server's instruments.
type MetricsProvider string

const (
	// PrometheusProvider exposes a /metrics endpoint for scraping (default).
	PrometheusProvider MetricsProvider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP HTTP collector.
	OTLPProvider MetricsProvider = "otlp"
	// StdoutProvider prints metrics periodically; useful in dev/tests.
	StdoutProvider MetricsProvider = "stdout"
)

// MetricsConfig configures the OpenTelemetry metrics provider attached
// via WithMetrics.
type MetricsConfig struct {
	Provider       MetricsProvider
	ServiceName    string
	Endpoint       string // OTLP endpoint, ignored by other providers
	ExportInterval time.Duration

	// PrometheusHandler is set when WithMetrics builds the Prometheus
	// provider from this config; it serves the /metrics endpoint and
	// callers mount it themselves (this engine does not start its own
	// HTTP server for metrics).
	PrometheusHandler http.Handler
}

// DefaultMetricsConfig returns a Prometheus-backed configuration
// suitable for most deployments.
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Provider:       PrometheusProvider,
		ServiceName:    "nativecore",
		ExportInterval: 30 * time.Second,
	}
}

// metricsRecorder wraps the instruments recorded on each dispatch:
// request duration, route matched/not found, timeouts, dropped
// callbacks, and route registrations.
type metricsRecorder struct {
	meter metric.Meter

	requestDuration     metric.Float64Histogram
	cacheHits           metric.Int64Counter
	cacheMisses         metric.Int64Counter
	timeouts            metric.Int64Counter
	producerDropped     metric.Int64Counter
	routeRegistrations  metric.Int64Counter

	prometheusHandler http.Handler
}

func newNoopMetricsRecorder() *metricsRecorder {
	meter := otel.Meter("github.com/rivaas-dev/nativecore")
	rec := &metricsRecorder{meter: meter}
	_ = rec.initInstruments()
	return rec
}

// newMetricsRecorder builds a recorder backed by the provider named in
// cfg, dispatching to the matching per-provider initializer
// (initPrometheusProvider/initOTLPProvider/initStdoutProvider).
func newMetricsRecorder(cfg *MetricsConfig) (*metricsRecorder, error) {
	if cfg == nil {
		cfg = DefaultMetricsConfig()
	}

	rec := &metricsRecorder{}

	switch cfg.Provider {
	case OTLPProvider:
		if err := rec.initOTLPProvider(cfg); err != nil {
			return nil, err
		}
	case StdoutProvider:
		if err := rec.initStdoutProvider(cfg); err != nil {
			return nil, err
		}
	default:
		if err := rec.initPrometheusProvider(cfg); err != nil {
			return nil, err
		}
		cfg.PrometheusHandler = rec.prometheusHandler
	}

	if err := rec.initInstruments(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (m *metricsRecorder) initPrometheusProvider(cfg *MetricsConfig) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	m.meter = provider.Meter("github.com/rivaas-dev/nativecore")
	m.prometheusHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return nil
}

func (m *metricsRecorder) initOTLPProvider(cfg *MetricsConfig) error {
	var opts []otlpmetrichttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	m.meter = provider.Meter("github.com/rivaas-dev/nativecore")
	return nil
}

func (m *metricsRecorder) initStdoutProvider(cfg *MetricsConfig) error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	m.meter = provider.Meter("github.com/rivaas-dev/nativecore")
	return nil
}

func (m *metricsRecorder) initInstruments() error {
	var err error

	m.requestDuration, err = m.meter.Float64Histogram(
		"nativecore_dispatch_duration_seconds",
		metric.WithDescription("Duration from route match to response translation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch duration histogram: %w", err)
	}

	m.cacheHits, err = m.meter.Int64Counter(
		"nativecore_match_cache_hits_total",
		metric.WithDescription("Requests that matched a route (from the match cache or the route tries) per method"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache hit counter: %w", err)
	}

	m.cacheMisses, err = m.meter.Int64Counter(
		"nativecore_match_cache_misses_total",
		metric.WithDescription("Match cache misses (route not found) per method"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache miss counter: %w", err)
	}

	m.timeouts, err = m.meter.Int64Counter(
		"nativecore_callback_timeouts_total",
		metric.WithDescription("Requests that exceeded the callback budget"),
	)
	if err != nil {
		return fmt.Errorf("failed to create timeout counter: %w", err)
	}

	m.producerDropped, err = m.meter.Int64Counter(
		"nativecore_producer_dropped_total",
		metric.WithDescription("Requests whose callback never sent a response"),
	)
	if err != nil {
		return fmt.Errorf("failed to create producer-dropped counter: %w", err)
	}

	m.routeRegistrations, err = m.meter.Int64Counter(
		"nativecore_route_registrations_total",
		metric.WithDescription("Successful route registrations per method"),
	)
	if err != nil {
		return fmt.Errorf("failed to create route registration counter: %w", err)
	}

	return nil
}

func (m *metricsRecorder) recordHit(method Method) {
	m.cacheHits.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", string(method))))
}

func (m *metricsRecorder) recordMiss(method Method) {
	m.cacheMisses.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", string(method))))
}

func (m *metricsRecorder) recordDuration(method Method, d time.Duration) {
	m.requestDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(attribute.String("method", string(method))))
}

func (m *metricsRecorder) recordTimeout(method Method) {
	m.timeouts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", string(method))))
}

func (m *metricsRecorder) recordDropped(method Method) {
	m.producerDropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", string(method))))
}

func (m *metricsRecorder) recordRegistration(method Method) {
	m.routeRegistrations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", string(method))))
}
