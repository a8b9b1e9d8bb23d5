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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewDevTracerProvider builds a trace.TracerProvider that writes spans to
// stdout, for local development and tests. Install it with
// otel.SetTracerProvider before constructing a Server with WithTracing, or
// pass provider.Tracer(name) directly via TracingConfig.Tracer. Production
// deployments should install a real backend's exporter instead.
func NewDevTracerProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

// TracingConfig configures the one span per dispatch a Server emits
// when tracing is attached via WithTracing.
type TracingConfig struct {
	ServiceName string
	Tracer      trace.Tracer
}

func newTracingConfig(cfg *TracingConfig) *tracingConfig {
	if cfg == nil {
		cfg = &TracingConfig{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/rivaas-dev/nativecore")
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "nativecore"
	}
	return &tracingConfig{tracer: tracer, serviceName: serviceName}
}

type tracingConfig struct {
	tracer      trace.Tracer
	serviceName string
}

// startSpan starts a span covering one dispatch (lookup through
// response translation), named "<method> <path>". The returned
// context must be passed to the callback invocation so any downstream
// instrumentation on the host-runtime side can join the same trace.
func (t *tracingConfig) startSpan(ctx context.Context, r *http.Request) (context.Context, trace.Span) {
	if t == nil {
		return ctx, nil
	}
	spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
	ctx, span := t.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.target", r.URL.Path),
		attribute.String("service.name", t.serviceName),
	)
	return ctx, span
}

// endSpan records the final HTTP status and ends span. A nil span
// (tracing not configured) is a no-op.
func endSpan(span trace.Span, status int) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= 500 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
