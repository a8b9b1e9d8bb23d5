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
	"log/slog"
	"time"
)

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the structured logger used for lifecycle errors and
// non-fatal per-request diagnostics. Defaults to a no-op logger.
//
// Example:
//
//	s := nativecore.New(nativecore.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDiagnostics sets a handler that receives non-fatal diagnostic
// events: dropped multipart fields, rejected callback submissions. The
// engine functions identically whether or not diagnostics are
// collected.
//
// Example:
//
//	handler := nativecore.DiagnosticHandlerFunc(func(kind string, err error) {
//	    slog.Warn("diagnostic", "kind", kind, "error", err)
//	})
//	s := nativecore.New(nativecore.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(s *Server) {
		s.diagHandler = handler
	}
}

// WithCacheCapacity sets the per-method match cache capacity. Default
// is 1000 entries per method.
func WithCacheCapacity(capacity int) Option {
	return func(s *Server) {
		s.cacheCapacity = capacity
	}
}

// WithCallbackTimeout overrides the hard budget the dispatcher allows
// a callback to respond within before returning 408. Default is 10s.
func WithCallbackTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.callbackBudget = d
	}
}

// WithUploadDir sets the directory multipart file uploads are
// persisted under. Default is "static", created on first upload.
func WithUploadDir(dir string) Option {
	return func(s *Server) {
		s.uploadDir = dir
	}
}

// WithMetrics attaches an OpenTelemetry-backed metrics recorder built
// from cfg. See metrics.go for provider options (Prometheus, OTLP,
// stdout).
func WithMetrics(cfg *MetricsConfig) Option {
	return func(s *Server) {
		rec, err := newMetricsRecorder(cfg)
		if err != nil {
			s.logger.Error("failed to initialize metrics", "error", err)
			return
		}
		s.metrics = rec
	}
}

// WithTracing attaches a tracer used to create one span per dispatch.
func WithTracing(cfg *TracingConfig) Option {
	return func(s *Server) {
		s.tracer = newTracingConfig(cfg)
	}
}
