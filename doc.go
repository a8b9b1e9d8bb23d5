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

// Package nativecore is an embeddable HTTP dispatch core meant to sit
// behind a foreign-function bridge: register routes against opaque
// callback handles, and let another runtime (a scripting VM, a plugin
// host) answer each request asynchronously over a one-shot channel.
//
// # Key Features
//
//   - Route tries read without locking from an atomically published
//     immutable snapshot; writers never block trie readers
//   - Bounded per-method LRU match cache in front of the route tries,
//     each guarded by a short-held mutex
//   - Detached requests: the full HTTP request is extracted eagerly
//     into a self-contained value safe to hand to another runtime
//   - A fixed dispatch pipeline with a hard callback timeout — no
//     request ever blocks its goroutine indefinitely
//   - OpenTelemetry metrics and tracing, Prometheus export
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "net/http"
//
//	    "github.com/rivaas-dev/nativecore"
//	)
//
//	func main() {
//	    s := nativecore.New()
//
//	    s.Register(nativecore.MethodGet, "/users/:id", nativecore.NewFuncCallbackHandle(
//	        func(ctx context.Context, req *nativecore.DetachedRequest) {
//	            id, _ := req.PathParam("id")
//	            req.SendObject(map[string]string{"id": id})
//	        },
//	    ))
//
//	    if err := s.Start("0.0.0.0", "8080"); err != nil {
//	        panic(err)
//	    }
//	    select {}
//	}
//
// # Callback contract
//
// A CallbackHandle's Invoke must return quickly (it only needs to
// accept the work — not complete it) and must eventually send exactly
// one Response on the DetachedRequest it was given, via one of the
// Send* methods. A handle that never sends causes the dispatcher to
// reply 408 once the callback budget (default 10s, see
// WithCallbackTimeout) elapses.
//
// # Observability
//
// Metrics and tracing are both attached with functional options and
// are fully optional; a Server built with zero options emits neither:
//
//	s := nativecore.New(
//	    nativecore.WithMetrics(nativecore.DefaultMetricsConfig()),
//	    nativecore.WithTracing(&nativecore.TracingConfig{ServiceName: "edge-api"}),
//	)
//
// NewDevTracerProvider builds a stdout-backed trace.TracerProvider for
// local development, when no real tracing backend is configured yet.
package nativecore
