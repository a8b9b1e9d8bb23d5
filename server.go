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
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"
)

// Server is the native HTTP server core: it owns the route registry,
// the reader snapshot, the match cache, and the fixed dispatch
// pipeline (ServeHTTP, in dispatcher.go). Construct one with New and
// functional Options.
type Server struct {
	snapshot *snapshotHolder
	cache    *matchCache
	store    *routeStore

	logger     *slog.Logger
	diag       *diagnostics
	diagHandler DiagnosticHandler
	metrics    *metricsRecorder
	tracer     *tracingConfig

	callbackBudget time.Duration
	cacheCapacity  int
	uploadDir      string

	serverMu sync.Mutex
	httpSrv  *http.Server
}

// New constructs a Server with the given options. Default cache
// capacity is 1000 entries per method; default callback budget is 10s;
// default upload directory is "./static".
func New(opts ...Option) *Server {
	s := &Server{
		snapshot:       newSnapshotHolder(),
		logger:         noopLogger,
		callbackBudget: defaultCallbackBudget,
		cacheCapacity:  defaultCacheCapacity,
		uploadDir:      "static",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = newMatchCache(s.cacheCapacity)
	s.store = newRouteStore(s.snapshot, s.cache)
	s.diag = &diagnostics{handler: s.diagHandler, logger: loggerAdapter{s.logger}}
	if s.metrics == nil {
		s.metrics = newNoopMetricsRecorder()
	}
	return s
}

// loggerAdapter adapts *slog.Logger to the Logger interface.
type loggerAdapter struct{ l *slog.Logger }

func (a loggerAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a loggerAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a loggerAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a loggerAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

// Register registers a route: a closed-set method, a `/a/b/:p`
// pattern, and a callback handle. Fails synchronously with
// ErrDuplicateRoute or ErrInvalidPattern; never silently overwrites.
func (s *Server) Register(method Method, pattern string, handle CallbackHandle) error {
	err := s.store.Register(method, pattern, handle)
	if err == nil {
		s.metrics.recordRegistration(method)
	}
	return err
}

// Cleanup clears all routes, the current snapshot, and the match
// cache. Intended for test teardown.
func (s *Server) Cleanup() {
	s.store.Cleanup()
}

// CacheStats exposes per-method cache hit/miss counters.
func (s *Server) CacheStats() map[Method]CacheStats {
	return s.cache.Stats()
}

// BindFailedError reports a synchronous bind failure from Start.
type BindFailedError struct {
	Host string
	Port string
	Err  error
}

func (e *BindFailedError) Error() string {
	return fmt.Sprintf("bind failed on %s:%s: %v", e.Host, e.Port, e.Err)
}

func (e *BindFailedError) Unwrap() error { return e.Err }

// Start probe-binds a listener on host:port. If the bind fails, it
// returns a *BindFailedError synchronously without touching the
// snapshot. On success it serves HTTP on the already-bound listener in
// the background and returns. Start does not publish a snapshot
// itself: New installs an empty one and every registration publishes a
// fresh one, so a published snapshot is already in place.
//
// The listener obtained here is the one actually served on — there is
// no throwaway probe-then-reopen step, which would leave a window for
// another process to steal the port between the check and the real
// bind.
func (s *Server) Start(host, port string) error {
	addr := net.JoinHostPort(host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindFailedError{Host: host, Port: port, Err: fmt.Errorf("%w: %v", ErrBindFailed, err)}
	}

	s.serverMu.Lock()
	s.httpSrv = &http.Server{Handler: s}
	srv := s.httpSrv
	s.serverMu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server exited", "error", err)
		}
	}()

	return nil
}

// Stop performs a cooperative shutdown: it waits for in-flight
// dispatches to drain before completing, bounded by ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.serverMu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.serverMu.Unlock()

	if srv == nil {
		s.diag.emit(diagEvent{Kind: "stop_without_start", Err: ErrServerNotStarted})
		return nil
	}
	return srv.Shutdown(ctx)
}

// ForceCleanup clears routes and caches immediately, bypassing the
// cooperative drain Stop performs. Intended for test teardown and as
// a last-resort escape hatch when a graceful shutdown won't complete.
func (s *Server) ForceCleanup() {
	s.Cleanup()
}

// ForceExit schedules a process exit after delay. Last resort for a
// shutdown that will not otherwise complete.
func (s *Server) ForceExit(delay time.Duration) {
	go func() {
		time.Sleep(delay)
		os.Exit(1)
	}()
}
