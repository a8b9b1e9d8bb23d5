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
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultCallbackBudget is the hard deadline the dispatcher allows a
// callback to respond within before the request fails with a timeout.
const defaultCallbackBudget = 10 * time.Second

// ServeHTTP is the fixed default service (component F). For every
// request it looks up a route (through the match cache, falling back
// to the current snapshot), builds a detached request, invokes the
// matched callback handle non-blockingly, and awaits the response with
// a hard timeout, translating the outcome to an HTTP response.
//
// ServeHTTP never blocks the request goroutine beyond the callback
// budget: the wait below is a select against a timer and the request
// context, not an unbounded channel receive.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	method := Method(r.Method)
	path := r.URL.Path

	ctx, span := s.tracer.startSpan(r.Context(), r)
	status := http.StatusOK
	defer func() { endSpan(span, status) }()

	snap := s.snapshot.anchor()
	if snap == nil {
		status = http.StatusInternalServerError
		writeJSONError(w, status, fmt.Sprintf(`{"error":%q}`, ErrNoSnapshot.Error()))
		return
	}
	ref, params, ok := s.cache.lookup(snap, method, path)
	if !ok {
		s.metrics.recordMiss(method)
		status = http.StatusNotFound
		writeJSONError(w, status, fmt.Sprintf(`{"error":"Route not found","path":%q}`, path))
		return
	}
	s.metrics.recordHit(method)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		status = http.StatusBadRequest
		writeJSONError(w, status, `{"error":"failed to read request body"}`)
		return
	}

	req := newDetachedRequest(r, body, params, s.uploadDir, s.diag)

	if err := ref.Handle().Invoke(ctx, req); err != nil {
		s.logger.Warn("callback submission rejected", "path", path, "error", err)
		s.diag.emit(diagEvent{Kind: "callback_rejected", Err: err})
		s.metrics.recordDropped(method)
		status = http.StatusInternalServerError
		writeJSONError(w, status, `{"error":"JavaScript callback did not send response"}`)
		return
	}

	timer := time.NewTimer(s.callbackBudget)
	defer timer.Stop()

	select {
	case resp := <-req.ch:
		s.metrics.recordDuration(method, time.Since(start))
		status, _ = resp.statusAndBody()
		writeResponse(w, resp)
	case <-timer.C:
		s.metrics.recordTimeout(method)
		s.diag.emit(diagEvent{Kind: "callback_timeout", Err: ErrTimeout})
		status = http.StatusRequestTimeout
		writeJSONError(w, status, fmt.Sprintf(`{"error":%q}`, ErrTimeout.Error()))
	case <-r.Context().Done():
		s.metrics.recordTimeout(method)
		s.diag.emit(diagEvent{Kind: "callback_timeout", Err: ErrTimeout})
		status = http.StatusRequestTimeout
		writeJSONError(w, status, fmt.Sprintf(`{"error":%q}`, ErrTimeout.Error()))
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	status, body := resp.statusAndBody()
	w.Header().Set("Content-Type", resp.contentType())
	for _, h := range resp.headers {
		if !validHeaderValue(h.Value) {
			continue
		}
		w.Header().Add(h.Name, h.Value)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSONError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// validHeaderValue rejects header values containing control characters
// that would otherwise corrupt the response; malformed values are
// skipped rather than failing the whole request.
func validHeaderValue(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' {
			return false
		}
	}
	return true
}
