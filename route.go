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
	"strings"
	"sync/atomic"
)

// Method is one of the five HTTP methods this engine dispatches.
// Requests using any other method are treated as not-found.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// methodIndex maps a Method to its slot in the five-wide per-method
// arrays used by the store, snapshot and cache. Returns -1 for any
// method outside the closed set.
func methodIndex(m Method) int {
	switch m {
	case MethodGet:
		return 0
	case MethodPost:
		return 1
	case MethodPut:
		return 2
	case MethodPatch:
		return 3
	case MethodDelete:
		return 4
	default:
		return -1
	}
}

const numMethods = 5

var allMethods = [numMethods]Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// CallbackHandle is an opaque, reference-countable handle to a
// host-runtime function. It is safe to invoke from any goroutine; the
// implementation is responsible for getting the call onto the host
// runtime's own executor. The engine never introspects a handle beyond
// this interface.
//
// Invoke must not block the caller for the duration of the host-side
// call: it submits the detached request non-blockingly and returns as
// soon as submission has been accepted or rejected. The eventual
// terminal send happens later, asynchronously, directly on req.
type CallbackHandle interface {
	// Invoke submits req to the host runtime. A non-nil error means
	// the submission itself was rejected (the host bridge refused it);
	// the dispatcher treats that identically to ErrProducerDropped.
	Invoke(ctx context.Context, req *DetachedRequest) error
}

// CallbackRef is a reference-counted wrapper around a CallbackHandle.
// The route store and every snapshot/cache entry derived from it hold
// the same *CallbackRef rather than a bare CallbackHandle. The store
// creates each ref with a count of one at registration; snapshots and
// cache entries share it without calling Retain, and the engine never
// calls Release itself, so the count is not adjusted as holders come
// and go. A ref that no holder references any more is reclaimed by the
// garbage collector.
type CallbackRef struct {
	handle CallbackHandle
	refs   int64
}

// NewCallbackRef wraps handle with an initial reference count of one.
func NewCallbackRef(handle CallbackHandle) *CallbackRef {
	return &CallbackRef{handle: handle, refs: 1}
}

// Retain increments the reference count and returns the ref for chaining.
func (r *CallbackRef) Retain() *CallbackRef {
	atomic.AddInt64(&r.refs, 1)
	return r
}

// Release decrements the reference count. It reports whether this call
// dropped the count to zero; callers that release handles are expected
// to have already invalidated any cache referencing it.
func (r *CallbackRef) Release() bool {
	return atomic.AddInt64(&r.refs, -1) == 0
}

// Handle returns the wrapped callback handle.
func (r *CallbackRef) Handle() CallbackHandle {
	return r.handle
}

// routePattern is a parsed route pattern: a sequence of literal and
// parameter segments. Patterns use the standard `/a/b/:p/c` grammar;
// `:name` matches exactly one non-slash segment.
type routePattern struct {
	raw      string
	segments []patternSegment
}

type patternSegment struct {
	literal string
	param   string // non-empty if this segment is a :name capture
}

// parsePattern validates and splits raw into segments. It rejects
// empty patterns, patterns not starting with '/', and parameter
// segments with no name or with a name repeated elsewhere in the same
// pattern (exactly one capture per segment name).
func parsePattern(raw string) (routePattern, error) {
	if raw == "" || raw[0] != '/' {
		return routePattern{}, fmt.Errorf("%w: pattern must start with '/': %q", ErrInvalidPattern, raw)
	}

	trimmed := strings.TrimPrefix(raw, "/")
	var segs []patternSegment
	seen := make(map[string]bool)

	if trimmed != "" {
		for _, part := range strings.Split(trimmed, "/") {
			if part == "" {
				return routePattern{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, raw)
			}
			if part[0] == ':' {
				name := part[1:]
				if name == "" {
					return routePattern{}, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, raw)
				}
				if seen[name] {
					return routePattern{}, fmt.Errorf("%w: duplicate parameter %q in %q", ErrInvalidPattern, name, raw)
				}
				seen[name] = true
				segs = append(segs, patternSegment{param: name})
			} else {
				segs = append(segs, patternSegment{literal: part})
			}
		}
	}

	return routePattern{raw: raw, segments: segs}, nil
}
