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
)

// FuncCallbackHandle adapts a plain Go function to CallbackHandle. It
// runs fn on its own goroutine so Invoke itself returns immediately,
// matching the non-blocking-submit contract real host-runtime bridges
// provide: the bridge only guarantees the submission was accepted, not
// that the callback has run.
//
// fn always runs on that goroutine, never synchronously inside Invoke.
// A panic inside fn is recovered there, so it cannot crash the
// process, but no response is sent for it: unless fn already sent one,
// the dispatcher answers 408 once the callback budget elapses. The
// panic does not surface as an Invoke error, so it is not reported as
// a producer-dropped 500.
type FuncCallbackHandle struct {
	fn func(ctx context.Context, req *DetachedRequest)
}

// NewFuncCallbackHandle wraps fn as a CallbackHandle. Useful for tests
// and for host-runtime bridges that can hand the engine a bound Go
// closure directly instead of going through FFI.
func NewFuncCallbackHandle(fn func(ctx context.Context, req *DetachedRequest)) *FuncCallbackHandle {
	return &FuncCallbackHandle{fn: fn}
}

func (h *FuncCallbackHandle) Invoke(ctx context.Context, req *DetachedRequest) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: callback panicked: %v", ErrHandleInvocationFailed, rec)
		}
	}()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				// The callback panicked after Invoke already returned
				// successfully; the dispatcher cannot be told
				// synchronously, so the request simply times out
				// unless a send already happened.
				_ = rec
			}
		}()
		h.fn(ctx, req)
	}()

	return nil
}
