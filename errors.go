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

import "errors"

// Static errors for better error handling and testing.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Registration errors
	ErrDuplicateRoute = errors.New("route already registered for this method and pattern")
	ErrInvalidPattern = errors.New("invalid route pattern")

	// Lifecycle errors
	ErrBindFailed     = errors.New("failed to bind listener")
	ErrNoSnapshot     = errors.New("no route snapshot has been published yet")
	ErrServerNotStarted = errors.New("server has not been started")

	// Dispatch errors
	ErrAlreadySent            = errors.New("response already sent for this request")
	ErrProducerDropped        = errors.New("callback did not send a response")
	ErrTimeout                = errors.New("Request timeout - JavaScript callback took too long")
	ErrHandleInvocationFailed = errors.New("callback handle rejected invocation")

	// Multipart errors
	ErrMalformedMultipart = errors.New("malformed multipart field")
	ErrFileWriteFailed    = errors.New("failed to persist uploaded file")

	// Request/response builder errors
	ErrStatusCodeOutOfRange = errors.New("status code out of range")
)
