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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Equal(t, defaultCallbackBudget, s.callbackBudget)
	assert.Equal(t, defaultCacheCapacity, s.cacheCapacity)
	assert.Equal(t, "static", s.uploadDir)
}

func TestWithCallbackTimeout(t *testing.T) {
	t.Parallel()

	s := New(WithCallbackTimeout(250 * time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, s.callbackBudget)
}

func TestWithCacheCapacity(t *testing.T) {
	t.Parallel()

	s := New(WithCacheCapacity(5))
	require.NoError(t, s.Register(MethodGet, "/a", NewFuncCallbackHandle(func(ctx context.Context, req *DetachedRequest) {})))
	assert.Equal(t, 5, s.cacheCapacity)
}

func TestWithUploadDir(t *testing.T) {
	t.Parallel()

	s := New(WithUploadDir("/tmp/uploads"))
	assert.Equal(t, "/tmp/uploads", s.uploadDir)
}

func TestWithDiagnostics(t *testing.T) {
	t.Parallel()

	var gotKind string
	handler := DiagnosticHandlerFunc(func(kind string, err error) { gotKind = kind })
	s := New(WithDiagnostics(handler))

	s.diag.emit(diagEvent{Kind: "test_event"})
	assert.Equal(t, "test_event", gotKind)
}
