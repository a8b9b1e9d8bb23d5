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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracingConfig_Defaults(t *testing.T) {
	t.Parallel()

	tc := newTracingConfig(nil)
	require.NotNil(t, tc)
	assert.Equal(t, "nativecore", tc.serviceName)
	require.NotNil(t, tc.tracer)
}

func TestTracingConfig_StartSpanNilReceiver(t *testing.T) {
	t.Parallel()

	var tc *tracingConfig
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, span := tc.startSpan(context.Background(), req)

	assert.Nil(t, span)
	assert.NotNil(t, ctx)
}

func TestEndSpan_NilSpanIsNoop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		endSpan(nil, http.StatusOK)
	})
}

func TestNewDevTracerProvider_BuildsUsableTracer(t *testing.T) {
	t.Parallel()

	provider, err := NewDevTracerProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	tc := newTracingConfig(&TracingConfig{Tracer: provider.Tracer("test")})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, span := tc.startSpan(context.Background(), req)
	require.NotNil(t, span)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestServeHTTP_WithTracingDoesNotBreakDispatch(t *testing.T) {
	t.Parallel()

	s := New(WithTracing(&TracingConfig{ServiceName: "test-service"}))
	require.NoError(t, s.Register(MethodGet, "/traced", NewFuncCallbackHandle(
		func(ctx context.Context, req *DetachedRequest) {
			_ = req.SendText("ok")
		},
	)))

	req := httptest.NewRequest(http.MethodGet, "/traced", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
