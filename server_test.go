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
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_RegisterPublishesRoute(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Register(MethodGet, "/a", NewFuncCallbackHandle(func(ctx context.Context, req *DetachedRequest) {})))

	_, _, ok := s.snapshot.anchor().lookup(MethodGet, "/a")
	assert.True(t, ok)
}

func TestServer_Cleanup(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Register(MethodGet, "/a", NewFuncCallbackHandle(func(ctx context.Context, req *DetachedRequest) {})))
	s.Cleanup()

	_, _, ok := s.snapshot.anchor().lookup(MethodGet, "/a")
	assert.False(t, ok)
}

func TestServer_StartBindsAndServes(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Register(MethodGet, "/ping", NewFuncCallbackHandle(
		func(ctx context.Context, req *DetachedRequest) {
			_ = req.SendText("pong")
		},
	)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	require.NoError(t, s.Start(host, port))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	var resp *http.Response
	for attempt := 0; attempt < 20; attempt++ {
		resp, err = http.Get("http://" + net.JoinHostPort(host, port) + "/ping")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_StartReportsBindFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	s := New()
	err = s.Start(host, port)
	require.Error(t, err)

	var bindErr *BindFailedError
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, ErrBindFailed)
}

func TestServer_StopWithoutStartIsNoop(t *testing.T) {
	t.Parallel()

	var gotErr error
	s := New(WithDiagnostics(DiagnosticHandlerFunc(func(kind string, err error) { gotErr = err })))

	assert.NoError(t, s.Stop(context.Background()))
	assert.ErrorIs(t, gotErr, ErrServerNotStarted)
}
