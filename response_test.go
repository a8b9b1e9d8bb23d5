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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_TextDefaults(t *testing.T) {
	t.Parallel()

	r := newTextResponse("hi")
	status, body := r.statusAndBody()
	assert.Equal(t, 200, status)
	assert.Equal(t, "hi", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", r.contentType())
}

func TestResponse_JSONContentType(t *testing.T) {
	t.Parallel()

	r := newJSONResponse(`{"a":1}`)
	assert.Equal(t, "application/json; charset=utf-8", r.contentType())
	_, body := r.statusAndBody()
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestResponse_RawContentType(t *testing.T) {
	t.Parallel()

	r := newRawResponse([]byte{0x01, 0x02})
	assert.Equal(t, "application/octet-stream", r.contentType())
	_, body := r.statusAndBody()
	assert.Equal(t, []byte{0x01, 0x02}, body)
}

func TestResponse_StatusOverrideAppliesToNonErrorVariants(t *testing.T) {
	t.Parallel()

	r := newTextResponse("created")
	status := 201
	r.statusCode = &status

	got, _ := r.statusAndBody()
	assert.Equal(t, 201, got)
}

func TestResponse_ServerErrorIgnoresStatusOverride(t *testing.T) {
	t.Parallel()

	r := newServerErrorResponse()
	status := 201
	r.statusCode = &status

	got, body := r.statusAndBody()
	assert.Equal(t, 500, got, "server error variants always map to 500 regardless of any override")
	assert.Equal(t, "Internal Server Error", string(body))
}

func TestResponse_ServerErrorWith(t *testing.T) {
	t.Parallel()

	r := newServerErrorWith("custom failure")
	status, body := r.statusAndBody()
	assert.Equal(t, 500, status)
	assert.Equal(t, "custom failure", string(body))
}

func TestResponse_Empty(t *testing.T) {
	t.Parallel()

	r := newEmptyResponse()
	status, body := r.statusAndBody()
	assert.Equal(t, 200, status)
	assert.Nil(t, body)
}

func TestResponseChannel_BufferedSingleShot(t *testing.T) {
	t.Parallel()

	ch := newResponseChannel()
	ch <- newTextResponse("only one")

	select {
	case resp := <-ch:
		_, body := resp.statusAndBody()
		assert.Equal(t, "only one", string(body))
	default:
		t.Fatal("expected a buffered value")
	}
}
