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
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/bytedance/sonic"
)

// DetachedRequest is an eagerly-materialized, self-contained view of
// an HTTP request. It is constructed once by the dispatcher and handed
// to a host-runtime callback; every field a callback can read is
// copied or precomputed at construction time, so the callback never
// touches shared state or performs an atomic operation on its hot
// path, and it remains safe to move the whole object across runtimes.
//
// Repeated reads of any getter return bytewise-equal results until the
// request is dropped: nothing below mutates after construction except
// the response-builder fields, which the callback itself owns
// exclusively.
type DetachedRequest struct {
	path        string
	method      string
	queryString string
	uri         string
	headers     map[string]string // lowercased name -> value, last-wins
	body        []byte
	pathParams  map[string]string

	queryParams map[string]string
	jsonBody    any
	hasJSONBody bool
	formData    map[string]formField

	uploadDir string
	diag      *diagnostics

	// Response state, owned by the callback.
	sent       atomic.Bool
	statusCode *int
	respHeaders []headerPair
	ch         responseChannel
}

// newDetachedRequest builds a DetachedRequest from r and the path
// params captured by the route match. body must already be fully read
// from r.Body by the caller (the dispatcher reads it before
// construction so this constructor never blocks on I/O).
func newDetachedRequest(r *http.Request, body []byte, pathParams map[string]string, uploadDir string, diag *diagnostics) *DetachedRequest {
	dr := &DetachedRequest{
		path:        r.URL.Path,
		method:      r.Method,
		queryString: r.URL.RawQuery,
		uri:         r.RequestURI,
		headers:     make(map[string]string, len(r.Header)),
		body:        body,
		pathParams:  pathParams,
		uploadDir:   uploadDir,
		diag:        diag,
		ch:          newResponseChannel(),
	}

	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		// Last-wins on duplicate headers.
		dr.headers[strings.ToLower(name)] = values[len(values)-1]
	}

	if dr.queryString != "" {
		if values, err := url.ParseQuery(dr.queryString); err == nil {
			dr.queryParams = make(map[string]string, len(values))
			for k, vs := range values {
				if len(vs) > 0 {
					dr.queryParams[k] = vs[len(vs)-1]
				}
			}
		}
	}

	contentType := dr.headers["content-type"]
	if len(body) > 0 {
		switch {
		case strings.Contains(contentType, "application/json"):
			var v any
			if err := sonic.Unmarshal(body, &v); err == nil {
				dr.jsonBody = v
				dr.hasJSONBody = true
			}
		case strings.Contains(contentType, "application/x-www-form-urlencoded"):
			if values, err := url.ParseQuery(string(body)); err == nil {
				fd := make(map[string]formField, len(values))
				for k, vs := range values {
					if len(vs) > 0 {
						fd[k] = formField{value: vs[len(vs)-1]}
					}
				}
				dr.formData = fd
			}
		case strings.Contains(contentType, "multipart/form-data"):
			dr.formData = parseMultipartForm(body, contentType, uploadDir, diag)
		}
	}

	return dr
}

// --- Readers ---

func (r *DetachedRequest) Path() string        { return r.path }
func (r *DetachedRequest) Method() string      { return r.method }
func (r *DetachedRequest) QueryString() string { return r.queryString }
func (r *DetachedRequest) URI() string         { return r.uri }

func (r *DetachedRequest) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

func (r *DetachedRequest) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

func (r *DetachedRequest) QueryParams() map[string]string {
	return cloneStringMap(r.queryParams)
}

func (r *DetachedRequest) BodyBytes() []byte {
	return r.body
}

func (r *DetachedRequest) BodyString() string {
	return string(r.body)
}

func (r *DetachedRequest) BodySize() int {
	return len(r.body)
}

func (r *DetachedRequest) HasBody() bool {
	return len(r.body) > 0
}

// BodyJSON returns the body parsed as JSON and whether parsing
// succeeded at construction time. It is computed at most once, in the
// constructor, and returns the same value on every call.
func (r *DetachedRequest) BodyJSON() (any, bool) {
	return r.jsonBody, r.hasJSONBody
}

// FormData returns the parsed form fields (urlencoded or multipart).
// File fields are *FileInfo values; others are strings. Computed at
// most once, in the constructor.
func (r *DetachedRequest) FormData() map[string]any {
	if r.formData == nil {
		return nil
	}
	out := make(map[string]any, len(r.formData))
	for k, v := range r.formData {
		out[k] = v.value
	}
	return out
}

func (r *DetachedRequest) FormValue(key string) (any, bool) {
	f, ok := r.formData[key]
	if !ok {
		return nil, false
	}
	return f.value, true
}

func (r *DetachedRequest) PathParams() map[string]string {
	return cloneStringMap(r.pathParams)
}

func (r *DetachedRequest) PathParam(name string) (string, bool) {
	v, ok := r.pathParams[name]
	return v, ok
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- Response builders ---

// Status sets a status override for the eventual response. Must be
// called before any terminal send; it is a no-op (returning false) if
// the response was already sent, or if code is outside [100, 1000).
func (r *DetachedRequest) Status(code int) bool {
	if r.sent.Load() {
		return false
	}
	if code < 100 || code >= 1000 {
		r.diag.emit(diagEvent{Kind: "status_code_out_of_range", Err: ErrStatusCodeOutOfRange})
		return false
	}
	r.statusCode = &code
	return true
}

// AddHeader appends a custom response header. A no-op once the
// response has been sent.
func (r *DetachedRequest) AddHeader(name, value string) {
	if r.sent.Load() {
		return
	}
	r.respHeaders = append(r.respHeaders, headerPair{Name: name, Value: value})
}

// send is the common terminal-send path shared by every send_* method.
// Exactly one call across the lifetime of a request may succeed: the
// CAS on r.sent enforces this regardless of how many goroutines race
// to call it, independent of the channel itself.
func (r *DetachedRequest) send(resp Response) error {
	if !r.sent.CompareAndSwap(false, true) {
		return ErrAlreadySent
	}
	resp.statusCode = r.statusCode
	resp.headers = r.respHeaders
	r.ch <- resp
	return nil
}

// SendText sends a plain-text response.
func (r *DetachedRequest) SendText(text string) error {
	return r.send(newTextResponse(text))
}

// SendJSON sends a pre-serialized JSON string response.
func (r *DetachedRequest) SendJSON(json string) error {
	return r.send(newJSONResponse(json))
}

// SendObject serializes obj to JSON and sends it.
func (r *DetachedRequest) SendObject(obj any) error {
	data, err := sonic.Marshal(obj)
	if err != nil {
		return err
	}
	return r.send(newJSONResponse(string(data)))
}

// SendEmpty sends an empty body response.
func (r *DetachedRequest) SendEmpty() error {
	return r.send(newEmptyResponse())
}

// SendError sends a 500 response, optionally with a custom message in
// place of the default "Internal Server Error" body.
func (r *DetachedRequest) SendError(message string) error {
	if message == "" {
		return r.send(newServerErrorResponse())
	}
	return r.send(newServerErrorWith(message))
}
