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

// responseKind tags the variant held by a Response.
type responseKind int

const (
	responseText responseKind = iota
	responseJSON
	responseRaw
	responseEmpty
	responseServerError
	responseServerErrorWith
)

// headerPair is one custom response header, kept ordered as produced
// by the callback.
type headerPair struct {
	Name  string
	Value string
}

// Response is the tagged record a callback produces by calling exactly
// one terminal send method on a DetachedRequest. The dispatcher
// translates it into an HTTP response.
type Response struct {
	kind       responseKind
	text       string
	raw        []byte
	errMessage string

	statusCode *int
	headers    []headerPair
}

func newTextResponse(text string) Response   { return Response{kind: responseText, text: text} }
func newJSONResponse(json string) Response   { return Response{kind: responseJSON, text: json} }
func newRawResponse(body []byte) Response    { return Response{kind: responseRaw, raw: body} }
func newEmptyResponse() Response             { return Response{kind: responseEmpty} }
func newServerErrorResponse() Response       { return Response{kind: responseServerError} }
func newServerErrorWith(msg string) Response {
	return Response{kind: responseServerErrorWith, errMessage: msg}
}

// contentType returns the Content-Type this variant implies.
func (r Response) contentType() string {
	switch r.kind {
	case responseText, responseEmpty:
		return "text/plain; charset=utf-8"
	case responseJSON:
		return "application/json; charset=utf-8"
	case responseRaw:
		return "application/octet-stream"
	default:
		return "text/plain; charset=utf-8"
	}
}

// statusAndBody returns the HTTP status and body bytes this variant
// maps to, applying any status override for the non-error variants.
// ServerError/ServerErrorWith always map to 500 regardless of any
// override.
func (r Response) statusAndBody() (int, []byte) {
	switch r.kind {
	case responseServerError:
		return 500, []byte("Internal Server Error")
	case responseServerErrorWith:
		return 500, []byte(r.errMessage)
	}

	status := 200
	if r.statusCode != nil {
		status = *r.statusCode
	}

	var body []byte
	switch r.kind {
	case responseText, responseJSON:
		body = []byte(r.text)
	case responseRaw:
		body = r.raw
	case responseEmpty:
		body = nil
	}
	return status, body
}

// responseChannel is the single-producer/single-consumer one-shot
// rendezvous between a callback (the producer, possibly running on
// any host-runtime thread) and the dispatcher (the consumer). It is
// write-once/read-once: exactly one value is ever sent, guarded by the
// sent flag living on the owning DetachedRequest rather than on the
// channel itself, so "at most one successful terminal send" holds
// regardless of which goroutine wins a race to send.
//
// If the dispatcher times out before a send arrives, any later send
// is discarded: the channel has buffer 1, so a late producer's send
// never blocks, and nothing reads it again.
type responseChannel chan Response

func newResponseChannel() responseChannel {
	return make(responseChannel, 1)
}
