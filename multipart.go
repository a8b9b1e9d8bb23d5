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
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileInfo describes one uploaded file field. Field casing is
// normative per the host-runtime contract: type, originalName,
// filename, path, contentType, size.
type FileInfo struct {
	Type         string `json:"type"`
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	ContentType  string `json:"contentType,omitempty"`
	Size         int64  `json:"size"`
}

// formField is either a plain string value or a *FileInfo, mirroring
// the form_data value union exposed to callbacks.
type formField struct {
	value any // string or *FileInfo
}

// extractBoundary pulls the multipart boundary out of a Content-Type
// header value, tolerating quotes and trailing parameters.
func extractBoundary(contentType string) (string, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMultipart, err)
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return "", fmt.Errorf("%w: missing boundary", ErrMalformedMultipart)
	}
	return boundary, nil
}

// parseMultipartForm parses a multipart/form-data body into a map of
// field name to value. Unlike a hand-rolled string-based boundary
// search over a UTF-8-decoded copy of the body, this operates on the
// raw byte stream via the standard library's multipart.Reader the
// whole way through, so a boundary that happens to straddle
// non-UTF-8 bytes in a binary upload is never corrupted.
//
// A field whose value cannot be read, or a file that cannot be
// persisted, is dropped with a diagnostic; the rest of the form is
// still processed. A part whose headers cannot be parsed ends parsing
// with a diagnostic: the fields read before it are returned, and later
// parts are not processed.
func parseMultipartForm(body []byte, contentType string, uploadDir string, diag *diagnostics) map[string]formField {
	boundary, err := extractBoundary(contentType)
	if err != nil {
		if diag != nil {
			diag.emit(diagEvent{Kind: "multipart_boundary", Err: err})
		}
		return nil
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	out := make(map[string]formField)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if diag != nil {
				diag.emit(diagEvent{Kind: "multipart_part", Err: fmt.Errorf("%w: %v", ErrMalformedMultipart, err)})
			}
			break
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		if part.FileName() == "" {
			data, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				if diag != nil {
					diag.emit(diagEvent{Kind: "multipart_field", Err: fmt.Errorf("%w: %v", ErrMalformedMultipart, err)})
				}
				continue
			}
			out[name] = formField{value: string(data)}
			continue
		}

		info, err := saveUploadedFile(part, part.FileName(), part.Header.Get("Content-Type"), uploadDir)
		part.Close()
		if err != nil {
			if diag != nil {
				diag.emit(diagEvent{Kind: "multipart_file", Err: err})
			}
			continue
		}
		out[name] = formField{value: info}
	}

	return out
}

// saveUploadedFile persists the content of a multipart file part under
// uploadDir using a freshly generated UUID filename that preserves the
// original extension, and returns the resulting FileInfo.
func saveUploadedFile(r io.Reader, originalName, contentType, uploadDir string) (*FileInfo, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileWriteFailed, err)
	}

	ext := filepath.Ext(originalName)
	uniqueName := uuid.New().String() + ext

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileWriteFailed, err)
	}

	fullPath := filepath.Join(uploadDir, uniqueName)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileWriteFailed, err)
	}

	return &FileInfo{
		Type:         "file",
		OriginalName: originalName,
		Filename:     uniqueName,
		Path:         filepath.Join(uploadDir, uniqueName),
		ContentType:  contentType,
		Size:         int64(len(data)),
	}, nil
}
