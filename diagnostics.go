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

// diagEvent is an informational, non-fatal event: a dropped multipart
// field, a rejected callback submission. The engine's behavior is
// unchanged whether these are collected or not.
type diagEvent struct {
	Kind string
	Err  error
}

// DiagnosticHandler receives diagnostic events. If not configured,
// diagnostics are silently dropped.
type DiagnosticHandler interface {
	OnDiagnostic(kind string, err error)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(kind string, err error)

func (f DiagnosticHandlerFunc) OnDiagnostic(kind string, err error) { f(kind, err) }

// diagnostics fans events out to an optional handler and an optional
// logger; both are nil-safe.
type diagnostics struct {
	handler DiagnosticHandler
	logger  Logger
}

func (d *diagnostics) emit(e diagEvent) {
	if d == nil {
		return
	}
	if d.logger != nil {
		d.logger.Warn(e.Kind, "error", e.Err)
	}
	if d.handler != nil {
		d.handler.OnDiagnostic(e.Kind, e.Err)
	}
}
