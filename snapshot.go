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

import "sync/atomic"

// routeSnapshot is a fully-built, immutable set of five per-method
// tries. Once constructed it is never mutated; a reader that has
// loaded a *routeSnapshot can keep using it for the whole of one
// dispatch even if a registration publishes a newer snapshot
// concurrently.
type routeSnapshot struct {
	tries [numMethods]*trieNode
}

func emptySnapshot() *routeSnapshot {
	var s routeSnapshot
	for i := range s.tries {
		s.tries[i] = newTrieNode()
	}
	return &s
}

func (s *routeSnapshot) lookup(method Method, path string) (*CallbackRef, map[string]string, bool) {
	idx := methodIndex(method)
	if idx < 0 {
		return nil, nil, false
	}
	return s.tries[idx].lookup(path)
}

// snapshotHolder publishes routeSnapshot values atomically so that
// readers never observe a torn, partially-constructed snapshot: a
// lookup either sees the snapshot in place before a publish or the
// one published after it, never a mix of the two.
//
// Modeled directly on the copy-on-write + atomic.Pointer publish
// pattern used for the sibling binding-cache in this codebase's
// lineage: the writer builds a complete replacement off to the side
// and swaps it in with a single atomic store; readers only ever Load.
type snapshotHolder struct {
	current atomic.Pointer[routeSnapshot]
}

func newSnapshotHolder() *snapshotHolder {
	h := &snapshotHolder{}
	h.current.Store(emptySnapshot())
	return h
}

// publish atomically swaps in snap as the new current snapshot.
func (h *snapshotHolder) publish(snap *routeSnapshot) {
	h.current.Store(snap)
}

// anchor returns the snapshot a reader should use for the remainder of
// one dispatch. Callers must load it once at the start of a request
// and keep using the returned value rather than re-loading mid-request,
// so that all reads within that request observe one consistent
// snapshot even if a concurrent registration publishes a new one.
func (h *snapshotHolder) anchor() *routeSnapshot {
	if h == nil {
		return nil
	}
	return h.current.Load()
}
