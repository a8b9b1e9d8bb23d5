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

import "sync"

// routeStore is the writer side of the route registry (component A).
// It holds five mutable pattern→handle maps, one per method, guarded
// by a single mutex that serializes Register and Cleanup. Readers
// never observe this type directly; every registration rebuilds and
// publishes a fresh snapshot and clears the match cache.
type routeStore struct {
	mu         sync.Mutex
	registered [numMethods]map[string]*CallbackRef

	snapshot *snapshotHolder
	cache    *matchCache
}

func newRouteStore(snapshot *snapshotHolder, cache *matchCache) *routeStore {
	s := &routeStore{snapshot: snapshot, cache: cache}
	for i := range s.registered {
		s.registered[i] = make(map[string]*CallbackRef)
	}
	return s
}

// Register inserts (method, pattern, handle) into the writer registry.
// It rejects an unrecognized method, a malformed pattern, or a
// duplicate (method, pattern) pair with a sentinel error. On success
// it rebuilds all five tries and publishes them as a new
// snapshot, then clears the match cache — in that order, so no reader
// can observe a cache entry that predates the registration it should
// reflect.
func (s *routeStore) Register(method Method, pattern string, handle CallbackHandle) error {
	idx := methodIndex(method)
	if idx < 0 {
		return ErrInvalidPattern
	}

	if _, err := parsePattern(pattern); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registered[idx][pattern]; exists {
		return ErrDuplicateRoute
	}

	s.registered[idx][pattern] = NewCallbackRef(handle)

	return s.rebuildLocked()
}

// Cleanup clears all five writer tries, publishes an empty snapshot,
// and clears the match cache. Intended for test teardown and the
// force-cleanup lifecycle escape hatch.
func (s *routeStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.registered {
		s.registered[i] = make(map[string]*CallbackRef)
	}
	s.snapshot.publish(emptySnapshot())
	s.cache.clearAll()
}

// rebuildLocked must be called with s.mu held. It builds fresh tries
// from the current registration maps, publishes them, and clears the
// cache.
func (s *routeStore) rebuildLocked() error {
	tries, err := buildTries(s.registered)
	if err != nil {
		return err
	}
	s.snapshot.publish(&routeSnapshot{tries: tries})
	s.cache.clearAll()
	return nil
}
