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
	"container/list"
	"sync"
	"sync/atomic"
)

// defaultCacheCapacity is the default number of entries held per
// method in the match cache.
const defaultCacheCapacity = 1000

// cacheEntry is one successful match held in a method's LRU cache.
type cacheEntry struct {
	path    string
	handle  *CallbackRef
	params  map[string]string
	element *list.Element
}

// methodCache is a bounded LRU cache for one HTTP method, keyed by the
// literal request path. Only successful matches are ever stored;
// misses are never cached, to avoid poisoning by probing attackers.
type methodCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*cacheEntry
	order    *list.List // front = most recently used

	hits   uint64
	misses uint64
}

func newMethodCache(capacity int) *methodCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &methodCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry, capacity),
		order:    list.New(),
	}
}

func (c *methodCache) get(path string) (*CallbackRef, map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return nil, nil, false
	}
	atomic.AddUint64(&c.hits, 1)
	c.order.MoveToFront(e.element)
	return e.handle, e.params, true
}

func (c *methodCache) put(path string, handle *CallbackRef, params map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[path]; ok {
		existing.handle = handle
		existing.params = params
		c.order.MoveToFront(existing.element)
		return
	}

	entry := &cacheEntry{path: path, handle: handle, params: params}
	entry.element = c.order.PushFront(entry)
	c.entries[path] = entry

	if len(c.entries) > c.capacity {
		lru := c.order.Back()
		if lru != nil {
			c.order.Remove(lru)
			delete(c.entries, lru.Value.(*cacheEntry).path)
		}
	}
}

func (c *methodCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry, c.capacity)
	c.order.Init()
}

// CacheStats reports hit/miss counters for one method's cache.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

func (c *methodCache) stats() CacheStats {
	return CacheStats{
		Hits:   atomic.LoadUint64(&c.hits),
		Misses: atomic.LoadUint64(&c.misses),
	}
}

// matchCache fronts the route reader (component B) with one bounded
// LRU per method (component C). A lookup first consults the method's
// cache; on miss it falls through to the snapshot trie and, if that
// succeeds, stores the result before returning it. Any registration or
// cleanup clears every method's cache — coarse, but always correct.
type matchCache struct {
	perMethod [numMethods]*methodCache
}

func newMatchCache(capacity int) *matchCache {
	var c matchCache
	for i := range c.perMethod {
		c.perMethod[i] = newMethodCache(capacity)
	}
	return &c
}

// lookup resolves (method, path) via the cache, falling back to snap
// on a miss. Only successful trie matches are cached.
func (c *matchCache) lookup(snap *routeSnapshot, method Method, path string) (*CallbackRef, map[string]string, bool) {
	idx := methodIndex(method)
	if idx < 0 {
		return nil, nil, false
	}
	mc := c.perMethod[idx]

	if handle, params, ok := mc.get(path); ok {
		return handle, params, true
	}

	handle, params, ok := snap.lookup(method, path)
	if !ok {
		return nil, nil, false
	}
	mc.put(path, handle, params)
	return handle, params, true
}

func (c *matchCache) clearAll() {
	for _, mc := range c.perMethod {
		mc.clear()
	}
}

// Stats returns the current hit/miss counters for every method's
// cache, keyed by method name. Exposed for tests and operators
// verifying cache effectiveness (spec scenario S7).
func (c *matchCache) Stats() map[Method]CacheStats {
	out := make(map[Method]CacheStats, numMethods)
	for i, m := range allMethods {
		out[m] = c.perMethod[i].stats()
	}
	return out
}
