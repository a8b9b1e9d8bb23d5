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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHolder_StartsEmpty(t *testing.T) {
	t.Parallel()

	h := newSnapshotHolder()
	snap := h.anchor()
	require.NotNil(t, snap)

	_, _, ok := snap.lookup(MethodGet, "/anything")
	assert.False(t, ok)
}

func TestSnapshotHolder_AnchorIsStableAcrossPublish(t *testing.T) {
	t.Parallel()

	h := newSnapshotHolder()
	anchored := h.anchor()

	h.publish(&routeSnapshot{tries: [numMethods]*trieNode{newTrieNode(), newTrieNode(), newTrieNode(), newTrieNode(), newTrieNode()}})

	// Publishing swaps in a distinct snapshot instead of mutating the
	// one already loaded: a later anchor returns the new value, while a
	// reader that anchored before the publish still holds the old one.
	assert.NotSame(t, anchored, h.anchor())
}

func TestSnapshotHolder_ConcurrentPublishAndAnchor(t *testing.T) {
	t.Parallel()

	h := newSnapshotHolder()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.publish(emptySnapshot())
		}()
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.anchor()
		}()
	}
	wg.Wait()

	assert.NotNil(t, h.anchor())
}

func TestRouteSnapshot_UnknownMethod(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot()
	_, _, ok := snap.lookup(Method("TRACE"), "/a")
	assert.False(t, ok)
}

func TestSnapshotHolder_NilReceiverReturnsNoSnapshot(t *testing.T) {
	t.Parallel()

	var h *snapshotHolder
	assert.Nil(t, h.anchor())
}
