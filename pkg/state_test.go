package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStoreLazyCreation(t *testing.T) {
	store := NewStateStore(1000)
	assert.Equal(t, 0, store.Len())

	_, ok := store.Lookup(4)
	assert.False(t, ok)

	slot := store.Ensure(4)
	assert.Equal(t, int64(1000), store.Rank(slot))
	assert.Empty(t, store.Edges(slot))
	assert.Equal(t, 1, store.Len())

	// Re-ensuring returns the same slot and leaves the record alone
	store.AddRank(slot, 25)
	assert.Equal(t, slot, store.Ensure(4))
	assert.Equal(t, int64(1025), store.Rank(slot))
}

func TestStateStoreMergeEdge(t *testing.T) {
	store := NewStateStore(1000)
	slot := store.Ensure(0)

	store.MergeEdge(slot, 5, 1)
	store.MergeEdge(slot, 3, 1)
	store.MergeEdge(slot, 5, 1)
	assert.Equal(t, []Delta{{Node: 3, Diff: 1}, {Node: 5, Diff: 2}}, store.Edges(slot))

	// An entry whose net weight reaches zero is removed, never stored
	store.MergeEdge(slot, 3, -1)
	assert.Equal(t, []Delta{{Node: 5, Diff: 2}}, store.Edges(slot))
}

func TestStateStoreSnapshot(t *testing.T) {
	store := NewStateStore(500)
	a := store.Ensure(10)
	store.MergeEdge(a, 20, 1)
	store.Ensure(20)

	snapshot := store.Snapshot()
	assert.Equal(t, []NodeState{
		{Key: 10, Rank: 500, Edges: []Delta{{Node: 20, Diff: 1}}},
		{Key: 20, Rank: 500, Edges: []Delta{}},
	}, snapshot)

	// Snapshot edges are copies: mutating them must not reach the store
	if len(snapshot[0].Edges) > 0 {
		snapshot[0].Edges[0].Diff = 99
	}
	assert.Equal(t, []Delta{{Node: 20, Diff: 1}}, store.Edges(a))
}
