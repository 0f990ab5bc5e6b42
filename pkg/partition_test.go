package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionerOwnerInRange(t *testing.T) {
	part := NewPartitioner(4)
	for key := NodeID(0); key < 1000; key++ {
		owner := part.Owner(key)
		assert.GreaterOrEqual(t, owner, 0)
		assert.Less(t, owner, 4)
	}
}

func TestPartitionerConsistent(t *testing.T) {
	part := NewPartitioner(8)
	for key := NodeID(0); key < 100; key++ {
		assert.Equal(t, part.Owner(key), part.Owner(key),
			"the edge-source key and the rank-subject key must resolve to the same owner")
	}
}

func TestPartitionerSingleWorkerOwnsEverything(t *testing.T) {
	part := NewPartitioner(1)
	for key := NodeID(0); key < 100; key++ {
		assert.Equal(t, 0, part.Owner(key))
	}
}

func TestPartitionerSpreadsKeys(t *testing.T) {
	part := NewPartitioner(4)
	counts := make([]int, 4)
	for key := NodeID(0); key < 4000; key++ {
		counts[part.Owner(key)]++
	}
	for worker, count := range counts {
		assert.Greater(t, count, 500, "worker %d owns too few keys", worker)
	}
}
