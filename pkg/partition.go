package pkg

// FNV-1a constants for the 32-bit node key hash.
const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// Partitioner maps a node key to the worker that exclusively owns its
// state. Edge-source keys and rank-subject keys go through the same
// hash, so the owner of a node is unique and consistent across both
// channels.
type Partitioner struct {
	workers uint32
}

func NewPartitioner(workers int) Partitioner {
	if workers < 1 {
		workers = 1
	}
	return Partitioner{workers: uint32(workers)}
}

func (p Partitioner) Workers() int {
	return int(p.workers)
}

// Owner hashes key with FNV-1a over its four little-endian bytes and
// reduces modulo the worker count.
func (p Partitioner) Owner(key NodeID) int {
	h := uint32(fnvOffset32)
	for i := 0; i < 4; i++ {
		h ^= uint32(key>>(8*i)) & 0xff
		h *= fnvPrime32
	}
	return int(h % p.workers)
}
