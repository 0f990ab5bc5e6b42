package pkg

// StateStore holds the adjacency list and rank scalar for every node
// owned by one worker partition. Records are created lazily the first
// time a node is referenced and are never deleted; a node with no
// outgoing weight simply stops producing output.
//
// Storage is arena style: a map resolves the node key to a stable slot
// index once, and the hot path then works on parallel slices.
type StateStore struct {
	slots       map[NodeID]int
	keys        []NodeID
	ranks       []int64
	adjacency   [][]Delta
	initialMass int64
}

// NodeState is a read-only copy of one node's record, used for
// snapshots handed to the API and the graph exporter.
type NodeState struct {
	Key   NodeID
	Rank  int64
	Edges []Delta
}

func NewStateStore(initialMass int64) *StateStore {
	return &StateStore{
		slots:       make(map[NodeID]int),
		initialMass: initialMass,
	}
}

// Ensure returns the slot for key, creating the record with the default
// initial mass and an empty adjacency list if this is the first
// reference.
func (s *StateStore) Ensure(key NodeID) int {
	if slot, ok := s.slots[key]; ok {
		return slot
	}
	slot := len(s.keys)
	s.slots[key] = slot
	s.keys = append(s.keys, key)
	s.ranks = append(s.ranks, s.initialMass)
	s.adjacency = append(s.adjacency, nil)
	return slot
}

func (s *StateStore) Rank(slot int) int64 {
	return s.ranks[slot]
}

func (s *StateStore) AddRank(slot int, diff int64) {
	s.ranks[slot] += diff
}

// Edges returns the compacted adjacency list for slot. Callers must not
// retain it across mutations.
func (s *StateStore) Edges(slot int) []Delta {
	return s.adjacency[slot]
}

// MergeEdge folds a signed multiplicity change for (slot -> dest) into
// the adjacency list, keeping it compacted: destinations stay unique
// and sorted, and an entry whose net weight reaches zero is removed.
func (s *StateStore) MergeEdge(slot int, dest NodeID, diff int64) {
	s.adjacency[slot] = Compact(append(s.adjacency[slot], Delta{Node: dest, Diff: diff}))
}

func (s *StateStore) Len() int {
	return len(s.keys)
}

// Snapshot copies every record, ordered by slot creation.
func (s *StateStore) Snapshot() []NodeState {
	snapshot := make([]NodeState, len(s.keys))
	for slot, key := range s.keys {
		edges := make([]Delta, len(s.adjacency[slot]))
		copy(edges, s.adjacency[slot])
		snapshot[slot] = NodeState{Key: key, Rank: s.ranks[slot], Edges: edges}
	}
	return snapshot
}

// Lookup returns the current rank for key without creating a record.
func (s *StateStore) Lookup(key NodeID) (int64, bool) {
	slot, ok := s.slots[key]
	if !ok {
		return 0, false
	}
	return s.ranks[slot], true
}
