package pkg

// NodeID identifies a graph node. The universe of nodes is implicit:
// a node exists as soon as some event references it.
type NodeID uint32

// Time is a logical round index. It orders events independently of
// wall-clock time; the engine only ever admits events in non-decreasing
// Time order per channel.
type Time uint64

// Channel selects one of the two independent input streams.
type Channel int

const (
	EdgeChannel Channel = iota
	RankChannel
)

func (c Channel) String() string {
	if c == EdgeChannel {
		return "edge"
	}
	return "rank"
}

// EdgeEvent is a single edge-multiplicity mutation: Delta = +1 for one
// edge instance arriving, -1 for one departing. Multiplicities for the
// same (Source, Dest) pair accumulate.
type EdgeEvent struct {
	Source NodeID `json:"source"`
	Dest   NodeID `json:"dest"`
	Delta  int64  `json:"delta"`
}

// RankEvent is a signed rank-mass mutation. It is both the payload of
// the feedback loop and the externally injectable a-priori adjustment.
type RankEvent struct {
	Node  NodeID `json:"node"`
	Delta int64  `json:"delta"`
}

// Envelope is the wire format exchanged between workers: one logical
// time together with the events stamped at that time.
type Envelope struct {
	Time  Time        `json:"time"`
	Edges []EdgeEvent `json:"edges,omitempty"`
	Ranks []RankEvent `json:"ranks,omitempty"`
}
