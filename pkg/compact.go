package pkg

import "sort"

// Delta is one keyed signed contribution. The same shape serves both the
// adjacency list (Node = destination, Diff = net edge weight) and the
// allocation output (Node = destination, Diff = rank mass).
type Delta struct {
	Node NodeID `json:"node"`
	Diff int64  `json:"diff"`
}

// Compact canonicalizes a multiset of keyed contributions: entries are
// sorted by key, equal keys are summed, and zero sums are dropped.
// It works in place and returns the (possibly shorter) slice.
// Compacting twice gives the same result as compacting once, and a value
// together with its exact negation cancels to nothing.
func Compact(deltas []Delta) []Delta {
	if len(deltas) == 0 {
		return deltas
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Node < deltas[j].Node
	})
	out := deltas[:0]
	current := deltas[0]
	for _, d := range deltas[1:] {
		if d.Node == current.Node {
			current.Diff += d.Diff
			continue
		}
		if current.Diff != 0 {
			out = append(out, current)
		}
		current = d
	}
	if current.Diff != 0 {
		out = append(out, current)
	}
	return out
}

// negateInto appends the negation of every entry in deltas to buf.
func negateInto(buf, deltas []Delta) []Delta {
	for _, d := range deltas {
		buf = append(buf, Delta{Node: d.Node, Diff: -d.Diff})
	}
	return buf
}
