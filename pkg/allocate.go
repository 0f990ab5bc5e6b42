package pkg

import (
	"fmt"
	"math"
)

// The transmit fraction is held as an integer numerator over this fixed
// denominator so that allocation stays reproducible across platforms.
const transmitDenominator = 1000

// Allocator computes the proportional distribution of a node's
// transmittable rank mass over its weighted outgoing edges.
type Allocator struct {
	numerator int64
}

// NewAllocator converts a transmit fraction in [0, 1] (the share of a
// node's mass that keeps traversing edges instead of being retired)
// into an integer allocator.
func NewAllocator(fraction float64) (Allocator, error) {
	if fraction < 0 || fraction > 1 {
		return Allocator{}, fmt.Errorf("transmit fraction %f outside [0, 1]", fraction)
	}
	return Allocator{numerator: int64(math.Round(fraction * transmitDenominator))}, nil
}

// Allocate appends to buf one (destination, amount) entry per outgoing
// edge, with amount_i = floor(transmittable * weight_i / totalWeight)
// and transmittable = floor(rank * fraction). The remainder left by
// integer truncation is discarded, not redistributed: downstream sums
// may fall short of the transmittable mass, but every evaluation of the
// same state yields the same output. A node with no outgoing weight
// emits nothing.
func (a Allocator) Allocate(rank int64, edges []Delta, buf []Delta) []Delta {
	var total int64
	for _, e := range edges {
		total += e.Diff
	}
	if total == 0 {
		return buf
	}
	transmittable := rank * a.numerator / transmitDenominator
	for _, e := range edges {
		amount := transmittable * e.Diff / total
		if amount == 0 {
			continue
		}
		buf = append(buf, Delta{Node: e.Node, Diff: amount})
	}
	return buf
}
