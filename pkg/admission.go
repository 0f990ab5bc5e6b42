package pkg

import (
	"errors"

	"github.com/tidwall/btree"
)

// ErrStaleTime reports a batch delivered at or below a time that was
// already released. Re-delivery for a processed time is a protocol
// violation from the surrounding scheduler; callers drop the batch and
// log, they never apply it.
var ErrStaleTime = errors.New("batch delivered for an already released time")

// Frontier is the minimal set of logical times for which a channel
// might still deliver data. An empty frontier means the channel is
// closed: nothing more will arrive on it.
type Frontier []Time

// AnyAtOrBefore reports whether the channel could still deliver data
// for t or an earlier time.
func (f Frontier) AnyAtOrBefore(t Time) bool {
	for _, ft := range f {
		if ft <= t {
			return true
		}
	}
	return false
}

// Admission buffers incoming event batches by logical time, one stash
// per input channel, and releases a time only once the frontiers of
// both channels certify that no more data at or below it can arrive.
// A released time is discarded permanently.
type Admission struct {
	edges     btree.Map[Time, []EdgeEvent]
	ranks     btree.Map[Time, []RankEvent]
	frontiers [2]Frontier
	released  Time
	any       bool
}

// NewAdmission starts with both frontiers at time zero, so nothing is
// admissible until the scheduler advances them.
func NewAdmission() *Admission {
	a := &Admission{}
	a.frontiers[EdgeChannel] = Frontier{0}
	a.frontiers[RankChannel] = Frontier{0}
	return a
}

// StashEdges buffers an edge batch at time t. Batches for an already
// released time are rejected with ErrStaleTime.
func (a *Admission) StashEdges(t Time, batch []EdgeEvent) error {
	if len(batch) == 0 {
		return nil
	}
	if a.any && t <= a.released {
		return ErrStaleTime
	}
	existing, _ := a.edges.Get(t)
	a.edges.Set(t, append(existing, batch...))
	return nil
}

// StashRanks buffers a rank batch at time t, with the same stale-time
// rejection as StashEdges.
func (a *Admission) StashRanks(t Time, batch []RankEvent) error {
	if len(batch) == 0 {
		return nil
	}
	if a.any && t <= a.released {
		return ErrStaleTime
	}
	existing, _ := a.ranks.Get(t)
	a.ranks.Set(t, append(existing, batch...))
	return nil
}

// SetFrontier replaces the outstanding-times description for one
// channel. Produced by the external scheduler (or the Driver).
func (a *Admission) SetFrontier(ch Channel, f Frontier) {
	a.frontiers[ch] = f
}

// releasable applies the readiness rule: t may be processed only when
// no channel's frontier contains a time at or before it.
func (a *Admission) releasable(t Time) bool {
	for _, f := range a.frontiers {
		if f.AnyAtOrBefore(t) {
			return false
		}
	}
	return true
}

// Next pops the earliest stashed time that the frontiers have cleared,
// together with everything buffered for it on both channels. ok is
// false when no stashed time is admissible yet.
func (a *Admission) Next() (t Time, edges []EdgeEvent, ranks []RankEvent, ok bool) {
	t, ok = a.minStashed()
	if !ok || !a.releasable(t) {
		return 0, nil, nil, false
	}
	edges, _ = a.edges.Get(t)
	ranks, _ = a.ranks.Get(t)
	a.edges.Delete(t)
	a.ranks.Delete(t)
	a.released = t
	a.any = true
	return t, edges, ranks, true
}

func (a *Admission) minStashed() (Time, bool) {
	et, _, eok := a.edges.Min()
	rt, _, rok := a.ranks.Min()
	switch {
	case eok && rok:
		if et < rt {
			return et, true
		}
		return rt, true
	case eok:
		return et, true
	case rok:
		return rt, true
	}
	return 0, false
}

// Pending counts the stashed times still waiting for release, summed
// over both channels.
func (a *Admission) Pending() int {
	return a.edges.Len() + a.ranks.Len()
}

// Quiet reports whether no buffered work remains on either channel.
func (a *Admission) Quiet() bool {
	return a.edges.Len() == 0 && a.ranks.Len() == 0
}
