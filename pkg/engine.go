package pkg

import (
	"github.com/gfiorelli/deltarank/pkg/metrics"
)

// Engine is the incremental redistribution operator for one worker
// partition. For every admitted event it brackets the mutation with two
// full allocations of the touched node and ships only the compacted
// difference, so downstream nodes converge toward the allocation of the
// latest state without the engine keeping any history of previously
// sent amounts. Cost per event is proportional to the out-degree of the
// mutated node, never to the size of the graph.
type Engine struct {
	store *StateStore
	alloc Allocator
	adm   *Admission
	loop  *Loop

	// Observer for the emitted delta stream; used for convergence
	// statistics and by tests. May be nil.
	out func(t Time, deltas []Delta)

	// Scratch buffers reused across invocations, never persisted.
	before []Delta
	after  []Delta
	batch  []Delta
}

func NewEngine(store *StateStore, alloc Allocator, adm *Admission, loop *Loop, out func(t Time, deltas []Delta)) *Engine {
	return &Engine{
		store: store,
		alloc: alloc,
		adm:   adm,
		loop:  loop,
		out:   out,
	}
}

// Step synchronously drains every currently admissible time in order
// and returns how many were processed. It never blocks: when nothing is
// admissible it returns immediately.
func (e *Engine) Step() int {
	processed := 0
	for {
		t, edges, ranks, ok := e.adm.Next()
		if !ok {
			break
		}
		e.process(t, edges, ranks)
		processed++
	}
	return processed
}

// process applies every event released for time t and feeds the
// resulting non-zero deltas back through the loop at t+1. Edge events
// are applied before rank events so a bundled release stays
// deterministic.
func (e *Engine) process(t Time, edges []EdgeEvent, ranks []RankEvent) {
	e.batch = e.batch[:0]
	for _, ev := range edges {
		slot := e.store.Ensure(ev.Source)
		e.bracket(slot, func() {
			e.store.MergeEdge(slot, ev.Dest, ev.Delta)
		})
	}
	for _, ev := range ranks {
		slot := e.store.Ensure(ev.Node)
		e.bracket(slot, func() {
			e.store.AddRank(slot, ev.Delta)
		})
	}
	deltas := Compact(e.batch)
	e.batch = deltas

	metrics.DeltasEmitted.Add(float64(len(deltas)))
	metrics.Nodes.Set(float64(e.store.Len()))
	if e.out != nil {
		e.out(t, deltas)
	}
	if len(deltas) == 0 {
		return
	}
	feedback := make([]RankEvent, len(deltas))
	for i, d := range deltas {
		feedback[i] = RankEvent{Node: d.Node, Delta: d.Diff}
	}
	e.loop.Feed(t, feedback)
}

// bracket computes the allocation of slot before and after mutate runs,
// cancels the two against each other and accumulates the net difference
// into the current output batch. mutate must touch only this slot's
// record; Allocate being a pure function of current state is what makes
// the cancellation correct.
func (e *Engine) bracket(slot int, mutate func()) {
	e.before = e.alloc.Allocate(e.store.Rank(slot), e.store.Edges(slot), e.before[:0])
	mutate()
	e.after = e.alloc.Allocate(e.store.Rank(slot), e.store.Edges(slot), e.after[:0])

	e.after = negateInto(e.after, e.before)
	e.batch = append(e.batch, Compact(e.after)...)
}
