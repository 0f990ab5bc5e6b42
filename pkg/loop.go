package pkg

import "errors"

// ErrZeroSummand rejects a feedback loop that would not advance time.
// A cycle that re-injects output at its own input time would hold the
// frontier forever and stall the whole pipeline.
var ErrZeroSummand = errors.New("feedback summand must be at least 1")

// Loop is the handle for the cyclic data dependency: the engine's
// output stream re-entering its own rank input. The handle is obtained
// first and bound to a sink later; every batch fed through it is
// re-stamped strictly later than the triggering time.
type Loop struct {
	summand Time
	sink    func(t Time, batch []RankEvent)
}

func NewLoop(summand Time) (*Loop, error) {
	if summand == 0 {
		return nil, ErrZeroSummand
	}
	return &Loop{summand: summand}, nil
}

// Bind attaches the consumer of the advanced stream. Binding may happen
// after the engine is constructed but must happen before any event is
// processed.
func (l *Loop) Bind(sink func(t Time, batch []RankEvent)) {
	l.sink = sink
}

// Feed forwards batch to the bound sink at t plus the summand. Feeding
// an unbound loop drops the batch; the engine treats that as a
// configuration error surfaced by tests, not a runtime branch.
func (l *Loop) Feed(t Time, batch []RankEvent) {
	if l.sink == nil || len(batch) == 0 {
		return
	}
	l.sink(t+l.summand, batch)
}
