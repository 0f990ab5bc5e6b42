package pkg

import (
	"context"
	"sync"
	"time"

	"github.com/gfiorelli/deltarank/pkg/metrics"
	"github.com/gfiorelli/deltarank/utils"
)

// Driver owns the engine and the logical clock of one worker partition.
// It stamps injected events, advances the per-channel frontiers one
// round per tick, drains the engine, and routes emitted deltas either
// back into the local stash or to the owning worker's queue.
//
// The engine itself is single-threaded and lock-free; the mutex only
// guards the boundary where API handlers and the queue consumer hand
// events to the core.
type Driver struct {
	engine *Engine
	adm    *Admission
	store  *StateStore
	part   Partitioner
	self   int
	router *Router

	mu     sync.Mutex
	now    Time
	rounds uint64

	lastEmitted   int
	lastMagnitude int64
}

// DriverConfig collects everything a worker needs to run its partition.
type DriverConfig struct {
	TransmitFraction float64
	InitialMass      int64
	Partitioner      Partitioner
	Self             int
	Router           *Router
}

func NewDriver(cfg DriverConfig) (*Driver, error) {
	alloc, err := NewAllocator(cfg.TransmitFraction)
	if err != nil {
		return nil, err
	}
	loop, err := NewLoop(1)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		adm:    NewAdmission(),
		store:  NewStateStore(cfg.InitialMass),
		part:   cfg.Partitioner,
		self:   cfg.Self,
		router: cfg.Router,
	}
	d.engine = NewEngine(d.store, alloc, d.adm, loop, d.observe)
	loop.Bind(d.feedback)
	return d, nil
}

// InjectEdges stamps a batch of edge mutations with the currently open
// round, keeps the locally owned share and routes the rest to their
// owners. It returns the stamped time.
func (d *Driver) InjectEdges(events []EdgeEvent) (Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.now
	metrics.EventsIngested.WithLabelValues(EdgeChannel.String()).Add(float64(len(events)))
	local, remote := splitEdges(events, d.part, d.self)
	if err := d.adm.StashEdges(t, local); err != nil {
		return t, err
	}
	for worker, batch := range remote {
		if err := d.publish(worker, Envelope{Time: t, Edges: batch}); err != nil {
			return t, err
		}
	}
	return t, nil
}

// InjectRanks is the a-priori rank adjustment entry point, identical in
// shape to the feedback path.
func (d *Driver) InjectRanks(events []RankEvent) (Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.now
	metrics.EventsIngested.WithLabelValues(RankChannel.String()).Add(float64(len(events)))
	local, remote := splitRanks(events, d.part, d.self)
	if err := d.adm.StashRanks(t, local); err != nil {
		return t, err
	}
	for worker, batch := range remote {
		if err := d.publish(worker, Envelope{Time: t, Ranks: batch}); err != nil {
			return t, err
		}
	}
	return t, nil
}

// HandleEnvelope ingests a batch delivered by another worker. Stale
// times are dropped defensively: a peer running ahead of our released
// clock is a protocol violation that must not corrupt local state.
func (d *Driver) HandleEnvelope(env Envelope) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.adm.StashEdges(env.Time, env.Edges); err != nil {
		utils.WarnLog("driver", "dropping edge batch at time %d: %v", env.Time, err)
	}
	if err := d.adm.StashRanks(env.Time, env.Ranks); err != nil {
		utils.WarnLog("driver", "dropping rank batch at time %d: %v", env.Time, err)
	}
	return nil
}

// Tick closes the current round: the frontiers move past it, making
// every stashed time at or below it admissible, and the engine drains
// them. Idle rounds fast-forward without touching the engine.
func (d *Driver) Tick() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now++
	d.adm.SetFrontier(EdgeChannel, Frontier{d.now})
	d.adm.SetFrontier(RankChannel, Frontier{d.now})
	if d.adm.Quiet() {
		return 0
	}
	processed := d.engine.Step()
	d.rounds += uint64(processed)
	metrics.Rounds.Add(float64(processed))
	metrics.StashedTimes.Set(float64(d.adm.Pending()))
	return processed
}

// Run ticks the logical clock until ctx is cancelled.
func (d *Driver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := d.Tick(); n > 0 {
				stats := d.Stats()
				utils.EngineLog("round %d: processed %d time(s), emitted %d delta(s), magnitude %d",
					stats.Round, n, stats.LastEmitted, stats.LastMagnitude)
			}
		}
	}
}

// feedback re-enters the engine's output on the rank channel, already
// advanced one round by the loop handle. Remote shares go to the owning
// worker; the local share lands in the stash directly. Called by the
// engine while the driver lock is held.
func (d *Driver) feedback(t Time, batch []RankEvent) {
	local, remote := splitRanks(batch, d.part, d.self)
	if err := d.adm.StashRanks(t, local); err != nil {
		utils.WarnLog("driver", "dropping feedback at time %d: %v", t, err)
	}
	for worker, events := range remote {
		if err := d.publish(worker, Envelope{Time: t, Ranks: events}); err != nil {
			utils.WarnLog("driver", "publishing feedback to worker %d: %v", worker, err)
		}
	}
}

// observe records per-round output statistics. Called by the engine
// while the driver lock is held.
func (d *Driver) observe(t Time, deltas []Delta) {
	var magnitude int64
	for _, delta := range deltas {
		if delta.Diff < 0 {
			magnitude -= delta.Diff
		} else {
			magnitude += delta.Diff
		}
	}
	d.lastEmitted = len(deltas)
	d.lastMagnitude = magnitude
	metrics.RoundMagnitude.Set(float64(magnitude))
}

func (d *Driver) publish(worker int, env Envelope) error {
	if d.router == nil {
		utils.WarnLog("driver", "no router configured, dropping batch for worker %d", worker)
		return nil
	}
	return d.router.Publish(worker, env)
}

// Round returns the currently open round.
func (d *Driver) Round() Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// Stats is the convergence summary surfaced by the API.
type Stats struct {
	Round         Time   `json:"round"`
	Rounds        uint64 `json:"rounds_processed"`
	Pending       int    `json:"pending_times"`
	Quiescent     bool   `json:"quiescent"`
	LastEmitted   int    `json:"last_emitted"`
	LastMagnitude int64  `json:"last_magnitude"`
	Nodes         int    `json:"nodes"`
}

func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Round:         d.now,
		Rounds:        d.rounds,
		Pending:       d.adm.Pending(),
		Quiescent:     d.adm.Quiet(),
		LastEmitted:   d.lastEmitted,
		LastMagnitude: d.lastMagnitude,
		Nodes:         d.store.Len(),
	}
}

// Snapshot copies the owned partition's state for reporting.
func (d *Driver) Snapshot() []NodeState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Snapshot()
}

// RankOf returns the current rank of key if this worker owns a record
// for it.
func (d *Driver) RankOf(key NodeID) (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Lookup(key)
}

func splitEdges(events []EdgeEvent, part Partitioner, self int) ([]EdgeEvent, map[int][]EdgeEvent) {
	var local []EdgeEvent
	var remote map[int][]EdgeEvent
	for _, ev := range events {
		owner := part.Owner(ev.Source)
		if owner == self {
			local = append(local, ev)
			continue
		}
		if remote == nil {
			remote = make(map[int][]EdgeEvent)
		}
		remote[owner] = append(remote[owner], ev)
	}
	return local, remote
}

func splitRanks(events []RankEvent, part Partitioner, self int) ([]RankEvent, map[int][]RankEvent) {
	var local []RankEvent
	var remote map[int][]RankEvent
	for _, ev := range events {
		owner := part.Owner(ev.Node)
		if owner == self {
			local = append(local, ev)
			continue
		}
		if remote == nil {
			remote = make(map[int][]RankEvent)
		}
		remote[owner] = append(remote[owner], ev)
	}
	return local, remote
}
