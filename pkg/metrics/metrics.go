package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counts injected events by input channel ("edge" or "rank").
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deltarank_events_ingested_total",
			Help: "Total number of events accepted for admission",
		},
		[]string{"channel"},
	)

	// Counts logical times fully processed by the engine.
	Rounds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deltarank_rounds_processed_total",
			Help: "Total number of logical times released and processed",
		},
	)

	// Counts non-zero rank deltas emitted on the output stream.
	DeltasEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deltarank_deltas_emitted_total",
			Help: "Total number of non-zero rank deltas emitted",
		},
	)

	// Logical times currently buffered and waiting for the frontier.
	StashedTimes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deltarank_stashed_times",
			Help: "Buffered logical times not yet released",
		},
	)

	// Nodes with state on this worker partition.
	Nodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deltarank_nodes",
			Help: "Nodes owned by this worker partition",
		},
	)

	// Absolute delta mass emitted by the most recent processed round;
	// trends to zero as the graph converges.
	RoundMagnitude = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deltarank_round_magnitude",
			Help: "Absolute emitted delta mass of the last processed round",
		},
	)
)
