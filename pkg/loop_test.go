package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRejectsZeroSummand(t *testing.T) {
	_, err := NewLoop(0)
	assert.ErrorIs(t, err, ErrZeroSummand)
}

func TestLoopAdvancesTime(t *testing.T) {
	loop, err := NewLoop(1)
	require.NoError(t, err)

	var gotTime Time
	var gotBatch []RankEvent
	loop.Bind(func(tm Time, batch []RankEvent) {
		gotTime = tm
		gotBatch = batch
	})

	loop.Feed(41, []RankEvent{{Node: 3, Delta: -5}})
	assert.Equal(t, Time(42), gotTime)
	assert.Equal(t, []RankEvent{{Node: 3, Delta: -5}}, gotBatch)
}

func TestLoopDropsEmptyAndUnbound(t *testing.T) {
	loop, err := NewLoop(2)
	require.NoError(t, err)

	// Unbound: nothing to do, must not panic
	loop.Feed(1, []RankEvent{{Node: 0, Delta: 1}})

	calls := 0
	loop.Bind(func(Time, []RankEvent) { calls++ })
	loop.Feed(1, nil)
	assert.Equal(t, 0, calls)
}
