package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionBlocksUntilBothFrontiersPass(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(5, []EdgeEvent{{Source: 0, Dest: 1, Delta: 1}}))

	// Nothing admissible while the frontiers still hold time 5
	_, _, _, ok := adm.Next()
	assert.False(t, ok)

	// One channel clearing is not enough: the rank channel could still
	// deliver an event that logically precedes the edge mutation
	adm.SetFrontier(EdgeChannel, Frontier{6})
	_, _, _, ok = adm.Next()
	assert.False(t, ok)

	adm.SetFrontier(RankChannel, Frontier{6})
	tm, edges, ranks, ok := adm.Next()
	require.True(t, ok)
	assert.Equal(t, Time(5), tm)
	assert.Len(t, edges, 1)
	assert.Empty(t, ranks)
}

func TestAdmissionReleasesInTimeOrder(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(7, []EdgeEvent{{Source: 7, Dest: 0, Delta: 1}}))
	require.NoError(t, adm.StashEdges(5, []EdgeEvent{{Source: 5, Dest: 0, Delta: 1}}))
	require.NoError(t, adm.StashRanks(6, []RankEvent{{Node: 6, Delta: 1}}))

	adm.SetFrontier(EdgeChannel, Frontier{10})
	adm.SetFrontier(RankChannel, Frontier{10})

	var order []Time
	for {
		tm, _, _, ok := adm.Next()
		if !ok {
			break
		}
		order = append(order, tm)
	}
	assert.Equal(t, []Time{5, 6, 7}, order)
	assert.True(t, adm.Quiet())
}

func TestAdmissionBundlesBothChannelsAtOneTime(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(3, []EdgeEvent{{Source: 1, Dest: 2, Delta: 1}}))
	require.NoError(t, adm.StashRanks(3, []RankEvent{{Node: 1, Delta: 50}}))
	require.NoError(t, adm.StashRanks(3, []RankEvent{{Node: 2, Delta: -3}}))

	adm.SetFrontier(EdgeChannel, Frontier{4})
	adm.SetFrontier(RankChannel, Frontier{4})

	tm, edges, ranks, ok := adm.Next()
	require.True(t, ok)
	assert.Equal(t, Time(3), tm)
	assert.Len(t, edges, 1)
	assert.Len(t, ranks, 2)
}

func TestAdmissionRejectsReleasedTimes(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(2, []EdgeEvent{{Source: 0, Dest: 1, Delta: 1}}))
	adm.SetFrontier(EdgeChannel, Frontier{3})
	adm.SetFrontier(RankChannel, Frontier{3})

	_, _, _, ok := adm.Next()
	require.True(t, ok)

	// A released time can never receive further input
	assert.ErrorIs(t, adm.StashEdges(2, []EdgeEvent{{Source: 0, Dest: 1, Delta: 1}}), ErrStaleTime)
	assert.ErrorIs(t, adm.StashRanks(1, []RankEvent{{Node: 0, Delta: 1}}), ErrStaleTime)

	// Later times are still accepted
	assert.NoError(t, adm.StashRanks(3, []RankEvent{{Node: 0, Delta: 1}}))
}

func TestAdmissionMultiElementFrontier(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashRanks(5, []RankEvent{{Node: 0, Delta: 1}}))

	// An outstanding time anywhere at or below 5 blocks the release
	adm.SetFrontier(EdgeChannel, Frontier{9, 4})
	adm.SetFrontier(RankChannel, Frontier{6})
	_, _, _, ok := adm.Next()
	assert.False(t, ok)

	adm.SetFrontier(EdgeChannel, Frontier{9})
	_, _, _, ok = adm.Next()
	assert.True(t, ok)
}

func TestAdmissionEmptyFrontierMeansClosed(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(1, []EdgeEvent{{Source: 0, Dest: 1, Delta: 1}}))

	// Both channels closed: everything buffered becomes admissible
	adm.SetFrontier(EdgeChannel, nil)
	adm.SetFrontier(RankChannel, nil)
	_, _, _, ok := adm.Next()
	assert.True(t, ok)
}

func TestAdmissionIgnoresEmptyBatches(t *testing.T) {
	adm := NewAdmission()
	require.NoError(t, adm.StashEdges(4, nil))
	require.NoError(t, adm.StashRanks(4, nil))
	assert.Equal(t, 0, adm.Pending())
}
