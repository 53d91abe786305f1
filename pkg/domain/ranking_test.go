package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySequence(t *testing.T, outcomes []bool) LeaderboardEntry {
	t.Helper()
	entry := LeaderboardEntry{
		ConvoyID: uuid.New(),
		DroneID:  uuid.New(),
		Callsign: "ALPHA-01",
	}
	for _, hit := range outcomes {
		entry.ApplyOutcome(hit, time.Now().UTC())
	}
	return entry
}

func TestApplyOutcomeCounters(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool
		total    int
		hits     int
	}{
		{"all hits", []bool{true, true, true}, 3, 3},
		{"all misses", []bool{false, false}, 2, 0},
		{"mixed", []bool{true, false, true, true, false}, 5, 3},
		{"empty", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := applySequence(t, tt.outcomes)
			assert.Equal(t, tt.total, entry.TotalEngagements)
			assert.Equal(t, tt.hits, entry.SuccessfulHits)
		})
	}
}

func TestApplyOutcomeTwoHitsOneMiss(t *testing.T) {
	entry := applySequence(t, []bool{true, true, false})

	assert.Equal(t, 3, entry.TotalEngagements)
	assert.Equal(t, 2, entry.SuccessfulHits)
	assert.InDelta(t, 66.67, entry.AccuracyPct, 0.001)
	assert.Equal(t, 0, entry.CurrentStreak)
	assert.Equal(t, 2, entry.BestStreak)
}

func TestApplyOutcomeStreaks(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool
		current  int
		best     int
	}{
		{"single hit", []bool{true}, 1, 1},
		{"single miss", []bool{false}, 0, 0},
		{"streak then miss", []bool{true, true, true, false}, 0, 3},
		{"rebuild after miss", []bool{true, false, true, true}, 2, 2},
		{"best survives later runs", []bool{true, true, true, false, true}, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := applySequence(t, tt.outcomes)
			assert.Equal(t, tt.current, entry.CurrentStreak)
			assert.Equal(t, tt.best, entry.BestStreak)
		})
	}
}

func TestBestStreakMonotone(t *testing.T) {
	entry := LeaderboardEntry{DroneID: uuid.New()}
	outcomes := []bool{true, true, false, true, false, false, true, true, true, false}

	prevBest := 0
	for _, hit := range outcomes {
		entry.ApplyOutcome(hit, time.Now().UTC())
		require.GreaterOrEqual(t, entry.BestStreak, prevBest)
		require.GreaterOrEqual(t, entry.CurrentStreak, 0)
		prevBest = entry.BestStreak
	}
}

func TestAccuracyPct(t *testing.T) {
	assert.Equal(t, 0.0, AccuracyPct(0, 0))
	assert.Equal(t, 100.0, AccuracyPct(4, 4))
	assert.Equal(t, 50.0, AccuracyPct(2, 1))
	assert.Equal(t, 66.67, AccuracyPct(3, 2))
	assert.Equal(t, 33.33, AccuracyPct(3, 1))
}

func TestSortRankingOrdering(t *testing.T) {
	convoyID := uuid.New()
	entries := []LeaderboardEntry{
		{ConvoyID: convoyID, DroneID: uuid.New(), Callsign: "C", AccuracyPct: 50.0, TotalEngagements: 2},
		{ConvoyID: convoyID, DroneID: uuid.New(), Callsign: "A", AccuracyPct: 90.0, TotalEngagements: 10},
		{ConvoyID: convoyID, DroneID: uuid.New(), Callsign: "B", AccuracyPct: 90.0, TotalEngagements: 20},
	}

	SortRanking(entries)

	require.Len(t, entries, 3)
	assert.Equal(t, "B", entries[0].Callsign) // same accuracy, more engagements
	assert.Equal(t, "A", entries[1].Callsign)
	assert.Equal(t, "C", entries[2].Callsign)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestSortRankingTieBreakByDroneID(t *testing.T) {
	convoyID := uuid.New()
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	entries := []LeaderboardEntry{
		{ConvoyID: convoyID, DroneID: idB, Callsign: "BRAVO", AccuracyPct: 100.0, TotalEngagements: 1, SuccessfulHits: 1},
		{ConvoyID: convoyID, DroneID: idA, Callsign: "ALPHA", AccuracyPct: 100.0, TotalEngagements: 1, SuccessfulHits: 1},
	}

	SortRanking(entries)

	assert.Equal(t, idA, entries[0].DroneID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, idB, entries[1].DroneID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestSortRankingRanksArePermutation(t *testing.T) {
	entries := make([]LeaderboardEntry, 25)
	for i := range entries {
		entries[i] = LeaderboardEntry{
			DroneID:          uuid.New(),
			AccuracyPct:      float64((i * 37) % 101),
			TotalEngagements: i,
		}
	}

	SortRanking(entries)

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		require.False(t, seen[e.Rank], "duplicate rank %d", e.Rank)
		require.GreaterOrEqual(t, e.Rank, 1)
		require.LessOrEqual(t, e.Rank, len(entries))
		seen[e.Rank] = true
	}
}

func TestAccuracyStats(t *testing.T) {
	stats := AccuracyStats{TotalEngagements: 8, SuccessfulHits: 6}
	assert.Equal(t, 75.0, stats.AccuracyPct())

	empty := AccuracyStats{}
	assert.Equal(t, 0.0, empty.AccuracyPct())
}
