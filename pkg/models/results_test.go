package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

func entry(callsign string, total, hits, rank int) domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		ConvoyID:         uuid.New(),
		DroneID:          uuid.New(),
		Callsign:         callsign,
		PlatformType:     domain.PlatformMQ9Reaper,
		TotalEngagements: total,
		SuccessfulHits:   hits,
		AccuracyPct:      domain.AccuracyPct(total, hits),
		Rank:             rank,
		UpdatedAt:        time.Now().UTC(),
	}
}

func TestNewRankingPageAggregates(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("ALPHA-01", 10, 9, 1),
		entry("BRAVO-02", 10, 5, 2),
	}

	page := NewRankingPage(entries, time.Now())

	assert.Equal(t, 2, page.TotalDrones)
	assert.Equal(t, 20, page.TotalEngagements)
	assert.Equal(t, 14, page.TotalHits)
	assert.Equal(t, 70.0, page.AverageAccuracy)
	require.NotNil(t, page.Leader)
	assert.Equal(t, "ALPHA-01", page.Leader.Callsign)
	assert.Equal(t, 1, page.Entries[0].Misses)
	assert.Equal(t, 0.9, page.Entries[0].HitRate)
}

func TestNewRankingPageEmpty(t *testing.T) {
	page := NewRankingPage(nil, time.Now())

	assert.Equal(t, 0, page.TotalDrones)
	assert.Equal(t, 0.0, page.AverageAccuracy)
	assert.Nil(t, page.Leader)
	assert.NotNil(t, page.Entries)
}

func TestNewPageSlicing(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := NewPage(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page.Items)
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)

	page = NewPage(items, 10, 0)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)

	page = NewPage(items, 2, 10)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
}

func TestNewAssetViewDerivedFields(t *testing.T) {
	d := domain.Drone{
		Status:           domain.DroneIngress,
		FuelRemainingPct: 12.5,
	}

	view := NewAssetView(d, 10)
	assert.True(t, view.FuelCritical)
	assert.True(t, view.IsAirborne)
	require.NotNil(t, view.MissionProgressPct)
	assert.Equal(t, 40.0, *view.MissionProgressPct)

	view = NewAssetView(d, -1)
	assert.Nil(t, view.MissionProgressPct)
}
