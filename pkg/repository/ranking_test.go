package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// fakeRankingCold keeps the ranking rows and counters in memory,
// serving pages the way the cold store does (capped at 100 rows).
type fakeRankingCold struct {
	entries  map[uuid.UUID]domain.LeaderboardEntry
	counters map[uuid.UUID]*coldstore.CounterRow
}

func newFakeRankingCold() *fakeRankingCold {
	return &fakeRankingCold{
		entries:  make(map[uuid.UUID]domain.LeaderboardEntry),
		counters: make(map[uuid.UUID]*coldstore.CounterRow),
	}
}

func (f *fakeRankingCold) ListLeaderboard(_ context.Context, _ uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	page := make([]domain.LeaderboardEntry, 0, len(f.entries))
	for _, e := range f.entries {
		page = append(page, e)
	}
	domain.SortRanking(page)
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

func (f *fakeRankingCold) UpsertLeaderboardEntry(_ context.Context, entry *domain.LeaderboardEntry, _ *float64) error {
	f.entries[entry.DroneID] = *entry
	return nil
}

func (f *fakeRankingCold) IncrementAccuracyCounters(_ context.Context, _, droneID uuid.UUID, hit bool) error {
	row, ok := f.counters[droneID]
	if !ok {
		row = &coldstore.CounterRow{DroneID: droneID}
		f.counters[droneID] = row
	}
	row.TotalEngagements++
	if hit {
		row.SuccessfulHits++
	}
	return nil
}

func (f *fakeRankingCold) GetAccuracyCounters(_ context.Context, _, droneID uuid.UUID) (int64, int64, error) {
	row, ok := f.counters[droneID]
	if !ok {
		return 0, 0, &coldstore.Error{Kind: coldstore.KindNotFound, Op: "get_accuracy_counters", Err: errors.New("no row")}
	}
	return row.TotalEngagements, row.SuccessfulHits, nil
}

func (f *fakeRankingCold) ListConvoyCounters(_ context.Context, _ uuid.UUID) ([]coldstore.CounterRow, error) {
	rows := make([]coldstore.CounterRow, 0, len(f.counters))
	for _, row := range f.counters {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (f *fakeRankingCold) UpdateDroneAccuracy(_ context.Context, _, _ uuid.UUID, _, _ int, _ float64, _ time.Time) error {
	return nil
}

func newRankingRepoForTest(f *fakeRankingCold) *RankingRepository {
	return &RankingRepository{cold: f, log: zap.NewNop()}
}

func TestUpdateEntryFoldsOutcomes(t *testing.T) {
	fake := newFakeRankingCold()
	repo := newRankingRepoForTest(fake)
	ctx := context.Background()
	convoyID := uuid.New()
	droneID := uuid.New()

	first, err := repo.UpdateEntry(ctx, convoyID, droneID, "REAPER-01", domain.PlatformMQ9Reaper, true)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalEngagements)
	assert.Equal(t, 1, first.SuccessfulHits)
	assert.Equal(t, 100.0, first.AccuracyPct)
	assert.Equal(t, 1, first.CurrentStreak)
	assert.Equal(t, 1, first.BestStreak)
	assert.Equal(t, 1, first.Rank)

	second, err := repo.UpdateEntry(ctx, convoyID, droneID, "", "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CurrentStreak)
	assert.Equal(t, 2, second.BestStreak)
	// Identity fields persist when later reports omit them.
	assert.Equal(t, "REAPER-01", second.Callsign)
	assert.Equal(t, domain.PlatformMQ9Reaper, second.PlatformType)

	third, err := repo.UpdateEntry(ctx, convoyID, droneID, "REAPER-01", domain.PlatformMQ9Reaper, false)
	require.NoError(t, err)
	assert.Equal(t, 3, third.TotalEngagements)
	assert.Equal(t, 2, third.SuccessfulHits)
	assert.Equal(t, 66.67, third.AccuracyPct)
	assert.Equal(t, 0, third.CurrentStreak)
	assert.Equal(t, 2, third.BestStreak)

	// The persisted row matches what the caller saw.
	stored := fake.entries[droneID]
	assert.Equal(t, third.TotalEngagements, stored.TotalEngagements)
	assert.Equal(t, third.CurrentStreak, stored.CurrentStreak)
	assert.Equal(t, third.BestStreak, stored.BestStreak)
}

func TestUpdateEntryRanksConvoy(t *testing.T) {
	fake := newFakeRankingCold()
	repo := newRankingRepoForTest(fake)
	ctx := context.Background()
	convoyID := uuid.New()
	ace := uuid.New()
	wingman := uuid.New()

	_, err := repo.UpdateEntry(ctx, convoyID, ace, "VIPER-01", domain.PlatformMQ9Reaper, true)
	require.NoError(t, err)
	_, err = repo.UpdateEntry(ctx, convoyID, wingman, "VIPER-02", domain.PlatformMQ1CGrayEagle, false)
	require.NoError(t, err)

	entry, err := repo.UpdateEntry(ctx, convoyID, wingman, "VIPER-02", domain.PlatformMQ1CGrayEagle, false)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Rank)

	rank, err := repo.RankOf(ctx, convoyID, ace)
	require.NoError(t, err)
	require.NotNil(t, rank)
	assert.Equal(t, 1, *rank)
}

func TestStatsMergesStreaks(t *testing.T) {
	fake := newFakeRankingCold()
	repo := newRankingRepoForTest(fake)
	ctx := context.Background()
	convoyID := uuid.New()
	droneID := uuid.New()

	for _, hit := range []bool{true, true, false} {
		_, err := repo.UpdateEntry(ctx, convoyID, droneID, "REAPER-01", domain.PlatformMQ9Reaper, hit)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx, convoyID, droneID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEngagements)
	assert.Equal(t, int64(2), stats.SuccessfulHits)
	assert.Equal(t, 66.67, stats.AccuracyPct())
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.BestStreak)

	// Assets that never engaged read back empty stats, not an error.
	empty, err := repo.Stats(ctx, convoyID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalEngagements)
}
