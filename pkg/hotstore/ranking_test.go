package hotstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingOrderAndLimit(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d-low", 33.33))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d-high", 91.67))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d-mid", 66.67))

	members, err := c.GetRanking(ctx, "cv1", 10)
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, "d-high", members[0].DroneID)
	assert.Equal(t, 1, members[0].Rank)
	assert.Equal(t, "d-mid", members[1].DroneID)
	assert.Equal(t, 2, members[1].Rank)
	assert.Equal(t, "d-low", members[2].DroneID)
	assert.Equal(t, 3, members[2].Rank)

	top, err := c.GetRanking(ctx, "cv1", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "d-high", top[0].DroneID)
	assert.Equal(t, "d-mid", top[1].DroneID)
}

func TestGetRankingMissingKeyIsEmpty(t *testing.T) {
	c, _ := newTestClient(t)

	members, err := c.GetRanking(context.Background(), "no-such-convoy", 10)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRankOf(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d1", 90))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d2", 50))

	rank, err := c.RankOf(ctx, "cv1", "d2")
	require.NoError(t, err)
	require.NotNil(t, rank)
	assert.Equal(t, 2, *rank)

	rank, err = c.RankOf(ctx, "cv1", "unknown")
	require.NoError(t, err)
	assert.Nil(t, rank)
}

func TestUpdateRankScoreReplacesExisting(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d1", 40))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d2", 60))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d1", 80))

	members, err := c.GetRanking(ctx, "cv1", 10)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "d1", members[0].DroneID)
	assert.InDelta(t, 80, members[0].Score, 0.001)
}

func TestRemoveRankAndSize(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d1", 10))
	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d2", 20))

	n, err := c.RankingSize(ctx, "cv1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.RemoveRank(ctx, "cv1", "d1"))

	n, err = c.RankingSize(ctx, "cv1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIncrementEngagements(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	total, hits, err := c.IncrementEngagements(ctx, "d1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), hits)

	total, hits, err = c.IncrementEngagements(ctx, "d1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(2), hits)

	total, hits, err = c.IncrementEngagements(ctx, "d1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), hits)
}

func TestIncrementEngagementsFirstMiss(t *testing.T) {
	c, _ := newTestClient(t)

	total, hits, err := c.IncrementEngagements(context.Background(), "d-new", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), hits)
}

func TestEngagementCountersSeedAndRead(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, _, found, err := c.GetEngagementCounters(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetEngagementCounters(ctx, "d1", 12, 9))

	total, hits, found, err := c.GetEngagementCounters(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, int64(9), hits)
}
