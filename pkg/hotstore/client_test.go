package hotstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), Options{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), Options{URL: "://not-a-url"})
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	type summary struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := SetJSON(ctx, c, "convoy:summary:abc", summary{Name: "REAPER FLIGHT", Count: 4}, time.Minute)
	require.NoError(t, err)

	got, err := GetJSON[summary](ctx, c, "convoy:summary:abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "REAPER FLIGHT", got.Name)
	assert.Equal(t, 4, got.Count)
}

func TestGetJSONMissingKeyReturnsNil(t *testing.T) {
	c, _ := newTestClient(t)

	got, err := GetJSON[map[string]string](context.Background(), c, "telemetry:latest:missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetJSONExpiredKeyReturnsNil(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, c, "telemetry:latest:d1", map[string]int{"gps": 11}, 10*time.Second))
	mr.FastForward(11 * time.Second)

	got, err := GetJSON[map[string]int](ctx, c, "telemetry:latest:d1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteAndExists(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, c, "drone:state:d1", "AIRBORNE", time.Minute))

	ok, err := c.Exists(ctx, "drone:state:d1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "drone:state:d1", "drone:state:never-set"))

	ok, err = c.Exists(ctx, "drone:state:d1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDroneStateRoundTrip(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	state := DroneState{
		Status:    "AIRBORNE",
		FuelPct:   87.5,
		Latitude:  31.6289,
		Longitude: 65.7372,
		UpdatedAt: "2026-03-07T14:02:05Z",
	}
	require.NoError(t, c.SetDroneState(ctx, "d1", state))

	got, err := c.GetDroneState(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state, *got)

	ttl := mr.TTL(DroneStateKey("d1"))
	assert.Equal(t, time.Minute, ttl)
}

func TestGetDroneStateMissingReturnsNil(t *testing.T) {
	c, _ := newTestClient(t)

	got, err := c.GetDroneState(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRosterMembership(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.AddToRoster(ctx, "cv1", "d3", "d1", "d2"))
	require.NoError(t, c.AddToRoster(ctx, "cv1", "d1"))

	members, err := c.GetRoster(ctx, "cv1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3"}, members)

	require.NoError(t, c.RemoveFromRoster(ctx, "cv1", "d2"))
	members, err = c.GetRoster(ctx, "cv1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d3"}, members)
}

func TestInvalidateAssetDropsAllProjections(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetDroneState(ctx, "d1", DroneState{Status: "LOITER"}))
	require.NoError(t, SetJSON(ctx, c, LatestTelemetryKey("d1"), map[string]int{"gps": 9}, time.Minute))
	_, _, err := c.IncrementEngagements(ctx, "d1", true)
	require.NoError(t, err)

	require.NoError(t, c.InvalidateAsset(ctx, "d1"))

	assert.False(t, mr.Exists(DroneStateKey("d1")))
	assert.False(t, mr.Exists(LatestTelemetryKey("d1")))
	assert.False(t, mr.Exists(EngagementStatsKey("d1")))
}

func TestInvalidateConvoyDropsAllProjections(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateRankScore(ctx, "cv1", "d1", 75.0))
	require.NoError(t, c.AddToRoster(ctx, "cv1", "d1"))
	require.NoError(t, SetJSON(ctx, c, ConvoySummaryKey("cv1"), "summary", time.Minute))

	require.NoError(t, c.InvalidateConvoy(ctx, "cv1"))

	assert.False(t, mr.Exists(LeaderboardKey("cv1")))
	assert.False(t, mr.Exists(RosterKey("cv1")))
	assert.False(t, mr.Exists(ConvoySummaryKey("cv1")))
}
