package hotstore

import "context"

// InvalidateAsset drops every hot projection keyed by a drone so the
// next read falls through to the authoritative tier.
func (c *Client) InvalidateAsset(ctx context.Context, droneID string) error {
	return c.Delete(ctx,
		DroneStateKey(droneID),
		LatestTelemetryKey(droneID),
		EngagementStatsKey(droneID),
		WaypointProgressKey(droneID),
	)
}

// InvalidateConvoy drops every hot projection keyed by a convoy.
func (c *Client) InvalidateConvoy(ctx context.Context, convoyID string) error {
	return c.Delete(ctx,
		LeaderboardKey(convoyID),
		RosterKey(convoyID),
		ConvoySummaryKey(convoyID),
		MeshTopologyKey(convoyID),
	)
}
