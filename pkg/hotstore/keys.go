package hotstore

// Key namespaces. Every hot-tier key is built here so invalidation and
// the adapters agree on the layout.
const (
	nsLeaderboard      = "convoy:leaderboard:"
	nsConvoyRoster     = "convoy:roster:"
	nsConvoySummary    = "convoy:summary:"
	nsMeshTopology     = "mesh:topology:"
	nsDroneState       = "drone:state:"
	nsEngagementStats  = "stats:engagements:"
	nsLatestTelemetry  = "telemetry:latest:"
	nsWaypointProgress = "waypoints:progress:"
)

// LeaderboardKey is the per-convoy ranking sorted set.
func LeaderboardKey(convoyID string) string {
	return nsLeaderboard + convoyID
}

// RosterKey is the per-convoy asset ID set.
func RosterKey(convoyID string) string {
	return nsConvoyRoster + convoyID
}

// ConvoySummaryKey caches the convoy JSON projection.
func ConvoySummaryKey(convoyID string) string {
	return nsConvoySummary + convoyID
}

// MeshTopologyKey caches the convoy mesh-neighbor projection.
func MeshTopologyKey(convoyID string) string {
	return nsMeshTopology + convoyID
}

// DroneStateKey is the per-asset state hash.
func DroneStateKey(droneID string) string {
	return nsDroneState + droneID
}

// EngagementStatsKey is the per-asset counter hash with fields
// total_engagements and successful_hits.
func EngagementStatsKey(droneID string) string {
	return nsEngagementStats + droneID
}

// LatestTelemetryKey caches the newest telemetry JSON for an asset.
func LatestTelemetryKey(droneID string) string {
	return nsLatestTelemetry + droneID
}

// WaypointProgressKey caches route progress for an asset.
func WaypointProgressKey(droneID string) string {
	return nsWaypointProgress + droneID
}
