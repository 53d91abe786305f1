package api

// OperationInfo describes one operation in the introspection catalog.
type OperationInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Args    []string `json:"args,omitempty"`
	Returns string   `json:"returns"`
}

// operationCatalog is the introspection answer: every operation the
// facade dispatches, grouped by kind.
func operationCatalog() []OperationInfo {
	return []OperationInfo{
		{Name: "ranking", Kind: "query", Args: []string{"convoy_id", "limit", "filter"}, Returns: "RankingPage"},
		{Name: "assetRank", Kind: "query", Args: []string{"convoy_id", "asset_id"}, Returns: "RankingEntry"},
		{Name: "activeConvoys", Kind: "query", Returns: "[Convoy]"},
		{Name: "convoy", Kind: "query", Args: []string{"convoy_id"}, Returns: "Convoy"},
		{Name: "convoyStats", Kind: "query", Args: []string{"convoy_id"}, Returns: "ConvoyStats"},
		{Name: "asset", Kind: "query", Args: []string{"convoy_id", "asset_id"}, Returns: "Asset"},
		{Name: "assets", Kind: "query", Args: []string{"convoy_id", "filter", "pagination"}, Returns: "AssetPage"},
		{Name: "waypoints", Kind: "query", Args: []string{"asset_id"}, Returns: "[Waypoint]"},
		{Name: "engagements", Kind: "query", Args: []string{"convoy_id", "filter", "pagination"}, Returns: "EngagementPage"},
		{Name: "assetEngagements", Kind: "query", Args: []string{"asset_id", "filter", "pagination"}, Returns: "EngagementPage"},
		{Name: "latestTelemetry", Kind: "query", Args: []string{"asset_id"}, Returns: "Telemetry"},
		{Name: "telemetryHistory", Kind: "query", Args: []string{"asset_id", "time_range", "pagination"}, Returns: "TelemetryPage"},
		{Name: "health", Kind: "query", Returns: "String"},
		{Name: "version", Kind: "query", Returns: "String"},

		{Name: "recordEngagement", Kind: "mutation", Args: []string{"input"}, Returns: "RecordEngagementResult"},
		{Name: "createEngagement", Kind: "mutation", Args: []string{"input"}, Returns: "Engagement"},
		{Name: "updateBda", Kind: "mutation", Args: []string{"input"}, Returns: "Engagement"},
		{Name: "rebuildRanking", Kind: "mutation", Args: []string{"convoy_id"}, Returns: "RebuildResult"},
		{Name: "updateAssetState", Kind: "mutation", Args: []string{"input"}, Returns: "Asset"},
		{Name: "recordTelemetry", Kind: "mutation", Args: []string{"input"}, Returns: "Telemetry"},
		{Name: "createConvoy", Kind: "mutation", Args: []string{"input"}, Returns: "Convoy"},
		{Name: "updateConvoyStatus", Kind: "mutation", Args: []string{"input"}, Returns: "Convoy"},
		{Name: "createAsset", Kind: "mutation", Args: []string{"input"}, Returns: "Asset"},
		{Name: "createWaypoints", Kind: "mutation", Args: []string{"input"}, Returns: "[Waypoint]"},

		{Name: "engagementEvents", Kind: "subscription", Args: []string{"convoy_id"}, Returns: "EngagementEvent"},
		{Name: "allEngagementEvents", Kind: "subscription", Returns: "EngagementEvent"},
		{Name: "rankingUpdates", Kind: "subscription", Args: []string{"convoy_id"}, Returns: "RankingUpdateEvent"},
		{Name: "assetStatusChanges", Kind: "subscription", Args: []string{"convoy_id"}, Returns: "AssetStatusEvent"},
		{Name: "alerts", Kind: "subscription", Args: []string{"convoy_id", "min_severity"}, Returns: "AlertEvent"},
		{Name: "assetTelemetry", Kind: "subscription", Args: []string{"asset_id"}, Returns: "Telemetry"},
		{Name: "heartbeat", Kind: "subscription", Returns: "String"},
	}
}
