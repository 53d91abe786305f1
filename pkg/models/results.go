package models

import (
	"time"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// RankingEntry is the wire view of a leaderboard row with the derived
// fields the read model adds on top of the stored counters.
type RankingEntry struct {
	ConvoyID         string  `json:"convoy_id"`
	DroneID          string  `json:"drone_id"`
	Callsign         string  `json:"callsign"`
	PlatformType     string  `json:"platform_type"`
	AccuracyPct      float64 `json:"accuracy_pct"`
	TotalEngagements int     `json:"total_engagements"`
	SuccessfulHits   int     `json:"successful_hits"`
	Misses           int     `json:"misses"`
	HitRate          float64 `json:"hit_rate"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	Rank             int     `json:"rank"`
	UpdatedAt        string  `json:"updated_at"`
}

// NewRankingEntry converts a domain row to its wire view.
func NewRankingEntry(e domain.LeaderboardEntry) RankingEntry {
	return RankingEntry{
		ConvoyID:         e.ConvoyID.String(),
		DroneID:          e.DroneID.String(),
		Callsign:         e.Callsign,
		PlatformType:     string(e.PlatformType),
		AccuracyPct:      e.AccuracyPct,
		TotalEngagements: e.TotalEngagements,
		SuccessfulHits:   e.SuccessfulHits,
		Misses:           e.Misses(),
		HitRate:          e.HitRate(),
		CurrentStreak:    e.CurrentStreak,
		BestStreak:       e.BestStreak,
		Rank:             e.Rank,
		UpdatedAt:        e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// RankingPage is a convoy ranking with its aggregates.
type RankingPage struct {
	Entries          []RankingEntry `json:"entries"`
	TotalDrones      int            `json:"total_drones"`
	AverageAccuracy  float64        `json:"average_accuracy"`
	Leader           *RankingEntry  `json:"leader,omitempty"`
	TotalEngagements int            `json:"total_engagements"`
	TotalHits        int            `json:"total_hits"`
	GeneratedAt      string         `json:"generated_at"`
}

// NewRankingPage builds the page, computing the aggregates over the
// returned entries.
func NewRankingPage(entries []domain.LeaderboardEntry, now time.Time) RankingPage {
	page := RankingPage{
		Entries:     make([]RankingEntry, 0, len(entries)),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	var accuracySum float64
	for _, e := range entries {
		view := NewRankingEntry(e)
		page.Entries = append(page.Entries, view)
		page.TotalEngagements += e.TotalEngagements
		page.TotalHits += e.SuccessfulHits
		accuracySum += e.AccuracyPct
	}
	page.TotalDrones = len(page.Entries)
	if page.TotalDrones > 0 {
		page.AverageAccuracy = domain.Round2(accuracySum / float64(page.TotalDrones))
		leader := page.Entries[0]
		page.Leader = &leader
	}
	return page
}

// RecordEngagementResult is the fast-path mutation response. RankChange
// is always zero; callers wanting the true delta compare assetRank
// before and after.
type RecordEngagementResult struct {
	Success        bool          `json:"success"`
	Entry          *RankingEntry `json:"entry,omitempty"`
	NewRank        *int          `json:"new_rank,omitempty"`
	RankChange     int           `json:"rank_change"`
	NewAccuracyPct float64       `json:"new_accuracy_pct"`
}

// RebuildResult reports a ranking reconciliation pass.
type RebuildResult struct {
	Success          bool  `json:"success"`
	EntriesProcessed int   `json:"entries_processed"`
	DurationMS       int64 `json:"duration_ms"`
}

// ConvoyStats aggregates a convoy's mission and accuracy state.
type ConvoyStats struct {
	ConvoyID           string        `json:"convoy_id"`
	ConvoyCallsign     string        `json:"convoy_callsign"`
	Status             string        `json:"status"`
	TotalDrones        int           `json:"total_drones"`
	TotalEngagements   int           `json:"total_engagements"`
	TotalHits          int           `json:"total_hits"`
	AverageAccuracy    float64       `json:"average_accuracy"`
	TopPerformer       *RankingEntry `json:"top_performer,omitempty"`
	MissionDurationMin *int64        `json:"mission_duration_min,omitempty"`
}

// ConvoyView is the wire view of a convoy with derived lifecycle fields.
type ConvoyView struct {
	domain.Convoy
	IsActive           bool   `json:"is_active"`
	MissionDurationMin *int64 `json:"mission_duration_min,omitempty"`
}

// NewConvoyView derives the read-model fields at a given instant.
func NewConvoyView(c domain.Convoy, now time.Time) ConvoyView {
	return ConvoyView{
		Convoy:             c,
		IsActive:           c.IsActive(),
		MissionDurationMin: c.MissionDurationMin(now),
	}
}

// AssetView is the wire view of a drone with derived state fields.
// MissionProgressPct is present only when a telemetry sample exists.
type AssetView struct {
	domain.Drone
	FuelCritical       bool     `json:"fuel_critical"`
	IsAirborne         bool     `json:"is_airborne"`
	MissionProgressPct *float64 `json:"mission_progress_pct,omitempty"`
}

// NewAssetView derives the read-model fields. currentWaypoint < 0 means
// no telemetry has been seen for the asset.
func NewAssetView(d domain.Drone, currentWaypoint int) AssetView {
	view := AssetView{
		Drone:        d,
		FuelCritical: d.FuelCritical(),
		IsAirborne:   d.Status.IsAirborne(),
	}
	if currentWaypoint >= 0 {
		pct := domain.Round2(100 * float64(currentWaypoint) / float64(domain.MissionWaypointCount))
		view.MissionProgressPct = &pct
	}
	return view
}

// WaypointView is the wire view of a route point.
type WaypointView struct {
	domain.Waypoint
	IsComplete      bool   `json:"is_complete"`
	ArrivalDelayMin *int64 `json:"arrival_delay_min,omitempty"`
}

// NewWaypointView derives the read-model fields.
func NewWaypointView(w domain.Waypoint) WaypointView {
	return WaypointView{
		Waypoint:        w,
		IsComplete:      w.IsComplete(),
		ArrivalDelayMin: w.ArrivalDelayMin(),
	}
}

// EngagementView is the wire view of an engagement record.
type EngagementView struct {
	domain.Engagement
	BDAPending bool `json:"bda_pending"`
}

// NewEngagementView derives the read-model fields.
func NewEngagementView(e domain.Engagement) EngagementView {
	return EngagementView{Engagement: e, BDAPending: e.BDAPending()}
}

// Page is a offset-paginated list result.
type Page[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"total_count"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPage slices a fully materialized result set by offset and limit.
// TotalCount reflects the filtered set, not the page.
func NewPage[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return Page[T]{
		Items:           items[offset:end],
		TotalCount:      total,
		HasNextPage:     end < total,
		HasPreviousPage: offset > 0,
	}
}
