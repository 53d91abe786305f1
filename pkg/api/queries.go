package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

// maxRankingLimit caps the ranking page size.
const maxRankingLimit = 100

type rankingArgs struct {
	ConvoyID string                `json:"convoy_id" validate:"required,uuid"`
	Limit    int                   `json:"limit" validate:"min=0,max=100"`
	Filter   *models.RankingFilter `json:"filter,omitempty"`
}

func (r *Resolver) queryRanking(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	args := rankingArgs{Limit: 10}
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}
	limit := args.Limit
	if limit <= 0 || limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	entries, rerr := r.ranking.GetRanking(ctx, convoyID, limit)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	if args.Filter != nil {
		entries = filterRanking(entries, args.Filter)
	}
	return models.NewRankingPage(entries, time.Now()), nil
}

func filterRanking(entries []domain.LeaderboardEntry, f *models.RankingFilter) []domain.LeaderboardEntry {
	kept := entries[:0]
	for _, e := range entries {
		if f.MinAccuracy != nil && e.AccuracyPct < *f.MinAccuracy {
			continue
		}
		if f.MinEngagements != nil && e.TotalEngagements < *f.MinEngagements {
			continue
		}
		if f.Platform != nil && string(e.PlatformType) != *f.Platform {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

type assetRankArgs struct {
	ConvoyID string `json:"convoy_id" validate:"required,uuid"`
	AssetID  string `json:"asset_id" validate:"required,uuid"`
}

func (r *Resolver) queryAssetRank(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args assetRankArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	entries, rerr := r.ranking.GetRanking(ctx, convoyID, maxRankingLimit)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	for _, e := range entries {
		if e.DroneID == assetID {
			view := models.NewRankingEntry(e)
			return &view, nil
		}
	}
	return nil, nil
}

func (r *Resolver) queryActiveConvoys(ctx context.Context) (interface{}, *apperrors.Error) {
	convoys, err := r.convoys.GetActive(ctx)
	if err != nil {
		return nil, apperrors.From(err)
	}
	now := time.Now()
	views := make([]models.ConvoyView, 0, len(convoys))
	for _, c := range convoys {
		views = append(views, models.NewConvoyView(c, now))
	}
	return views, nil
}

type convoyArgs struct {
	ConvoyID string `json:"convoy_id" validate:"required,uuid"`
}

func (r *Resolver) queryConvoy(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args convoyArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}

	c, rerr := r.convoys.GetByID(ctx, convoyID)
	if rerr != nil {
		if coldstore.IsNotFound(rerr) {
			return nil, nil
		}
		return nil, apperrors.From(rerr)
	}
	view := models.NewConvoyView(*c, time.Now())
	return &view, nil
}

func (r *Resolver) queryConvoyStats(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args convoyArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}

	c, rerr := r.convoys.GetByID(ctx, convoyID)
	if rerr != nil {
		if coldstore.IsNotFound(rerr) {
			return nil, apperrors.NotFound("convoy", args.ConvoyID)
		}
		return nil, apperrors.From(rerr)
	}
	entries, rerr := r.ranking.GetRanking(ctx, convoyID, maxRankingLimit)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	page := models.NewRankingPage(entries, time.Now())

	stats := models.ConvoyStats{
		ConvoyID:           c.ConvoyID.String(),
		ConvoyCallsign:     c.ConvoyCallsign,
		Status:             string(c.Status),
		TotalDrones:        c.DroneCount,
		TotalEngagements:   page.TotalEngagements,
		TotalHits:          page.TotalHits,
		AverageAccuracy:    page.AverageAccuracy,
		TopPerformer:       page.Leader,
		MissionDurationMin: c.MissionDurationMin(time.Now()),
	}
	return stats, nil
}

type assetArgs struct {
	ConvoyID string `json:"convoy_id" validate:"required,uuid"`
	AssetID  string `json:"asset_id" validate:"required,uuid"`
}

func (r *Resolver) queryAsset(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args assetArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	d, rerr := r.assets.GetByID(ctx, convoyID, assetID)
	if rerr != nil {
		if coldstore.IsNotFound(rerr) {
			return nil, nil
		}
		return nil, apperrors.From(rerr)
	}
	view := models.NewAssetView(*d, r.currentWaypoint(ctx, assetID))
	return &view, nil
}

// currentWaypoint resolves mission progress from the latest telemetry
// sample; -1 means no sample exists.
func (r *Resolver) currentWaypoint(ctx context.Context, assetID uuid.UUID) int {
	t, err := r.telemetry.Latest(ctx, assetID)
	if err != nil || t == nil {
		return -1
	}
	return t.CurrentWaypoint
}

type assetsArgs struct {
	ConvoyID   string                  `json:"convoy_id" validate:"required,uuid"`
	Filter     *models.AssetFilter     `json:"filter,omitempty"`
	Pagination *models.PaginationInput `json:"pagination,omitempty"`
}

func (r *Resolver) queryAssets(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args assetsArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}

	drones, rerr := r.assets.ListByConvoy(ctx, convoyID)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	views := make([]models.AssetView, 0, len(drones))
	for _, d := range drones {
		if args.Filter != nil && !matchAsset(d, args.Filter) {
			continue
		}
		views = append(views, models.NewAssetView(d, -1))
	}
	limit, offset := pageBounds(args.Pagination)
	return models.NewPage(views, limit, offset), nil
}

func matchAsset(d domain.Drone, f *models.AssetFilter) bool {
	if f.Status != nil && string(d.Status) != *f.Status {
		return false
	}
	if f.Platform != nil && string(d.PlatformType) != *f.Platform {
		return false
	}
	if f.MinFuelPct != nil && d.FuelRemainingPct < *f.MinFuelPct {
		return false
	}
	return true
}

type waypointsArgs struct {
	AssetID string `json:"asset_id" validate:"required,uuid"`
}

func (r *Resolver) queryWaypoints(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args waypointsArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	route, rerr := r.waypoints.ListByDrone(ctx, assetID)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	views := make([]models.WaypointView, 0, len(route))
	for _, w := range route {
		views = append(views, models.NewWaypointView(w))
	}
	return views, nil
}

type engagementsArgs struct {
	ConvoyID   string                   `json:"convoy_id" validate:"required,uuid"`
	Filter     *models.EngagementFilter `json:"filter,omitempty"`
	Pagination *models.PaginationInput  `json:"pagination,omitempty"`
}

func (r *Resolver) queryEngagements(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args engagementsArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}

	records, rerr := r.engagements.ListByConvoy(ctx, convoyID, 0)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	return engagementPage(records, args.Filter, args.Pagination), nil
}

type assetEngagementsArgs struct {
	AssetID    string                   `json:"asset_id" validate:"required,uuid"`
	Filter     *models.EngagementFilter `json:"filter,omitempty"`
	Pagination *models.PaginationInput  `json:"pagination,omitempty"`
}

func (r *Resolver) queryAssetEngagements(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args assetEngagementsArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	records, rerr := r.engagements.ListByDrone(ctx, assetID, 0)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	return engagementPage(records, args.Filter, args.Pagination), nil
}

func engagementPage(records []domain.Engagement, f *models.EngagementFilter, p *models.PaginationInput) models.Page[models.EngagementView] {
	views := make([]models.EngagementView, 0, len(records))
	for _, e := range records {
		if f != nil && !matchEngagement(e, f) {
			continue
		}
		views = append(views, models.NewEngagementView(e))
	}
	limit, offset := pageBounds(p)
	return models.NewPage(views, limit, offset)
}

func matchEngagement(e domain.Engagement, f *models.EngagementFilter) bool {
	if f.Hit != nil && e.Hit != *f.Hit {
		return false
	}
	if f.Weapon != nil && string(e.WeaponType) != *f.Weapon {
		return false
	}
	if f.DamageAssessment != nil && string(e.Result.DamageAssessment) != *f.DamageAssessment {
		return false
	}
	if f.TimeRange != nil {
		if e.EngagedAt.Before(f.TimeRange.Start) || e.EngagedAt.After(f.TimeRange.End) {
			return false
		}
	}
	return true
}

type latestTelemetryArgs struct {
	AssetID string `json:"asset_id" validate:"required,uuid"`
}

func (r *Resolver) queryLatestTelemetry(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args latestTelemetryArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	t, rerr := r.telemetry.Latest(ctx, assetID)
	if rerr != nil {
		if coldstore.IsNotFound(rerr) {
			return nil, nil
		}
		return nil, apperrors.From(rerr)
	}
	return t, nil
}

type telemetryHistoryArgs struct {
	AssetID    string                  `json:"asset_id" validate:"required,uuid"`
	TimeRange  models.TimeRangeInput   `json:"time_range" validate:"required"`
	Pagination *models.PaginationInput `json:"pagination,omitempty"`
}

func (r *Resolver) queryTelemetryHistory(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args telemetryHistoryArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	assetID, err := parseID(args.AssetID)
	if err != nil {
		return nil, err
	}

	window := domain.TimeRange{Start: args.TimeRange.Start, End: args.TimeRange.End}
	samples, rerr := r.telemetry.History(ctx, assetID, window, 0)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	limit, offset := pageBounds(args.Pagination)
	return models.NewPage(samples, limit, offset), nil
}

// pageBounds applies the default page shape {limit: 20, offset: 0}.
func pageBounds(p *models.PaginationInput) (limit, offset int) {
	if p == nil {
		return 20, 0
	}
	limit = p.Limit
	if limit <= 0 {
		limit = 20
	}
	return limit, p.Offset
}
