// Package api is the HTTP and websocket facade: an operation envelope
// over POST, a persistent subscription transport, and the resolvers
// that bind both to the repositories and the broker.
package api

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/analytics"
	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/repository"
)

// Resolver binds every operation to the repositories and the broker.
type Resolver struct {
	convoys     *repository.ConvoyRepository
	assets      *repository.DroneRepository
	waypoints   *repository.WaypointRepository
	telemetry   *repository.TelemetryRepository
	engagements *repository.EngagementRepository
	ranking     *repository.RankingRepository

	broker    *events.Broker
	analytics *analytics.Buffer
	version   string

	validate *validator.Validate
	log      *zap.Logger
}

// ResolverConfig wires a Resolver. Analytics is optional; a nil buffer
// disables live ingestion.
type ResolverConfig struct {
	Convoys     *repository.ConvoyRepository
	Assets      *repository.DroneRepository
	Waypoints   *repository.WaypointRepository
	Telemetry   *repository.TelemetryRepository
	Engagements *repository.EngagementRepository
	Ranking     *repository.RankingRepository
	Broker      *events.Broker
	Analytics   *analytics.Buffer
	Version     string
	Logger      *zap.Logger
}

// NewResolver builds the resolver from its dependencies.
func NewResolver(cfg ResolverConfig) *Resolver {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		convoys:     cfg.Convoys,
		assets:      cfg.Assets,
		waypoints:   cfg.Waypoints,
		telemetry:   cfg.Telemetry,
		engagements: cfg.Engagements,
		ranking:     cfg.Ranking,
		broker:      cfg.Broker,
		analytics:   cfg.Analytics,
		version:     cfg.Version,
		validate:    validator.New(),
		log:         log.Named("api"),
	}
}

// execute dispatches one parsed operation by its root field name.
func (r *Resolver) execute(ctx context.Context, op string, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	switch op {
	// Queries.
	case "health":
		return "OK", nil
	case "version":
		return r.version, nil
	case "ranking":
		return r.queryRanking(ctx, vars)
	case "assetRank":
		return r.queryAssetRank(ctx, vars)
	case "activeConvoys":
		return r.queryActiveConvoys(ctx)
	case "convoy":
		return r.queryConvoy(ctx, vars)
	case "convoyStats":
		return r.queryConvoyStats(ctx, vars)
	case "asset":
		return r.queryAsset(ctx, vars)
	case "assets":
		return r.queryAssets(ctx, vars)
	case "waypoints":
		return r.queryWaypoints(ctx, vars)
	case "engagements":
		return r.queryEngagements(ctx, vars)
	case "assetEngagements":
		return r.queryAssetEngagements(ctx, vars)
	case "latestTelemetry":
		return r.queryLatestTelemetry(ctx, vars)
	case "telemetryHistory":
		return r.queryTelemetryHistory(ctx, vars)

	// Mutations.
	case "recordEngagement":
		return r.mutateRecordEngagement(ctx, vars)
	case "createEngagement":
		return r.mutateCreateEngagement(ctx, vars)
	case "updateBda":
		return r.mutateUpdateBda(ctx, vars)
	case "rebuildRanking":
		return r.mutateRebuildRanking(ctx, vars)
	case "updateAssetState":
		return r.mutateUpdateAssetState(ctx, vars)
	case "recordTelemetry":
		return r.mutateRecordTelemetry(ctx, vars)
	case "createConvoy":
		return r.mutateCreateConvoy(ctx, vars)
	case "updateConvoyStatus":
		return r.mutateUpdateConvoyStatus(ctx, vars)
	case "createAsset":
		return r.mutateCreateAsset(ctx, vars)
	case "createWaypoints":
		return r.mutateCreateWaypoints(ctx, vars)
	}
	return nil, apperrors.InvalidInput("unknown operation " + op)
}

// decodeArgs decodes the variables map into an argument struct. When an
// "input" variable is present it is decoded alone, matching the single
// input-object convention of the mutations.
func (r *Resolver) decodeArgs(vars map[string]json.RawMessage, out interface{}) *apperrors.Error {
	var raw []byte
	if input, ok := vars["input"]; ok {
		raw = input
	} else {
		merged, err := json.Marshal(vars)
		if err != nil {
			return apperrors.InvalidInput("malformed variables: " + err.Error())
		}
		raw = merged
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.InvalidInput("malformed variables: " + err.Error())
	}
	if err := r.validate.Struct(out); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

// parseID parses a UUID argument into the taxonomy on failure.
func parseID(value string) (uuid.UUID, *apperrors.Error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.InvalidID(value, err)
	}
	return id, nil
}
