package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/analytics"
	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/models"
	"github.com/picogrid/convoy-tracker/pkg/repository"
)

func coordsFromInput(in models.CoordinatesInput) domain.Coordinates {
	return domain.Coordinates{
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		AltitudeM:  in.AltitudeM,
		HeadingDeg: in.HeadingDeg,
		SpeedMPS:   in.SpeedMPS,
	}
}

func (r *Resolver) mutateRecordEngagement(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.RecordEngagementInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	droneID, err := parseID(in.DroneID)
	if err != nil {
		return nil, err
	}

	weapon := domain.WeaponAGM114Hellfire
	if in.WeaponType != nil {
		w, perr := domain.ParseWeaponType(*in.WeaponType)
		if perr != nil {
			return nil, apperrors.InvalidInput(perr.Error())
		}
		weapon = w
	}

	// The asset row provides callsign and platform for the ranking row;
	// its absence is not an error because the counters stand alone.
	callsign := ""
	platform := domain.PlatformType("")
	if d, derr := r.assets.GetByID(ctx, convoyID, droneID); derr == nil {
		callsign = d.Callsign
		platform = d.PlatformType
	}

	entry, rerr := r.ranking.UpdateEntry(ctx, convoyID, droneID, callsign, platform, in.Hit)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}

	r.publishOutcome(entry, in.Hit, weapon)
	r.ingest(analytics.EngagementRecord{
		EngagementID: uuid.New(),
		ConvoyID:     convoyID,
		DroneID:      droneID,
		Callsign:     entry.Callsign,
		PlatformType: string(entry.PlatformType),
		Hit:          in.Hit,
		WeaponType:   string(weapon),
		TargetType:   in.TargetType,
		RangeKM:      in.RangeKM,
		Timestamp:    time.Now().UTC(),
	})

	view := models.NewRankingEntry(*entry)
	return models.RecordEngagementResult{
		Success:        true,
		Entry:          &view,
		NewRank:        &view.Rank,
		RankChange:     0,
		NewAccuracyPct: view.AccuracyPct,
	}, nil
}

// publishOutcome emits the engagement and ranking events for one
// recorded outcome. old_rank stays unset; the change type is always a
// score update.
func (r *Resolver) publishOutcome(entry *domain.LeaderboardEntry, hit bool, weapon domain.WeaponType) {
	now := time.Now().UTC()
	r.broker.Engagements.Publish(events.EngagementEvent{
		ConvoyID:       entry.ConvoyID,
		DroneID:        entry.DroneID,
		Callsign:       entry.Callsign,
		Hit:            hit,
		WeaponType:     weapon,
		NewAccuracyPct: entry.AccuracyPct,
		Timestamp:      now,
	})
	r.broker.Rankings.Publish(events.RankingUpdateEvent{
		ConvoyID:    entry.ConvoyID,
		DroneID:     entry.DroneID,
		Callsign:    entry.Callsign,
		NewRank:     entry.Rank,
		AccuracyPct: entry.AccuracyPct,
		ChangeType:  events.ScoreUpdate,
		Timestamp:   now,
	})
}

// ingest forwards a record to the analytics buffer when live ingestion
// is enabled.
func (r *Resolver) ingest(rec analytics.EngagementRecord) {
	if r.analytics != nil {
		r.analytics.Enqueue(rec)
	}
}

func (r *Resolver) mutateCreateEngagement(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.CreateEngagementInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	droneID, err := parseID(in.DroneID)
	if err != nil {
		return nil, err
	}
	weapon, perr := domain.ParseWeaponType(in.WeaponType)
	if perr != nil {
		return nil, apperrors.InvalidInput(perr.Error())
	}

	engagementID := uuid.New()
	if in.EngagementID != nil {
		engagementID, err = parseID(*in.EngagementID)
		if err != nil {
			return nil, err
		}
	}
	targetID := uuid.New()
	if in.Target.TargetID != nil {
		targetID, err = parseID(*in.Target.TargetID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	shooter := coordsFromInput(in.ShooterPosition)
	targetPos := coordsFromInput(in.Target.Coordinates)
	rangeKM := domain.Round2(shooter.DistanceKM(targetPos))

	assessment := domain.BDAMissed
	if in.Hit {
		assessment = domain.BDAPendingBDA
	}
	threat := domain.ThreatUnknown
	if in.Target.ThreatLevel != "" {
		threat = domain.ThreatLevel(in.Target.ThreatLevel)
	}

	e := &domain.Engagement{
		ConvoyID:      convoyID,
		EngagedAt:     now,
		EngagementID:  engagementID,
		DroneID:       droneID,
		DroneCallsign: in.DroneCallsign,
		WeaponType:    weapon,
		WeaponSerial:  in.WeaponSerial,
		Target: domain.TargetInfo{
			TargetID:    targetID,
			TargetType:  domain.TargetType(in.Target.TargetType),
			Coordinates: targetPos,
			Confidence:  in.Target.Confidence,
			ThreatLevel: threat,
		},
		AuthorizationCode: in.AuthorizationCode,
		AuthorizedBy:      in.AuthorizedBy,
		ROECompliance:     true,
		Result: domain.EngagementResult{
			ImpactTime:       now,
			ImpactCoords:     targetPos,
			DamageAssessment: assessment,
			CollateralRisk:   domain.CollateralNone,
		},
		Hit:             in.Hit,
		WaypointNumber:  in.WaypointNumber,
		ShooterPosition: shooter,
		RangeToTargetKM: rangeKM,
		BDAStatus:       repository.BDAStatusPending,
	}

	// The outcome feeds the accuracy engine before the record lands so
	// the events carry the post-update accuracy.
	entry, rerr := r.ranking.UpdateEntry(ctx, convoyID, droneID, in.DroneCallsign, "", in.Hit)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	if cerr := r.engagements.Create(ctx, e); cerr != nil {
		return nil, apperrors.From(cerr)
	}

	r.publishOutcome(entry, in.Hit, weapon)
	targetType := string(e.Target.TargetType)
	altitude := shooter.AltitudeM
	r.ingest(analytics.EngagementRecord{
		EngagementID: engagementID,
		ConvoyID:     convoyID,
		DroneID:      droneID,
		Callsign:     in.DroneCallsign,
		PlatformType: string(entry.PlatformType),
		Hit:          in.Hit,
		WeaponType:   string(weapon),
		TargetType:   &targetType,
		RangeKM:      &rangeKM,
		AltitudeM:    &altitude,
		Timestamp:    now,
	})

	return models.NewEngagementView(*e), nil
}

func (r *Resolver) mutateUpdateBda(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.UpdateBdaInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	engagementID, err := parseID(in.EngagementID)
	if err != nil {
		return nil, err
	}
	assessment, perr := domain.ParseDamageAssessment(in.DamageAssessment)
	if perr != nil {
		return nil, apperrors.InvalidInput(perr.Error())
	}

	e, rerr := r.engagements.RecordBDA(ctx, convoyID, engagementID, assessment, in.Notes)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	return models.NewEngagementView(*e), nil
}

type rebuildArgs struct {
	ConvoyID string `json:"convoy_id" validate:"required,uuid"`
}

func (r *Resolver) mutateRebuildRanking(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var args rebuildArgs
	if err := r.decodeArgs(vars, &args); err != nil {
		return nil, err
	}
	convoyID, err := parseID(args.ConvoyID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	processed, rerr := r.ranking.Rebuild(ctx, convoyID)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	return models.RebuildResult{
		Success:          true,
		EntriesProcessed: processed,
		DurationMS:       time.Since(started).Milliseconds(),
	}, nil
}

func (r *Resolver) mutateUpdateAssetState(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.UpdateAssetStateInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	droneID, err := parseID(in.DroneID)
	if err != nil {
		return nil, err
	}

	var status *domain.DroneStatus
	if in.Status != nil {
		s, perr := domain.ParseDroneStatus(*in.Status)
		if perr != nil {
			return nil, apperrors.InvalidInput(perr.Error())
		}
		status = &s
	}
	var position *domain.Coordinates
	if in.Position != nil {
		p := coordsFromInput(*in.Position)
		position = &p
	}

	d, previous, rerr := r.assets.UpdateState(ctx, convoyID, droneID, status, in.FuelRemainingPct, position)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}

	now := time.Now().UTC()
	if d.Status != previous {
		r.broker.AssetStatus.Publish(events.AssetStatusEvent{
			ConvoyID:  convoyID,
			DroneID:   droneID,
			Callsign:  d.Callsign,
			OldStatus: previous,
			NewStatus: d.Status,
			Timestamp: now,
		})
	}
	if d.FuelCritical() {
		severity := domain.SeverityWarning
		if d.FuelRemainingPct < 10 {
			severity = domain.SeverityCritical
		}
		r.broker.Alerts.Publish(events.AlertEvent{
			AlertID:   uuid.New(),
			ConvoyID:  convoyID,
			DroneID:   &droneID,
			Severity:  severity,
			AlertType: "LOW_FUEL",
			Message:   fmt.Sprintf("%s fuel at %.1f%%, below the 20%% floor", d.Callsign, d.FuelRemainingPct),
			Timestamp: now,
		})
	}

	view := models.NewAssetView(*d, r.currentWaypoint(ctx, droneID))
	return &view, nil
}

func (r *Resolver) mutateRecordTelemetry(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.RecordTelemetryInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	droneID, err := parseID(in.DroneID)
	if err != nil {
		return nil, err
	}

	t := &domain.Telemetry{
		DroneID:          droneID,
		Position:         coordsFromInput(in.Position),
		VelocityMPS:      in.VelocityMPS,
		AccelerationMPS2: in.AccelerationMPS2,
		BankAngleDeg:     in.BankAngleDeg,
		PitchAngleDeg:    in.PitchAngleDeg,
		CurrentWaypoint:  in.CurrentWaypoint,
		DistanceToNextKM: in.DistanceToNextKM,
		FuelRemainingPct: in.FuelRemainingPct,
		EngineRPM:        in.EngineRPM,
		EngineTempC:      in.EngineTempC,
		BatteryVoltage:   in.BatteryVoltage,
		WindSpeedMPS:     in.WindSpeedMPS,
		WindDirectionDeg: in.WindDirectionDeg,
		TemperatureC:     in.TemperatureC,
		VisibilityKM:     in.VisibilityKM,
		MeshConnectivity: in.MeshConnectivity,
	}
	if in.RecordedAt != nil {
		t.RecordedAt = in.RecordedAt.UTC()
	}

	if rerr := r.telemetry.Record(ctx, t); rerr != nil {
		return nil, apperrors.From(rerr)
	}

	// Route progression rides on telemetry: the waypoint the sample
	// reports becomes the active one. Best-effort; a failed progression
	// never rejects the sample.
	if werr := r.waypoints.Advance(ctx, droneID, t.CurrentWaypoint); werr != nil {
		r.log.Warn("waypoint progression failed",
			zap.String("drone_id", droneID.String()), zap.Error(werr))
	}

	r.broker.Telemetry.Publish(*t)
	return t, nil
}

func (r *Resolver) mutateCreateConvoy(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.CreateConvoyInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	missionType, perr := domain.ParseMissionType(in.MissionType)
	if perr != nil {
		return nil, apperrors.InvalidInput(perr.Error())
	}

	convoyID := uuid.New()
	if in.ConvoyID != nil {
		id, err := parseID(*in.ConvoyID)
		if err != nil {
			return nil, err
		}
		convoyID = id
	}
	missionID := uuid.New()
	if in.MissionID != nil {
		id, err := parseID(*in.MissionID)
		if err != nil {
			return nil, err
		}
		missionID = id
	}

	c := &domain.Convoy{
		ConvoyID:           convoyID,
		ConvoyCallsign:     in.ConvoyCallsign,
		MissionID:          missionID,
		MissionType:        missionType,
		Status:             domain.ConvoyPlanning,
		CreatedAt:          time.Now().UTC(),
		AORName:            in.AORName,
		AORCenter:          coordsFromInput(in.AORCenter),
		AORRadiusKM:        in.AORRadiusKM,
		CommandingUnit:     in.CommandingUnit,
		AuthorizationLevel: in.AuthorizationLevel,
		ROEProfile:         in.ROEProfile,
		DroneIDs:           []uuid.UUID{},
	}
	if rerr := r.convoys.Create(ctx, c); rerr != nil {
		return nil, apperrors.From(rerr)
	}

	r.log.Info("convoy created",
		zap.String("convoy_id", c.ConvoyID.String()),
		zap.String("callsign", c.ConvoyCallsign))
	view := models.NewConvoyView(*c, time.Now())
	return &view, nil
}

func (r *Resolver) mutateUpdateConvoyStatus(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.UpdateConvoyStatusInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	status, perr := domain.ParseConvoyStatus(in.Status)
	if perr != nil {
		return nil, apperrors.InvalidInput(perr.Error())
	}

	c, rerr := r.convoys.UpdateStatus(ctx, convoyID, status)
	if rerr != nil {
		return nil, apperrors.From(rerr)
	}
	view := models.NewConvoyView(*c, time.Now())
	return &view, nil
}

func (r *Resolver) mutateCreateAsset(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.CreateAssetInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	convoyID, err := parseID(in.ConvoyID)
	if err != nil {
		return nil, err
	}
	platform, perr := domain.ParsePlatformType(in.PlatformType)
	if perr != nil {
		return nil, apperrors.InvalidInput(perr.Error())
	}

	droneID := uuid.New()
	if in.DroneID != nil {
		id, err := parseID(*in.DroneID)
		if err != nil {
			return nil, err
		}
		droneID = id
	}

	now := time.Now().UTC()
	d := &domain.Drone{
		ConvoyID:         convoyID,
		DroneID:          droneID,
		TailNumber:       in.TailNumber,
		Callsign:         in.Callsign,
		PlatformType:     platform,
		SerialNumber:     in.SerialNumber,
		Status:           domain.DronePreflight,
		FuelRemainingPct: 100,
		MeshNeighbors:    []uuid.UUID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if rerr := r.assets.Create(ctx, d); rerr != nil {
		return nil, apperrors.From(rerr)
	}
	if _, rerr := r.convoys.AddDrone(ctx, convoyID, droneID); rerr != nil {
		return nil, apperrors.From(rerr)
	}

	view := models.NewAssetView(*d, -1)
	return &view, nil
}

func (r *Resolver) mutateCreateWaypoints(ctx context.Context, vars map[string]json.RawMessage) (interface{}, *apperrors.Error) {
	var in models.CreateWaypointsInput
	if err := r.decodeArgs(vars, &in); err != nil {
		return nil, err
	}
	droneID, err := parseID(in.DroneID)
	if err != nil {
		return nil, err
	}

	route := make([]domain.Waypoint, 0, len(in.Waypoints))
	for _, w := range in.Waypoints {
		route = append(route, domain.Waypoint{
			DroneID:           droneID,
			SequenceNumber:    w.SequenceNumber,
			WaypointID:        uuid.New(),
			WaypointName:      w.WaypointName,
			WaypointType:      domain.WaypointType(w.WaypointType),
			Coordinates:       coordsFromInput(w.Coordinates),
			PlannedArrival:    w.PlannedArrival,
			PlannedDeparture:  w.PlannedDeparture,
			LoiterDurationMin: w.LoiterDurationMin,
			AuthorizedActions: w.AuthorizedActions,
			Status:            domain.WaypointPending,
		})
	}
	if rerr := r.waypoints.CreateRoute(ctx, droneID, route); rerr != nil {
		return nil, apperrors.From(rerr)
	}

	views := make([]models.WaypointView, 0, len(route))
	for _, w := range route {
		views = append(views, models.NewWaypointView(w))
	}
	return views, nil
}
