package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/hotstore"
	"github.com/picogrid/convoy-tracker/pkg/strategy"
)

type telemetryCold interface {
	InsertTelemetry(ctx context.Context, t *domain.Telemetry) error
	LatestTelemetry(ctx context.Context, droneID uuid.UUID) (*domain.Telemetry, error)
	TelemetryRange(ctx context.Context, droneID uuid.UUID, r domain.TimeRange, limit int) ([]domain.Telemetry, error)
}

// waypointProgress is the hot projection refreshed on every sample.
type waypointProgress struct {
	CurrentWaypoint  int     `json:"current_waypoint"`
	DistanceToNextKM float64 `json:"distance_to_next_km"`
	UpdatedAt        string  `json:"updated_at"`
}

// TelemetryRepository manages the time-series tier: cold rows bucketed
// by hour with a 24h expiry, plus a latest-sample hot projection.
type TelemetryRepository struct {
	cold telemetryCold
	hot  *hotstore.Client
	log  *zap.Logger
}

func NewTelemetryRepository(cold *coldstore.Store, hot *hotstore.Client, log *zap.Logger) *TelemetryRepository {
	return &TelemetryRepository{cold: cold, hot: hot, log: log.Named("telemetry")}
}

// Record persists one sample. The hourly bucket is derived here so
// callers cannot split a partition; the latest-sample and waypoint
// progress projections ride along best-effort.
func (r *TelemetryRepository) Record(ctx context.Context, t *domain.Telemetry) error {
	if t.RecordedAt.IsZero() {
		t.RecordedAt = time.Now().UTC()
	}
	t.TimeBucket = domain.TimeBucket(t.RecordedAt)

	key := hotstore.LatestTelemetryKey(t.DroneID.String())

	cold := func(ctx context.Context) error {
		return r.cold.InsertTelemetry(ctx, t)
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			ttl := r.hot.TTL()
			if err := hotstore.SetJSON(ctx, r.hot, key, *t, ttl.Telemetry); err != nil {
				return err
			}
			progress := waypointProgress{
				CurrentWaypoint:  t.CurrentWaypoint,
				DistanceToNextKM: t.DistanceToNextKM,
				UpdatedAt:        t.RecordedAt.UTC().Format(time.RFC3339),
			}
			return hotstore.SetJSON(ctx, r.hot,
				hotstore.WaypointProgressKey(t.DroneID.String()), progress, ttl.DroneState)
		}
	}

	return strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil)
}

// Latest returns the newest sample for an asset, cache-first.
func (r *TelemetryRepository) Latest(ctx context.Context, droneID uuid.UUID) (*domain.Telemetry, error) {
	key := hotstore.LatestTelemetryKey(droneID.String())

	var cache strategy.CacheFn[domain.Telemetry]
	if r.hot != nil {
		cache = func(ctx context.Context) (*domain.Telemetry, error) {
			return hotstore.GetJSON[domain.Telemetry](ctx, r.hot, key)
		}
	}

	store := func(ctx context.Context) (domain.Telemetry, error) {
		t, err := r.cold.LatestTelemetry(ctx, droneID)
		if err != nil {
			return domain.Telemetry{}, err
		}
		return *t, nil
	}

	populate := func(ctx context.Context, t domain.Telemetry) error {
		if r.hot == nil {
			return nil
		}
		return hotstore.SetJSON(ctx, r.hot, key, t, r.hot.TTL().Telemetry)
	}

	t, err := strategy.ReadValue(ctx, strategy.ReadCacheFirst, r.log, key, cache, store, populate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// History returns samples in the window, newest first, cold only.
func (r *TelemetryRepository) History(ctx context.Context, droneID uuid.UUID, window domain.TimeRange, limit int) ([]domain.Telemetry, error) {
	return r.cold.TelemetryRange(ctx, droneID, window, limit)
}
