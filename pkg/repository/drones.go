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

type droneCold interface {
	InsertDrone(ctx context.Context, d *domain.Drone) error
	GetDrone(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.Drone, error)
	ListDronesByConvoy(ctx context.Context, convoyID uuid.UUID) ([]domain.Drone, error)
	UpdateDroneState(ctx context.Context, convoyID, droneID uuid.UUID, status domain.DroneStatus, fuelPct float64, pos domain.Coordinates, updatedAt time.Time) error
}

// DroneRepository manages asset rows and the hot drone-state projection.
// Full-entity reads go cold: the hot projection holds only the mutable
// state fields and cannot answer them.
type DroneRepository struct {
	cold droneCold
	hot  *hotstore.Client
	log  *zap.Logger
}

func NewDroneRepository(cold *coldstore.Store, hot *hotstore.Client, log *zap.Logger) *DroneRepository {
	return &DroneRepository{cold: cold, hot: hot, log: log.Named("drones")}
}

// Create persists a new asset and seeds its hot state projection.
func (r *DroneRepository) Create(ctx context.Context, d *domain.Drone) error {
	key := hotstore.DroneStateKey(d.DroneID.String())

	cold := func(ctx context.Context) error {
		return r.cold.InsertDrone(ctx, d)
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			return r.hot.SetDroneState(ctx, d.DroneID.String(), stateProjection(d))
		}
	}

	return strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil)
}

// GetByID reads the full asset row from the cold tier.
func (r *DroneRepository) GetByID(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.Drone, error) {
	return r.cold.GetDrone(ctx, convoyID, droneID)
}

// ListByConvoy reads the convoy's full asset roster from the cold tier.
func (r *DroneRepository) ListByConvoy(ctx context.Context, convoyID uuid.UUID) ([]domain.Drone, error) {
	return r.cold.ListDronesByConvoy(ctx, convoyID)
}

// UpdateState merges a partial state change into the asset. Nil fields
// keep their current values. Returns the updated row and the status the
// asset held before the write, for change notifications.
func (r *DroneRepository) UpdateState(ctx context.Context, convoyID, droneID uuid.UUID, status *domain.DroneStatus, fuelPct *float64, position *domain.Coordinates) (*domain.Drone, domain.DroneStatus, error) {
	d, err := r.cold.GetDrone(ctx, convoyID, droneID)
	if err != nil {
		return nil, "", err
	}
	previous := d.Status

	if status != nil {
		d.Status = *status
	}
	if fuelPct != nil {
		d.FuelRemainingPct = *fuelPct
	}
	if position != nil {
		d.CurrentPosition = *position
	}
	d.UpdatedAt = time.Now().UTC()

	key := hotstore.DroneStateKey(droneID.String())

	cold := func(ctx context.Context) error {
		return r.cold.UpdateDroneState(ctx, convoyID, droneID, d.Status, d.FuelRemainingPct, d.CurrentPosition, d.UpdatedAt)
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			return r.hot.SetDroneState(ctx, droneID.String(), stateProjection(d))
		}
	}

	if err := strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil); err != nil {
		return nil, "", err
	}
	return d, previous, nil
}

// State reads the hot projection for dashboard-style polling. Absent
// projections return (nil, nil); callers fall back to GetByID.
func (r *DroneRepository) State(ctx context.Context, droneID uuid.UUID) (*hotstore.DroneState, error) {
	if r.hot == nil {
		return nil, nil
	}
	return r.hot.GetDroneState(ctx, droneID.String())
}

func stateProjection(d *domain.Drone) hotstore.DroneState {
	return hotstore.DroneState{
		Status:    string(d.Status),
		FuelPct:   d.FuelRemainingPct,
		Latitude:  d.CurrentPosition.Latitude,
		Longitude: d.CurrentPosition.Longitude,
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
