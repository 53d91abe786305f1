package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/hotstore"
	"github.com/picogrid/convoy-tracker/pkg/strategy"
)

type waypointCold interface {
	InsertWaypoints(ctx context.Context, waypoints []domain.Waypoint) error
	ListWaypoints(ctx context.Context, droneID uuid.UUID) ([]domain.Waypoint, error)
	GetWaypoint(ctx context.Context, droneID uuid.UUID, sequenceNumber int) (*domain.Waypoint, error)
	UpdateWaypointStatus(ctx context.Context, droneID uuid.UUID, sequenceNumber int, status domain.WaypointStatus, actualArrival, actualDeparture *time.Time) error
}

// WaypointRepository manages mission routes. Routes are written around
// the hot tier; the waypoint progress projection is maintained by the
// telemetry path and only invalidated here.
type WaypointRepository struct {
	cold waypointCold
	hot  *hotstore.Client
	log  *zap.Logger
}

func NewWaypointRepository(cold *coldstore.Store, hot *hotstore.Client, log *zap.Logger) *WaypointRepository {
	return &WaypointRepository{cold: cold, hot: hot, log: log.Named("waypoints")}
}

// CreateRoute persists a full mission route for one asset. Routes are
// exactly 25 points with contiguous sequence numbers starting at 1.
func (r *WaypointRepository) CreateRoute(ctx context.Context, droneID uuid.UUID, waypoints []domain.Waypoint) error {
	if len(waypoints) != domain.MissionWaypointCount {
		return apperrors.InvalidInput(
			fmt.Sprintf("mission route must have exactly %d waypoints, got %d",
				domain.MissionWaypointCount, len(waypoints)))
	}
	for i := range waypoints {
		if waypoints[i].DroneID != droneID {
			return apperrors.InvalidInput("all waypoints must belong to the same drone")
		}
		if waypoints[i].SequenceNumber != i+1 {
			return apperrors.InvalidInput(
				fmt.Sprintf("waypoint sequence numbers must be contiguous from 1, got %d at position %d",
					waypoints[i].SequenceNumber, i))
		}
	}

	key := hotstore.WaypointProgressKey(droneID.String())

	cold := func(ctx context.Context) error {
		return r.cold.InsertWaypoints(ctx, waypoints)
	}
	invalidate := func(ctx context.Context) error {
		if r.hot == nil {
			return nil
		}
		return r.hot.Delete(ctx, key)
	}

	return strategy.WriteValue(ctx, strategy.WriteAround, r.log, key, nil, cold, invalidate)
}

// ListByDrone returns the route in sequence order.
func (r *WaypointRepository) ListByDrone(ctx context.Context, droneID uuid.UUID) ([]domain.Waypoint, error) {
	return r.cold.ListWaypoints(ctx, droneID)
}

// GetBySequence returns a single route point.
func (r *WaypointRepository) GetBySequence(ctx context.Context, droneID uuid.UUID, sequenceNumber int) (*domain.Waypoint, error) {
	return r.cold.GetWaypoint(ctx, droneID, sequenceNumber)
}

// UpdateStatus records progress through a route point, stamping actual
// arrival and departure. At most one waypoint per asset is ACTIVE:
// activating a point completes whichever sibling held the status before
// it. The hot progress projection is dropped so the next telemetry
// sample rebuilds it.
func (r *WaypointRepository) UpdateStatus(ctx context.Context, droneID uuid.UUID, sequenceNumber int, status domain.WaypointStatus, actualArrival, actualDeparture *time.Time) (*domain.Waypoint, error) {
	wp, err := r.cold.GetWaypoint(ctx, droneID, sequenceNumber)
	if err != nil {
		return nil, err
	}

	if status == domain.WaypointActive {
		if err := r.demoteActive(ctx, droneID, sequenceNumber); err != nil {
			return nil, err
		}
	}

	key := hotstore.WaypointProgressKey(droneID.String())

	cold := func(ctx context.Context) error {
		return r.cold.UpdateWaypointStatus(ctx, droneID, sequenceNumber, status, actualArrival, actualDeparture)
	}
	invalidate := func(ctx context.Context) error {
		if r.hot == nil {
			return nil
		}
		return r.hot.Delete(ctx, key)
	}

	if err := strategy.WriteValue(ctx, strategy.WriteAround, r.log, key, nil, cold, invalidate); err != nil {
		return nil, err
	}

	wp.Status = status
	if actualArrival != nil {
		wp.ActualArrival = actualArrival
	}
	if actualDeparture != nil {
		wp.ActualDeparture = actualDeparture
	}
	return wp, nil
}

// demoteActive completes any route point other than sequenceNumber that
// is currently ACTIVE, stamping its departure.
func (r *WaypointRepository) demoteActive(ctx context.Context, droneID uuid.UUID, sequenceNumber int) error {
	route, err := r.cold.ListWaypoints(ctx, droneID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range route {
		if route[i].SequenceNumber == sequenceNumber || route[i].Status != domain.WaypointActive {
			continue
		}
		departed := now
		if err := r.cold.UpdateWaypointStatus(ctx, droneID, route[i].SequenceNumber,
			domain.WaypointComplete, nil, &departed); err != nil {
			return err
		}
	}
	return nil
}

// Advance marks the route point an asset is flying toward as ACTIVE,
// completing the point it left behind. Driven by the telemetry path; a
// no-op for assets without a route or when the sample does not move the
// route forward.
func (r *WaypointRepository) Advance(ctx context.Context, droneID uuid.UUID, sequenceNumber int) error {
	if sequenceNumber < 1 || sequenceNumber > domain.MissionWaypointCount {
		return nil
	}

	wp, err := r.GetBySequence(ctx, droneID, sequenceNumber)
	if err != nil {
		if coldstore.IsNotFound(err) {
			return nil
		}
		return err
	}
	if wp.Status == domain.WaypointActive || wp.Status == domain.WaypointComplete {
		return nil
	}

	arrived := time.Now().UTC()
	_, err = r.UpdateStatus(ctx, droneID, sequenceNumber, domain.WaypointActive, &arrived, nil)
	return err
}
