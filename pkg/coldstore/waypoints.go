package coldstore

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// InsertWaypoints writes a route as a single-partition unlogged batch.
// All rows share the drone_id partition, so the batch is atomic per the
// storage engine's single-partition guarantee.
func (s *Store) InsertWaypoints(ctx context.Context, waypoints []domain.Waypoint) error {
	if len(waypoints) == 0 {
		return nil
	}

	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, w := range waypoints {
		batch.Query(insertWaypointCQL,
			cqlUUID(w.DroneID),
			w.SequenceNumber,
			cqlUUID(w.WaypointID),
			w.WaypointName,
			string(w.WaypointType),
			w.Coordinates.Latitude,
			w.Coordinates.Longitude,
			w.Coordinates.AltitudeM,
			w.PlannedArrival,
			w.ActualArrival,
			w.PlannedDeparture,
			w.ActualDeparture,
			w.LoiterDurationMin,
			w.AuthorizedActions,
			string(w.Status),
		)
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return wrapErr("insert_waypoints", err)
	}
	return nil
}

// ListWaypoints returns a drone's route in sequence order, which the
// clustering key provides for free.
func (s *Store) ListWaypoints(ctx context.Context, droneID uuid.UUID) ([]domain.Waypoint, error) {
	iter := s.session.Query(selectWaypointsCQL, cqlUUID(droneID)).WithContext(ctx).Iter()

	var waypoints []domain.Waypoint
	for {
		w, ok, err := scanWaypoint(iter)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		if !ok {
			break
		}
		waypoints = append(waypoints, w)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr("list_waypoints", err)
	}
	return waypoints, nil
}

// GetWaypoint loads one waypoint by (drone, sequence).
func (s *Store) GetWaypoint(ctx context.Context, droneID uuid.UUID, sequenceNumber int) (*domain.Waypoint, error) {
	iter := s.session.Query(selectWaypointCQL, cqlUUID(droneID), sequenceNumber).
		WithContext(ctx).Iter()
	w, ok, err := scanWaypoint(iter)
	if err != nil {
		_ = iter.Close()
		return nil, err
	}
	if closeErr := iter.Close(); closeErr != nil {
		return nil, wrapErr("get_waypoint", closeErr)
	}
	if !ok {
		return nil, wrapErr("get_waypoint", gocql.ErrNotFound)
	}
	return &w, nil
}

// UpdateWaypointStatus advances a waypoint's lifecycle and stamps the
// observed arrival and departure instants.
func (s *Store) UpdateWaypointStatus(ctx context.Context, droneID uuid.UUID, sequenceNumber int, status domain.WaypointStatus, actualArrival, actualDeparture *time.Time) error {
	err := s.session.Query(updateWaypointStatusCQL,
		string(status), actualArrival, actualDeparture,
		cqlUUID(droneID), sequenceNumber,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_waypoint_status", err)
	}
	return nil
}

func scanWaypoint(iter *gocql.Iter) (domain.Waypoint, bool, error) {
	var (
		w                domain.Waypoint
		did, wid         gocql.UUID
		waypointType     string
		status           string
		plannedArrival   time.Time
		actualArrival    time.Time
		plannedDeparture time.Time
		actualDeparture  time.Time
		loiterMin        int
	)
	ok := iter.Scan(
		&did,
		&w.SequenceNumber,
		&wid,
		&w.WaypointName,
		&waypointType,
		&w.Coordinates.Latitude,
		&w.Coordinates.Longitude,
		&w.Coordinates.AltitudeM,
		&plannedArrival,
		&actualArrival,
		&plannedDeparture,
		&actualDeparture,
		&loiterMin,
		&w.AuthorizedActions,
		&status,
	)
	if !ok {
		return domain.Waypoint{}, false, nil
	}

	w.DroneID = uuid.UUID(did)
	w.WaypointID = uuid.UUID(wid)
	w.WaypointType = domain.WaypointType(waypointType)
	w.Status = domain.WaypointStatus(status)
	w.PlannedArrival = timePtr(plannedArrival)
	w.ActualArrival = timePtr(actualArrival)
	w.PlannedDeparture = timePtr(plannedDeparture)
	w.ActualDeparture = timePtr(actualDeparture)
	w.LoiterDurationMin = intPtr(loiterMin)
	return w, true, nil
}
