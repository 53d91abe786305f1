package coldstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// droneLoadout is the JSON blob holding the slowly-changing payload
// detail that does not earn its own columns.
type droneLoadout struct {
	Weapons       []domain.WeaponStatus `json:"weapons"`
	Sensors       []domain.SensorStatus `json:"sensors"`
	PrimaryLink   *domain.CommLink      `json:"primary_link,omitempty"`
	BackupLink    *domain.CommLink      `json:"backup_link,omitempty"`
	MeshNeighbors []uuid.UUID           `json:"mesh_neighbors"`
}

// InsertDrone writes a full asset row.
func (s *Store) InsertDrone(ctx context.Context, d *domain.Drone) error {
	loadout, err := json.Marshal(droneLoadout{
		Weapons:       d.Weapons,
		Sensors:       d.Sensors,
		PrimaryLink:   d.PrimaryLink,
		BackupLink:    d.BackupLink,
		MeshNeighbors: d.MeshNeighbors,
	})
	if err != nil {
		return &Error{Kind: KindSerialization, Op: "insert_drone", Err: err}
	}

	err = s.session.Query(insertDroneCQL,
		cqlUUID(d.ConvoyID),
		cqlUUID(d.DroneID),
		d.TailNumber,
		d.Callsign,
		string(d.PlatformType),
		d.SerialNumber,
		string(d.Status),
		d.CurrentPosition.Latitude,
		d.CurrentPosition.Longitude,
		d.CurrentPosition.AltitudeM,
		d.CurrentPosition.HeadingDeg,
		d.CurrentPosition.SpeedMPS,
		d.FuelRemainingPct,
		d.FlightTimeHrs,
		string(loadout),
		d.TotalEngagements,
		d.SuccessfulHits,
		d.AccuracyPct,
		d.CreatedAt,
		d.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("insert_drone", err)
	}
	return nil
}

// GetDrone loads one asset by primary key.
func (s *Store) GetDrone(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.Drone, error) {
	q := s.session.Query(selectDroneCQL, cqlUUID(convoyID), cqlUUID(droneID)).WithContext(ctx)
	d, err := scanDrone(q.Iter())
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDronesByConvoy loads the partition of assets under a convoy.
func (s *Store) ListDronesByConvoy(ctx context.Context, convoyID uuid.UUID) ([]domain.Drone, error) {
	iter := s.session.Query(selectDronesByConvoyCQL, cqlUUID(convoyID)).WithContext(ctx).Iter()

	var drones []domain.Drone
	for {
		d, err := scanDroneRow(iter)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		if d == nil {
			break
		}
		drones = append(drones, *d)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr("list_drones", err)
	}
	return drones, nil
}

// UpdateDroneState rewrites the mutable flight state columns.
func (s *Store) UpdateDroneState(ctx context.Context, convoyID, droneID uuid.UUID, status domain.DroneStatus, fuelPct float64, pos domain.Coordinates, updatedAt time.Time) error {
	err := s.session.Query(updateDroneStateCQL,
		string(status), fuelPct,
		pos.Latitude, pos.Longitude, pos.AltitudeM, pos.HeadingDeg, pos.SpeedMPS,
		updatedAt,
		cqlUUID(convoyID), cqlUUID(droneID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_drone_state", err)
	}
	return nil
}

// UpdateDroneAccuracy rewrites the denormalized accuracy columns on the
// asset row. The counter table stays authoritative.
func (s *Store) UpdateDroneAccuracy(ctx context.Context, convoyID, droneID uuid.UUID, total, hits int, accuracyPct float64, updatedAt time.Time) error {
	err := s.session.Query(updateDroneAccuracyCQL,
		total, hits, accuracyPct, updatedAt,
		cqlUUID(convoyID), cqlUUID(droneID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_drone_accuracy", err)
	}
	return nil
}

// scanDrone reads exactly one row and closes the iterator.
func scanDrone(iter *gocql.Iter) (*domain.Drone, error) {
	d, err := scanDroneRow(iter)
	if err != nil {
		_ = iter.Close()
		return nil, err
	}
	if closeErr := iter.Close(); closeErr != nil {
		return nil, wrapErr("get_drone", closeErr)
	}
	if d == nil {
		return nil, wrapErr("get_drone", gocql.ErrNotFound)
	}
	return d, nil
}

// scanDroneRow decodes the next row, or returns nil when the iterator
// is exhausted.
func scanDroneRow(iter *gocql.Iter) (*domain.Drone, error) {
	var (
		d            domain.Drone
		cid, did     gocql.UUID
		platformType string
		status       string
		loadoutJSON  string
	)
	ok := iter.Scan(
		&cid,
		&did,
		&d.TailNumber,
		&d.Callsign,
		&platformType,
		&d.SerialNumber,
		&status,
		&d.CurrentPosition.Latitude,
		&d.CurrentPosition.Longitude,
		&d.CurrentPosition.AltitudeM,
		&d.CurrentPosition.HeadingDeg,
		&d.CurrentPosition.SpeedMPS,
		&d.FuelRemainingPct,
		&d.FlightTimeHrs,
		&loadoutJSON,
		&d.TotalEngagements,
		&d.SuccessfulHits,
		&d.AccuracyPct,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if !ok {
		return nil, nil
	}

	d.ConvoyID = uuid.UUID(cid)
	d.DroneID = uuid.UUID(did)
	d.PlatformType = domain.PlatformType(platformType)
	d.Status = domain.DroneStatus(status)

	if loadoutJSON != "" {
		var loadout droneLoadout
		if err := json.Unmarshal([]byte(loadoutJSON), &loadout); err != nil {
			return nil, &Error{Kind: KindSerialization, Op: "scan_drone", Err: err}
		}
		d.Weapons = loadout.Weapons
		d.Sensors = loadout.Sensors
		d.PrimaryLink = loadout.PrimaryLink
		d.BackupLink = loadout.BackupLink
		d.MeshNeighbors = loadout.MeshNeighbors
	}
	return &d, nil
}
