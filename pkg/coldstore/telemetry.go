package coldstore

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// InsertTelemetry appends one sample. The statement carries the 24 hour
// row TTL.
func (s *Store) InsertTelemetry(ctx context.Context, t *domain.Telemetry) error {
	err := s.session.Query(insertTelemetryCQL,
		cqlUUID(t.DroneID),
		t.TimeBucket,
		t.RecordedAt,
		t.Position.Latitude,
		t.Position.Longitude,
		t.Position.AltitudeM,
		t.Position.HeadingDeg,
		t.VelocityMPS,
		t.AccelerationMPS2,
		t.BankAngleDeg,
		t.PitchAngleDeg,
		t.CurrentWaypoint,
		t.DistanceToNextKM,
		t.ETANextWaypoint,
		t.FuelRemainingPct,
		t.EngineRPM,
		t.EngineTempC,
		t.BatteryVoltage,
		t.WindSpeedMPS,
		t.WindDirectionDeg,
		t.TemperatureC,
		t.VisibilityKM,
		t.MeshConnectivity,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("insert_telemetry", err)
	}
	return nil
}

// LatestTelemetry returns the most recent sample for a drone. Clustering
// order makes the first row the newest.
func (s *Store) LatestTelemetry(ctx context.Context, droneID uuid.UUID) (*domain.Telemetry, error) {
	iter := s.session.Query(selectLatestTelemetryCQL, cqlUUID(droneID)).WithContext(ctx).Iter()
	t, ok := scanTelemetry(iter)
	if err := iter.Close(); err != nil {
		return nil, wrapErr("latest_telemetry", err)
	}
	if !ok {
		return nil, wrapErr("latest_telemetry", gocql.ErrNotFound)
	}
	return &t, nil
}

// TelemetryRange returns samples within [start, end], newest first,
// capped at limit. The range is walked bucket by bucket from the end
// hour backwards so each statement stays within one bucket.
func (s *Store) TelemetryRange(ctx context.Context, droneID uuid.UUID, r domain.TimeRange, limit int) ([]domain.Telemetry, error) {
	limit = s.pageLimit(limit)

	var samples []domain.Telemetry
	for hour := r.End.UTC().Truncate(time.Hour); !hour.Before(r.Start.UTC().Truncate(time.Hour)); hour = hour.Add(-time.Hour) {
		remaining := limit - len(samples)
		if remaining <= 0 {
			break
		}

		iter := s.session.Query(selectTelemetryRangeCQL,
			cqlUUID(droneID), domain.TimeBucket(hour), r.Start, r.End, remaining,
		).WithContext(ctx).Iter()

		for {
			t, ok := scanTelemetry(iter)
			if !ok {
				break
			}
			samples = append(samples, t)
		}
		if err := iter.Close(); err != nil {
			return nil, wrapErr("telemetry_range", err)
		}
	}
	return samples, nil
}

func scanTelemetry(iter *gocql.Iter) (domain.Telemetry, bool) {
	var (
		t   domain.Telemetry
		did gocql.UUID
		eta time.Time
	)
	ok := iter.Scan(
		&did,
		&t.TimeBucket,
		&t.RecordedAt,
		&t.Position.Latitude,
		&t.Position.Longitude,
		&t.Position.AltitudeM,
		&t.Position.HeadingDeg,
		&t.VelocityMPS,
		&t.AccelerationMPS2,
		&t.BankAngleDeg,
		&t.PitchAngleDeg,
		&t.CurrentWaypoint,
		&t.DistanceToNextKM,
		&eta,
		&t.FuelRemainingPct,
		&t.EngineRPM,
		&t.EngineTempC,
		&t.BatteryVoltage,
		&t.WindSpeedMPS,
		&t.WindDirectionDeg,
		&t.TemperatureC,
		&t.VisibilityKM,
		&t.MeshConnectivity,
	)
	if !ok {
		return domain.Telemetry{}, false
	}
	t.DroneID = uuid.UUID(did)
	t.Position.SpeedMPS = t.VelocityMPS
	t.ETANextWaypoint = timePtr(eta)
	return t, true
}
