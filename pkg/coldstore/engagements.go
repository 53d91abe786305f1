package coldstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// ErrMirrorWrite marks a failure on the by-drone mirror after the
// primary row landed. The record is recoverable from the primary by
// engagement_id, so callers may log and continue.
var ErrMirrorWrite = errors.New("engagement mirror write failed")

// engagementArgs flattens the record in statement column order. Both
// mirrors share the column set, only the key layout differs.
func engagementArgs(e *domain.Engagement) []interface{} {
	return []interface{}{
		cqlUUID(e.ConvoyID),
		e.EngagedAt,
		cqlUUID(e.EngagementID),
		cqlUUID(e.DroneID),
		e.DroneCallsign,
		string(e.WeaponType),
		e.WeaponSerial,
		cqlUUID(e.Target.TargetID),
		string(e.Target.TargetType),
		e.Target.Coordinates.Latitude,
		e.Target.Coordinates.Longitude,
		e.Target.Coordinates.AltitudeM,
		e.Target.Confidence,
		string(e.Target.ThreatLevel),
		e.ShooterPosition.Latitude,
		e.ShooterPosition.Longitude,
		e.ShooterPosition.AltitudeM,
		e.RangeToTargetKM,
		e.Hit,
		e.Result.ImpactTime,
		string(e.Result.DamageAssessment),
		string(e.Result.CollateralRisk),
		e.AuthorizationCode,
		e.AuthorizedBy,
		e.ROECompliance,
		e.WaypointNumber,
		e.BDAStatus,
		e.BDANotes,
	}
}

// InsertEngagement dual-writes the record. The primary (by-convoy) row
// must land; a mirror failure comes back as ErrMirrorWrite.
func (s *Store) InsertEngagement(ctx context.Context, e *domain.Engagement) error {
	args := engagementArgs(e)
	if err := s.session.Query(insertEngagementCQL, args...).WithContext(ctx).Exec(); err != nil {
		return wrapErr("insert_engagement", err)
	}
	if err := s.session.Query(insertEngagementByDroneCQL, args...).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return nil
}

// ListEngagementsByConvoy pages the newest engagements for a convoy.
func (s *Store) ListEngagementsByConvoy(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.Engagement, error) {
	q := s.session.Query(selectEngagementsByConvoyCQL, cqlUUID(convoyID), s.pageLimit(limit)).
		WithContext(ctx)
	return collectEngagements(q.Iter(), "list_engagements_by_convoy")
}

// ListEngagementsByDrone pages the newest engagements for an asset from
// the by-drone mirror.
func (s *Store) ListEngagementsByDrone(ctx context.Context, droneID uuid.UUID, limit int) ([]domain.Engagement, error) {
	q := s.session.Query(selectEngagementsByDroneCQL, cqlUUID(droneID), s.pageLimit(limit)).
		WithContext(ctx)
	return collectEngagements(q.Iter(), "list_engagements_by_drone")
}

// GetEngagement loads one record by full primary key.
func (s *Store) GetEngagement(ctx context.Context, convoyID uuid.UUID, engagedAt time.Time, engagementID uuid.UUID) (*domain.Engagement, error) {
	iter := s.session.Query(selectEngagementCQL,
		cqlUUID(convoyID), engagedAt, cqlUUID(engagementID),
	).WithContext(ctx).Iter()

	e, ok, err := scanEngagement(iter)
	if err != nil {
		_ = iter.Close()
		return nil, err
	}
	if closeErr := iter.Close(); closeErr != nil {
		return nil, wrapErr("get_engagement", closeErr)
	}
	if !ok {
		return nil, wrapErr("get_engagement", gocql.ErrNotFound)
	}
	return &e, nil
}

// FindEngagementByID scans a convoy's recent engagements for one id.
// The clustering key leads with engaged_at, so a point lookup by id
// alone is a partition walk.
func (s *Store) FindEngagementByID(ctx context.Context, convoyID, engagementID uuid.UUID) (*domain.Engagement, error) {
	engagements, err := s.ListEngagementsByConvoy(ctx, convoyID, 1000)
	if err != nil {
		return nil, err
	}
	for i := range engagements {
		if engagements[i].EngagementID == engagementID {
			return &engagements[i], nil
		}
	}
	return nil, wrapErr("find_engagement", gocql.ErrNotFound)
}

// UpdateBDA rewrites the assessment fields in both mirrors. The primary
// must succeed; a mirror failure comes back as ErrMirrorWrite.
func (s *Store) UpdateBDA(ctx context.Context, e *domain.Engagement, bdaStatus string, bdaNotes *string, assessment domain.DamageAssessment) error {
	err := s.session.Query(updateEngagementBDACQL,
		bdaStatus, bdaNotes, string(assessment),
		cqlUUID(e.ConvoyID), e.EngagedAt, cqlUUID(e.EngagementID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_bda", err)
	}

	err = s.session.Query(updateEngagementByDroneBDACQL,
		bdaStatus, bdaNotes, string(assessment),
		cqlUUID(e.DroneID), e.EngagedAt, cqlUUID(e.EngagementID),
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return nil
}

func collectEngagements(iter *gocql.Iter, op string) ([]domain.Engagement, error) {
	var engagements []domain.Engagement
	for {
		e, ok, err := scanEngagement(iter)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		if !ok {
			break
		}
		engagements = append(engagements, e)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr(op, err)
	}
	return engagements, nil
}

func scanEngagement(iter *gocql.Iter) (domain.Engagement, bool, error) {
	var (
		e              domain.Engagement
		cid, eid       gocql.UUID
		did, tid       gocql.UUID
		weaponType     string
		targetType     string
		threatLevel    string
		assessment     string
		collateralRisk string
		bdaNotes       string
	)
	ok := iter.Scan(
		&cid,
		&e.EngagedAt,
		&eid,
		&did,
		&e.DroneCallsign,
		&weaponType,
		&e.WeaponSerial,
		&tid,
		&targetType,
		&e.Target.Coordinates.Latitude,
		&e.Target.Coordinates.Longitude,
		&e.Target.Coordinates.AltitudeM,
		&e.Target.Confidence,
		&threatLevel,
		&e.ShooterPosition.Latitude,
		&e.ShooterPosition.Longitude,
		&e.ShooterPosition.AltitudeM,
		&e.RangeToTargetKM,
		&e.Hit,
		&e.Result.ImpactTime,
		&assessment,
		&collateralRisk,
		&e.AuthorizationCode,
		&e.AuthorizedBy,
		&e.ROECompliance,
		&e.WaypointNumber,
		&e.BDAStatus,
		&bdaNotes,
	)
	if !ok {
		return domain.Engagement{}, false, nil
	}

	e.ConvoyID = uuid.UUID(cid)
	e.EngagementID = uuid.UUID(eid)
	e.DroneID = uuid.UUID(did)
	e.Target.TargetID = uuid.UUID(tid)
	e.WeaponType = domain.WeaponType(weaponType)
	e.Target.TargetType = domain.TargetType(targetType)
	e.Target.ThreatLevel = domain.ThreatLevel(threatLevel)
	e.Result.DamageAssessment = domain.DamageAssessment(assessment)
	e.Result.CollateralRisk = domain.CollateralRisk(collateralRisk)
	e.BDANotes = strPtr(bdaNotes)
	return e, true, nil
}
