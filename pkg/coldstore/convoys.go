package coldstore

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// InsertConvoy writes a full convoy row. Idempotent for a
// client-supplied convoy_id.
func (s *Store) InsertConvoy(ctx context.Context, c *domain.Convoy) error {
	err := s.session.Query(insertConvoyCQL,
		cqlUUID(c.ConvoyID),
		c.ConvoyCallsign,
		cqlUUID(c.MissionID),
		string(c.MissionType),
		string(c.Status),
		c.CreatedAt,
		c.MissionStart,
		c.MissionEnd,
		c.AORName,
		c.AORCenter.Latitude,
		c.AORCenter.Longitude,
		c.AORRadiusKM,
		c.CommandingUnit,
		c.AuthorizationLevel,
		c.ROEProfile,
		cqlUUIDs(c.DroneIDs),
		c.DroneCount,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("insert_convoy", err)
	}
	return nil
}

// GetConvoy loads one convoy by primary key.
func (s *Store) GetConvoy(ctx context.Context, convoyID uuid.UUID) (*domain.Convoy, error) {
	var (
		c            domain.Convoy
		cid, mid     gocql.UUID
		missionType  string
		status       string
		missionStart time.Time
		missionEnd   time.Time
		droneIDs     []gocql.UUID
	)
	err := s.session.Query(selectConvoyCQL, cqlUUID(convoyID)).WithContext(ctx).Scan(
		&cid,
		&c.ConvoyCallsign,
		&mid,
		&missionType,
		&status,
		&c.CreatedAt,
		&missionStart,
		&missionEnd,
		&c.AORName,
		&c.AORCenter.Latitude,
		&c.AORCenter.Longitude,
		&c.AORRadiusKM,
		&c.CommandingUnit,
		&c.AuthorizationLevel,
		&c.ROEProfile,
		&droneIDs,
		&c.DroneCount,
	)
	if err != nil {
		return nil, wrapErr("get_convoy", err)
	}

	c.ConvoyID = uuid.UUID(cid)
	c.MissionID = uuid.UUID(mid)
	c.MissionType = domain.MissionType(missionType)
	c.Status = domain.ConvoyStatus(status)
	c.MissionStart = timePtr(missionStart)
	c.MissionEnd = timePtr(missionEnd)
	c.DroneIDs = domainUUIDs(droneIDs)
	return &c, nil
}

// UpdateConvoyStatus rewrites the status and the mission bounds in one
// statement. Callers pass the post-transition values.
func (s *Store) UpdateConvoyStatus(ctx context.Context, convoyID uuid.UUID, status domain.ConvoyStatus, missionStart, missionEnd *time.Time) error {
	err := s.session.Query(updateConvoyStatusCQL,
		string(status), missionStart, missionEnd, cqlUUID(convoyID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_convoy_status", err)
	}
	return nil
}

// UpdateConvoyRoster rewrites the embedded roster list and its count.
func (s *Store) UpdateConvoyRoster(ctx context.Context, convoyID uuid.UUID, droneIDs []uuid.UUID) error {
	err := s.session.Query(updateConvoyRosterCQL,
		cqlUUIDs(droneIDs), len(droneIDs), cqlUUID(convoyID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("update_convoy_roster", err)
	}
	return nil
}

// UpsertActiveConvoy registers a convoy in the by-status projection.
func (s *Store) UpsertActiveConvoy(ctx context.Context, c *domain.Convoy) error {
	err := s.session.Query(insertActiveConvoyCQL,
		string(c.Status),
		cqlUUID(c.ConvoyID),
		c.ConvoyCallsign,
		string(c.MissionType),
		c.DroneCount,
		c.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("upsert_active_convoy", err)
	}
	return nil
}

// RemoveActiveConvoy drops a convoy from the by-status projection for
// the given status partition.
func (s *Store) RemoveActiveConvoy(ctx context.Context, status domain.ConvoyStatus, convoyID uuid.UUID) error {
	err := s.session.Query(deleteActiveConvoyCQL,
		string(status), cqlUUID(convoyID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("remove_active_convoy", err)
	}
	return nil
}

// ListActiveConvoyIDs returns the IDs in the ACTIVE partition of the
// projection. Full rows come from GetConvoy.
func (s *Store) ListActiveConvoyIDs(ctx context.Context) ([]uuid.UUID, error) {
	iter := s.session.Query(selectActiveConvoysCQL, string(domain.ConvoyActive)).
		WithContext(ctx).Iter()

	var ids []uuid.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, uuid.UUID(id))
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr("list_active_convoys", err)
	}
	return ids, nil
}
