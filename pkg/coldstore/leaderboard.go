package coldstore

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// CounterRow is one asset's authoritative engagement counters.
type CounterRow struct {
	DroneID          uuid.UUID
	TotalEngagements int64
	SuccessfulHits   int64
}

// ListLeaderboard pages the ranking rows for a convoy. The clustering
// key orders them accuracy-descending already; ranks are assigned in
// read order.
func (s *Store) ListLeaderboard(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	iter := s.session.Query(selectLeaderboardCQL, cqlUUID(convoyID), s.pageLimit(limit)).
		WithContext(ctx).Iter()

	var entries []domain.LeaderboardEntry
	var (
		cid, did     gocql.UUID
		platformType string
	)
	for {
		var e domain.LeaderboardEntry
		ok := iter.Scan(
			&cid,
			&e.AccuracyPct,
			&did,
			&e.Callsign,
			&platformType,
			&e.TotalEngagements,
			&e.SuccessfulHits,
			&e.CurrentStreak,
			&e.BestStreak,
			&e.Rank,
			&e.UpdatedAt,
		)
		if !ok {
			break
		}
		e.ConvoyID = uuid.UUID(cid)
		e.DroneID = uuid.UUID(did)
		e.PlatformType = domain.PlatformType(platformType)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr("list_leaderboard", err)
	}
	return entries, nil
}

// UpsertLeaderboardEntry writes the denormalized ranking row. Because
// accuracy_pct is a clustering column, a changed accuracy lands in a new
// row; the caller passes the previous accuracy so the stale row can be
// removed first.
func (s *Store) UpsertLeaderboardEntry(ctx context.Context, entry *domain.LeaderboardEntry, previousAccuracy *float64) error {
	if previousAccuracy != nil && *previousAccuracy != entry.AccuracyPct {
		err := s.session.Query(deleteLeaderboardEntryCQL,
			cqlUUID(entry.ConvoyID), *previousAccuracy, cqlUUID(entry.DroneID),
		).WithContext(ctx).Exec()
		if err != nil {
			return wrapErr("delete_leaderboard_entry", err)
		}
	}

	err := s.session.Query(insertLeaderboardEntryCQL,
		cqlUUID(entry.ConvoyID),
		entry.AccuracyPct,
		cqlUUID(entry.DroneID),
		entry.Callsign,
		string(entry.PlatformType),
		entry.TotalEngagements,
		entry.SuccessfulHits,
		entry.CurrentStreak,
		entry.BestStreak,
		entry.Rank,
		entry.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("upsert_leaderboard_entry", err)
	}
	return nil
}

// IncrementAccuracyCounters applies one engagement outcome to the
// counter table. Counter columns commute, so concurrent recorders never
// lose an increment.
func (s *Store) IncrementAccuracyCounters(ctx context.Context, convoyID, droneID uuid.UUID, hit bool) error {
	hitIncrement := 0
	if hit {
		hitIncrement = 1
	}
	err := s.session.Query(updateAccuracyCountersCQL,
		hitIncrement, cqlUUID(convoyID), cqlUUID(droneID),
	).WithContext(ctx).Exec()
	if err != nil {
		return wrapErr("increment_counters", err)
	}
	return nil
}

// GetAccuracyCounters reads one asset's authoritative counters.
func (s *Store) GetAccuracyCounters(ctx context.Context, convoyID, droneID uuid.UUID) (total, hits int64, err error) {
	err = s.session.Query(selectAccuracyCountersCQL,
		cqlUUID(convoyID), cqlUUID(droneID),
	).WithContext(ctx).Scan(&total, &hits)
	if err != nil {
		return 0, 0, wrapErr("get_counters", err)
	}
	return total, hits, nil
}

// ListConvoyCounters reads the counter partition for a convoy, feeding
// ranking rebuilds.
func (s *Store) ListConvoyCounters(ctx context.Context, convoyID uuid.UUID) ([]CounterRow, error) {
	iter := s.session.Query(selectConvoyCountersCQL, cqlUUID(convoyID)).WithContext(ctx).Iter()

	var rows []CounterRow
	var did gocql.UUID
	var row CounterRow
	for iter.Scan(&did, &row.TotalEngagements, &row.SuccessfulHits) {
		row.DroneID = uuid.UUID(did)
		rows = append(rows, row)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapErr("list_convoy_counters", err)
	}
	return rows, nil
}
