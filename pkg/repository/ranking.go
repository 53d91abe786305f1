// Package repository composes the hot and cold adapters into the
// entity-level persistence surface. Read and write paths are mediated
// by the strategy layer; the cold tier is authoritative throughout.
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

// rankingCold is the slice of the cold adapter the accuracy engine
// consumes.
type rankingCold interface {
	ListLeaderboard(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error)
	UpsertLeaderboardEntry(ctx context.Context, entry *domain.LeaderboardEntry, previousAccuracy *float64) error
	IncrementAccuracyCounters(ctx context.Context, convoyID, droneID uuid.UUID, hit bool) error
	GetAccuracyCounters(ctx context.Context, convoyID, droneID uuid.UUID) (total, hits int64, err error)
	ListConvoyCounters(ctx context.Context, convoyID uuid.UUID) ([]coldstore.CounterRow, error)
	UpdateDroneAccuracy(ctx context.Context, convoyID, droneID uuid.UUID, total, hits int, accuracyPct float64, updatedAt time.Time) error
}

// RankingRepository is the accuracy engine: authoritative counters in
// the cold tier, a denormalized ranking row per asset, and a hot sorted
// set for fast top-N reads.
type RankingRepository struct {
	cold rankingCold
	hot  *hotstore.Client
	log  *zap.Logger
}

// NewRankingRepository wires the engine. hot may be nil, in which case
// every read goes cold.
func NewRankingRepository(cold *coldstore.Store, hot *hotstore.Client, log *zap.Logger) *RankingRepository {
	return &RankingRepository{cold: cold, hot: hot, log: log.Named("ranking")}
}

// GetRanking returns the convoy ranking page, accuracy-descending with
// ranks assigned 1..N. Hot hits provide ordering and scores; the
// remaining fields are hydrated from the cold row set.
func (r *RankingRepository) GetRanking(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	key := hotstore.LeaderboardKey(convoyID.String())

	var cache strategy.CacheFn[[]domain.LeaderboardEntry]
	if r.hot != nil {
		cache = func(ctx context.Context) (*[]domain.LeaderboardEntry, error) {
			members, err := r.hot.GetRanking(ctx, convoyID.String(), int64(limit))
			if err != nil {
				return nil, err
			}
			if len(members) == 0 {
				return nil, nil
			}
			entries, err := r.hydrateRanking(ctx, convoyID, members)
			if err != nil {
				return nil, err
			}
			return &entries, nil
		}
	}

	store := func(ctx context.Context) ([]domain.LeaderboardEntry, error) {
		return r.cold.ListLeaderboard(ctx, convoyID, limit)
	}

	populate := func(ctx context.Context, entries []domain.LeaderboardEntry) error {
		if r.hot == nil {
			return nil
		}
		for _, e := range entries {
			if err := r.hot.UpdateRankScore(ctx, convoyID.String(), e.DroneID.String(), e.AccuracyPct); err != nil {
				return err
			}
		}
		return nil
	}

	return strategy.ReadValue(ctx, strategy.ReadCacheFirst, r.log, key, cache, store, populate)
}

// hydrateRanking merges the hot ordering with the cold field set.
// Assets missing from the cold page (mirror lag) keep score-only rows.
func (r *RankingRepository) hydrateRanking(ctx context.Context, convoyID uuid.UUID, members []hotstore.RankedMember) ([]domain.LeaderboardEntry, error) {
	coldEntries, err := r.cold.ListLeaderboard(ctx, convoyID, 0)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.LeaderboardEntry, len(coldEntries))
	for _, e := range coldEntries {
		byID[e.DroneID.String()] = e
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		entry, ok := byID[m.DroneID]
		if !ok {
			id, parseErr := uuid.Parse(m.DroneID)
			if parseErr != nil {
				continue
			}
			entry = domain.LeaderboardEntry{ConvoyID: convoyID, DroneID: id}
		}
		entry.AccuracyPct = domain.Round2(m.Score)
		entry.Rank = m.Rank
		entries = append(entries, entry)
	}
	return entries, nil
}

// RankOf returns an asset's 1-indexed rank, or nil when the asset has
// no ranking entry. Hot-first; falls back to scanning the cold page.
func (r *RankingRepository) RankOf(ctx context.Context, convoyID, droneID uuid.UUID) (*int, error) {
	if r.hot != nil {
		rank, err := r.hot.RankOf(ctx, convoyID.String(), droneID.String())
		if err != nil {
			r.log.Warn("hot rank lookup failed, falling back to cold",
				zap.String("convoy_id", convoyID.String()), zap.Error(err))
		} else if rank != nil {
			return rank, nil
		}
	}

	entries, err := r.cold.ListLeaderboard(ctx, convoyID, 100)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].DroneID == droneID {
			rank := i + 1
			return &rank, nil
		}
	}
	return nil, nil
}

// UpdateEntry folds one engagement outcome into the ranking. The
// counter increment is the authoritative write; the leaderboard row is
// a last-writer-wins denormalization on top of it.
func (r *RankingRepository) UpdateEntry(ctx context.Context, convoyID, droneID uuid.UUID, callsign string, platform domain.PlatformType, hit bool) (*domain.LeaderboardEntry, error) {
	now := time.Now().UTC()

	prev, err := r.droneEntry(ctx, convoyID, droneID)
	if err != nil {
		return nil, err
	}

	if err := r.cold.IncrementAccuracyCounters(ctx, convoyID, droneID, hit); err != nil {
		return nil, err
	}

	total, hits := r.counterValues(ctx, convoyID, droneID, hit)

	entry := domain.LeaderboardEntry{
		ConvoyID:     convoyID,
		DroneID:      droneID,
		Callsign:     callsign,
		PlatformType: platform,
	}
	var prevAccuracy *float64
	if prev != nil {
		entry.TotalEngagements = prev.TotalEngagements
		entry.SuccessfulHits = prev.SuccessfulHits
		entry.CurrentStreak = prev.CurrentStreak
		entry.BestStreak = prev.BestStreak
		if entry.Callsign == "" {
			entry.Callsign = prev.Callsign
		}
		if entry.PlatformType == "" {
			entry.PlatformType = prev.PlatformType
		}
		prevAccuracy = &prev.AccuracyPct
	}
	entry.ApplyOutcome(hit, now)

	// The counter columns are authoritative for the totals; fold them
	// over the local increment in case the denormalized row lagged.
	entry.TotalEngagements = int(total)
	entry.SuccessfulHits = int(hits)
	entry.AccuracyPct = domain.AccuracyPct(entry.TotalEngagements, entry.SuccessfulHits)

	if err := r.cold.UpsertLeaderboardEntry(ctx, &entry, prevAccuracy); err != nil {
		return nil, err
	}

	r.refreshHotRank(ctx, convoyID, &entry)
	if entry.Rank == 0 {
		if rank, rankErr := r.coldRank(ctx, convoyID, droneID); rankErr == nil && rank != nil {
			entry.Rank = *rank
		} else {
			entry.Rank = 1
		}
	}
	return &entry, nil
}

// counterValues reads the post-increment totals. The hot counter hash
// gives them in one atomic round trip; when the hot tier is down the
// authoritative cold counters answer instead.
func (r *RankingRepository) counterValues(ctx context.Context, convoyID, droneID uuid.UUID, hit bool) (total, hits int64) {
	if r.hot != nil {
		t, h, err := r.hot.IncrementEngagements(ctx, droneID.String(), hit)
		if err == nil {
			return t, h
		}
		r.log.Warn("hot counter increment failed, reading cold counters",
			zap.String("drone_id", droneID.String()), zap.Error(err))
	}

	t, h, err := r.cold.GetAccuracyCounters(ctx, convoyID, droneID)
	if err != nil {
		r.log.Warn("cold counter read failed after increment",
			zap.String("drone_id", droneID.String()), zap.Error(err))
		if hit {
			return 1, 1
		}
		return 1, 0
	}
	return t, h
}

// refreshHotRank updates the sorted-set score and back-fills the rank
// from the refreshed set. The convoy summary is invalidated because its
// aggregates just went stale.
func (r *RankingRepository) refreshHotRank(ctx context.Context, convoyID uuid.UUID, entry *domain.LeaderboardEntry) {
	if r.hot == nil {
		return
	}
	if err := r.hot.UpdateRankScore(ctx, convoyID.String(), entry.DroneID.String(), entry.AccuracyPct); err != nil {
		r.log.Warn("hot rank score update failed",
			zap.String("convoy_id", convoyID.String()), zap.Error(err))
		return
	}
	if rank, err := r.hot.RankOf(ctx, convoyID.String(), entry.DroneID.String()); err == nil && rank != nil {
		entry.Rank = *rank
	}
	if err := r.hot.Delete(ctx, hotstore.ConvoySummaryKey(convoyID.String())); err != nil {
		r.log.Warn("convoy summary invalidation failed",
			zap.String("convoy_id", convoyID.String()), zap.Error(err))
	}
}

// coldRank scans the cold ranking page for the asset's position. The
// page is capped at the store's 100-row limit; that horizon is the
// serving working set, so an asset ranked below it reports no rank.
func (r *RankingRepository) coldRank(ctx context.Context, convoyID, droneID uuid.UUID) (*int, error) {
	entries, err := r.cold.ListLeaderboard(ctx, convoyID, 100)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].DroneID == droneID {
			rank := i + 1
			return &rank, nil
		}
	}
	return nil, nil
}

// droneEntry finds an asset's current ranking row, or nil when the
// asset has not engaged yet. The cold store serves at most its 100-row
// page; an asset below that horizon is treated as new, so its streak
// restarts. Intentional: the ranking's working set is the top page.
func (r *RankingRepository) droneEntry(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.LeaderboardEntry, error) {
	entries, err := r.cold.ListLeaderboard(ctx, convoyID, 0)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].DroneID == droneID {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// Rebuild reconciles the denormalized ranking rows against the
// authoritative counters, rewrites drifted rows, re-ranks, and warms the
// hot tier. Returns the number of entries processed.
func (r *RankingRepository) Rebuild(ctx context.Context, convoyID uuid.UUID) (int, error) {
	if r.hot != nil {
		if err := r.hot.InvalidateConvoy(ctx, convoyID.String()); err != nil {
			r.log.Warn("convoy hot invalidation failed during rebuild",
				zap.String("convoy_id", convoyID.String()), zap.Error(err))
		}
	}

	entries, err := r.cold.ListLeaderboard(ctx, convoyID, 100)
	if err != nil {
		return 0, err
	}
	counters, err := r.cold.ListConvoyCounters(ctx, convoyID)
	if err != nil {
		return 0, err
	}

	byDrone := make(map[uuid.UUID]coldstore.CounterRow, len(counters))
	for _, row := range counters {
		byDrone[row.DroneID] = row
	}

	// Fold authoritative counters into the rows, adding rows for assets
	// that have counters but lost their denormalization.
	seen := make(map[uuid.UUID]bool, len(entries))
	merged := make([]domain.LeaderboardEntry, 0, len(counters))
	previous := make(map[uuid.UUID]float64, len(entries))
	for _, e := range entries {
		seen[e.DroneID] = true
		previous[e.DroneID] = e.AccuracyPct
		if row, ok := byDrone[e.DroneID]; ok {
			e.TotalEngagements = int(row.TotalEngagements)
			e.SuccessfulHits = int(row.SuccessfulHits)
			e.AccuracyPct = domain.AccuracyPct(e.TotalEngagements, e.SuccessfulHits)
		}
		merged = append(merged, e)
	}
	now := time.Now().UTC()
	for _, row := range counters {
		if seen[row.DroneID] {
			continue
		}
		merged = append(merged, domain.LeaderboardEntry{
			ConvoyID:         convoyID,
			DroneID:          row.DroneID,
			TotalEngagements: int(row.TotalEngagements),
			SuccessfulHits:   int(row.SuccessfulHits),
			AccuracyPct:      domain.AccuracyPct(int(row.TotalEngagements), int(row.SuccessfulHits)),
			UpdatedAt:        now,
		})
	}

	domain.SortRanking(merged)

	for i := range merged {
		e := &merged[i]
		var prevAccuracy *float64
		if p, ok := previous[e.DroneID]; ok {
			prevAccuracy = &p
		}
		e.UpdatedAt = now
		if err := r.cold.UpsertLeaderboardEntry(ctx, e, prevAccuracy); err != nil {
			return 0, err
		}
		if err := r.cold.UpdateDroneAccuracy(ctx, convoyID, e.DroneID, e.TotalEngagements, e.SuccessfulHits, e.AccuracyPct, now); err != nil {
			r.log.Warn("drone accuracy sync failed during rebuild",
				zap.String("drone_id", e.DroneID.String()), zap.Error(err))
		}
		if r.hot != nil {
			if err := r.hot.UpdateRankScore(ctx, convoyID.String(), e.DroneID.String(), e.AccuracyPct); err != nil {
				r.log.Warn("hot warm-up failed during rebuild",
					zap.String("drone_id", e.DroneID.String()), zap.Error(err))
			}
		}
	}

	r.log.Info("ranking rebuilt",
		zap.String("convoy_id", convoyID.String()),
		zap.Int("entries", len(merged)))
	return len(merged), nil
}

// Stats reads the authoritative counters for a single asset, folding in
// the streak fields from the ranking row when one exists.
func (r *RankingRepository) Stats(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.AccuracyStats, error) {
	total, hits, err := r.cold.GetAccuracyCounters(ctx, convoyID, droneID)
	if err != nil {
		if coldstore.IsNotFound(err) {
			return &domain.AccuracyStats{}, nil
		}
		return nil, err
	}
	stats := &domain.AccuracyStats{TotalEngagements: total, SuccessfulHits: hits}
	if entry, entryErr := r.droneEntry(ctx, convoyID, droneID); entryErr == nil && entry != nil {
		stats.CurrentStreak = entry.CurrentStreak
		stats.BestStreak = entry.BestStreak
	}
	return stats, nil
}
