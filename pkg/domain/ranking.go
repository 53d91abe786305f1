package domain

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is the per-asset denormalized ranking row. The raw
// counters live in the cold tier's counter columns; this row is a
// last-writer-wins projection rebuilt from them on demand.
type LeaderboardEntry struct {
	ConvoyID         uuid.UUID    `json:"convoy_id"`
	DroneID          uuid.UUID    `json:"drone_id"`
	Callsign         string       `json:"callsign"`
	PlatformType     PlatformType `json:"platform_type"`
	AccuracyPct      float64      `json:"accuracy_pct"`
	TotalEngagements int          `json:"total_engagements"`
	SuccessfulHits   int          `json:"successful_hits"`
	CurrentStreak    int          `json:"current_streak"`
	BestStreak       int          `json:"best_streak"`
	Rank             int          `json:"rank"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Misses is the count of unsuccessful engagements.
func (e *LeaderboardEntry) Misses() int {
	return e.TotalEngagements - e.SuccessfulHits
}

// HitRate is the hit fraction in [0, 1].
func (e *LeaderboardEntry) HitRate() float64 {
	if e.TotalEngagements == 0 {
		return 0
	}
	return float64(e.SuccessfulHits) / float64(e.TotalEngagements)
}

// ApplyOutcome folds one engagement outcome into the entry: bumps the
// counters, advances or resets the streak, raises the best streak, and
// recomputes accuracy. The streak resets to zero on any miss and is never
// negative; the best streak is monotone non-decreasing.
func (e *LeaderboardEntry) ApplyOutcome(hit bool, at time.Time) {
	e.TotalEngagements++
	if hit {
		e.SuccessfulHits++
		e.CurrentStreak++
	} else {
		e.CurrentStreak = 0
	}
	if e.CurrentStreak > e.BestStreak {
		e.BestStreak = e.CurrentStreak
	}
	e.AccuracyPct = AccuracyPct(e.TotalEngagements, e.SuccessfulHits)
	e.UpdatedAt = at
}

// AccuracyPct computes 100 * hits / total rounded to two decimals, or 0
// when there are no engagements.
func AccuracyPct(total, hits int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(100 * float64(hits) / float64(total))
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortRanking orders entries by accuracy descending, ties broken by total
// engagements descending, then by drone ID ascending, and assigns ranks
// 1..N in that order.
func SortRanking(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.AccuracyPct != b.AccuracyPct {
			return a.AccuracyPct > b.AccuracyPct
		}
		if a.TotalEngagements != b.TotalEngagements {
			return a.TotalEngagements > b.TotalEngagements
		}
		return bytes.Compare(a.DroneID[:], b.DroneID[:]) < 0
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// AccuracyStats is the counter-backed view of an asset's record. The
// cold-tier counter columns are authoritative for the totals.
type AccuracyStats struct {
	TotalEngagements int64 `json:"total_engagements"`
	SuccessfulHits   int64 `json:"successful_hits"`
	CurrentStreak    int   `json:"current_streak"`
	BestStreak       int   `json:"best_streak"`
}

// AccuracyPct derives the percentage from the raw counters.
func (s AccuracyStats) AccuracyPct() float64 {
	return AccuracyPct(int(s.TotalEngagements), int(s.SuccessfulHits))
}
