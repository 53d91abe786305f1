package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccuracyPoint is one bucket of an accuracy trend.
type AccuracyPoint struct {
	Period           string  `json:"period"`
	TotalEngagements int64   `json:"total_engagements"`
	Hits             int64   `json:"hits"`
	AccuracyPct      float64 `json:"accuracy_pct"`
}

// WeaponStats is per-weapon effectiveness.
type WeaponStats struct {
	WeaponType       string   `json:"weapon_type"`
	TotalEngagements int64    `json:"total_engagements"`
	Hits             int64    `json:"hits"`
	AccuracyPct      float64  `json:"accuracy_pct"`
	AvgRangeKM       *float64 `json:"avg_range_km,omitempty"`
}

// DronePerformance is one asset's aggregate performance.
type DronePerformance struct {
	DroneID          uuid.UUID `json:"drone_id"`
	Callsign         string    `json:"callsign"`
	PlatformType     string    `json:"platform_type"`
	TotalEngagements int64     `json:"total_engagements"`
	Hits             int64     `json:"hits"`
	AccuracyPct      float64   `json:"accuracy_pct"`
}

// HourlyStats is the engagement distribution for one hour of day.
type HourlyStats struct {
	Hour             int     `json:"hour"`
	TotalEngagements int64   `json:"total_engagements"`
	Hits             int64   `json:"hits"`
	AccuracyPct      float64 `json:"accuracy_pct"`
}

// MissionSummary is the rollup for one convoy.
type MissionSummary struct {
	ConvoyID         uuid.UUID `json:"convoy_id"`
	TotalDrones      int64     `json:"total_drones"`
	TotalEngagements int64     `json:"total_engagements"`
	TotalHits        int64     `json:"total_hits"`
	AccuracyPct      float64   `json:"accuracy_pct"`
	TopPerformer     *string   `json:"top_performer,omitempty"`
	MostUsedWeapon   *string   `json:"most_used_weapon,omitempty"`
}

// PlatformComparison is per-platform aggregate performance.
type PlatformComparison struct {
	PlatformType          string  `json:"platform_type"`
	DroneCount            int64   `json:"drone_count"`
	TotalEngagements      int64   `json:"total_engagements"`
	AccuracyPct           float64 `json:"accuracy_pct"`
	AvgEngagementsPerDrone float64 `json:"avg_engagements_per_drone"`
}

// BandAccuracy pairs a band label with its hit percentage.
type BandAccuracy struct {
	Band        string  `json:"band"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// DateCount pairs a calendar date with its engagement count.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// trendIntervals is the allowed set of date_trunc buckets. The interval
// is interpolated into SQL, so anything else is rejected.
var trendIntervals = map[string]bool{
	"minute": true,
	"hour":   true,
	"day":    true,
	"week":   true,
	"month":  true,
	"year":   true,
}

// AccuracyTrend buckets one asset's accuracy by the given interval.
func (e *Engine) AccuracyTrend(ctx context.Context, droneID uuid.UUID, interval string) ([]AccuracyPoint, error) {
	if !trendIntervals[interval] {
		return nil, fmt.Errorf("unsupported trend interval %q", interval)
	}
	query := fmt.Sprintf(`
		SELECT
		    CAST(date_trunc('%s', timestamp) AS VARCHAR) AS period,
		    COUNT(*) AS total,
		    SUM(CASE WHEN hit THEN 1 ELSE 0 END) AS hits,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy
		FROM engagements
		WHERE drone_id = ?
		GROUP BY period
		ORDER BY period`, interval)

	rows, err := e.db.QueryContext(ctx, query, droneID.String())
	if err != nil {
		return nil, fmt.Errorf("accuracy trend query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []AccuracyPoint
	for rows.Next() {
		var p AccuracyPoint
		if err := rows.Scan(&p.Period, &p.TotalEngagements, &p.Hits, &p.AccuracyPct); err != nil {
			return nil, fmt.Errorf("accuracy trend scan failed: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// WeaponEffectiveness aggregates hit rates per weapon, optionally
// scoped to one convoy.
func (e *Engine) WeaponEffectiveness(ctx context.Context, convoyID *uuid.UUID) ([]WeaponStats, error) {
	query := `
		SELECT
		    weapon_type,
		    COUNT(*) AS total,
		    SUM(CASE WHEN hit THEN 1 ELSE 0 END) AS hits,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy,
		    ROUND(AVG(range_km), 2) AS avg_range
		FROM engagements`
	var args []interface{}
	if convoyID != nil {
		query += ` WHERE convoy_id = ?`
		args = append(args, convoyID.String())
	}
	query += `
		GROUP BY weapon_type
		ORDER BY accuracy DESC`

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("weapon effectiveness query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []WeaponStats
	for rows.Next() {
		var s WeaponStats
		var avgRange sql.NullFloat64
		if err := rows.Scan(&s.WeaponType, &s.TotalEngagements, &s.Hits, &s.AccuracyPct, &avgRange); err != nil {
			return nil, fmt.Errorf("weapon effectiveness scan failed: %w", err)
		}
		if avgRange.Valid {
			s.AvgRangeKM = &avgRange.Float64
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopPerformers ranks assets by accuracy. Assets with fewer than five
// engagements are excluded so a lucky streak cannot top the board.
func (e *Engine) TopPerformers(ctx context.Context, limit int) ([]DronePerformance, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT
		    drone_id,
		    callsign,
		    platform_type,
		    COUNT(*) AS total,
		    SUM(CASE WHEN hit THEN 1 ELSE 0 END) AS hits,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy
		FROM engagements
		GROUP BY drone_id, callsign, platform_type
		HAVING COUNT(*) >= 5
		ORDER BY accuracy DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top performers query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var performers []DronePerformance
	for rows.Next() {
		var p DronePerformance
		var id string
		if err := rows.Scan(&id, &p.Callsign, &p.PlatformType, &p.TotalEngagements, &p.Hits, &p.AccuracyPct); err != nil {
			return nil, fmt.Errorf("top performers scan failed: %w", err)
		}
		p.DroneID, _ = uuid.Parse(id)
		performers = append(performers, p)
	}
	return performers, rows.Err()
}

// HourlyDistribution buckets engagements by hour of day (0-23).
func (e *Engine) HourlyDistribution(ctx context.Context) ([]HourlyStats, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT
		    EXTRACT(HOUR FROM timestamp) AS hour,
		    COUNT(*) AS total,
		    SUM(CASE WHEN hit THEN 1 ELSE 0 END) AS hits,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy
		FROM engagements
		GROUP BY hour
		ORDER BY hour`)
	if err != nil {
		return nil, fmt.Errorf("hourly distribution query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []HourlyStats
	for rows.Next() {
		var s HourlyStats
		if err := rows.Scan(&s.Hour, &s.TotalEngagements, &s.Hits, &s.AccuracyPct); err != nil {
			return nil, fmt.Errorf("hourly distribution scan failed: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// MissionSummary rolls up one convoy: distinct assets, totals, the top
// performer by hit rate, and the most used weapon. Returns nil when the
// convoy has no engagements.
func (e *Engine) MissionSummary(ctx context.Context, convoyID uuid.UUID) (*MissionSummary, error) {
	row := e.db.QueryRowContext(ctx, `
		WITH mission_stats AS (
		    SELECT
		        convoy_id,
		        COUNT(DISTINCT drone_id) AS total_drones,
		        COUNT(*) AS total_engagements,
		        SUM(CASE WHEN hit THEN 1 ELSE 0 END) AS total_hits
		    FROM engagements
		    WHERE convoy_id = ?
		    GROUP BY convoy_id
		),
		top_drone AS (
		    SELECT callsign
		    FROM engagements
		    WHERE convoy_id = ?
		    GROUP BY callsign
		    ORDER BY SUM(CASE WHEN hit THEN 1 ELSE 0 END)::FLOAT / COUNT(*) DESC
		    LIMIT 1
		),
		top_weapon AS (
		    SELECT weapon_type
		    FROM engagements
		    WHERE convoy_id = ?
		    GROUP BY weapon_type
		    ORDER BY COUNT(*) DESC
		    LIMIT 1
		)
		SELECT
		    m.total_drones,
		    m.total_engagements,
		    m.total_hits,
		    ROUND(100.0 * m.total_hits / NULLIF(m.total_engagements, 0), 2) AS accuracy,
		    d.callsign AS top_performer,
		    w.weapon_type AS most_used_weapon
		FROM mission_stats m
		LEFT JOIN top_drone d ON 1=1
		LEFT JOIN top_weapon w ON 1=1`,
		convoyID.String(), convoyID.String(), convoyID.String())

	summary := MissionSummary{ConvoyID: convoyID}
	var accuracy sql.NullFloat64
	var topPerformer, mostUsedWeapon sql.NullString
	err := row.Scan(&summary.TotalDrones, &summary.TotalEngagements, &summary.TotalHits,
		&accuracy, &topPerformer, &mostUsedWeapon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mission summary query failed: %w", err)
	}
	summary.AccuracyPct = accuracy.Float64
	if topPerformer.Valid {
		summary.TopPerformer = &topPerformer.String
	}
	if mostUsedWeapon.Valid {
		summary.MostUsedWeapon = &mostUsedWeapon.String
	}
	return &summary, nil
}

// PlatformComparison aggregates performance per platform type.
func (e *Engine) PlatformComparison(ctx context.Context) ([]PlatformComparison, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT
		    platform_type,
		    COUNT(DISTINCT drone_id) AS drone_count,
		    COUNT(*) AS total_engagements,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy,
		    ROUND(COUNT(*)::FLOAT / COUNT(DISTINCT drone_id), 2) AS avg_per_drone
		FROM engagements
		GROUP BY platform_type
		ORDER BY accuracy DESC`)
	if err != nil {
		return nil, fmt.Errorf("platform comparison query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comparisons []PlatformComparison
	for rows.Next() {
		var c PlatformComparison
		if err := rows.Scan(&c.PlatformType, &c.DroneCount, &c.TotalEngagements,
			&c.AccuracyPct, &c.AvgEngagementsPerDrone); err != nil {
			return nil, fmt.Errorf("platform comparison scan failed: %w", err)
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, rows.Err()
}

// AccuracyByAltitude buckets accuracy into fixed altitude bands. Rows
// with no recorded altitude are excluded.
func (e *Engine) AccuracyByAltitude(ctx context.Context) ([]BandAccuracy, error) {
	return e.bandQuery(ctx, `
		SELECT
		    CASE
		        WHEN altitude_m < 3000 THEN 'Low (<3km)'
		        WHEN altitude_m < 5000 THEN 'Medium (3-5km)'
		        WHEN altitude_m < 7000 THEN 'High (5-7km)'
		        ELSE 'Very High (>7km)'
		    END AS altitude_band,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy
		FROM engagements
		WHERE altitude_m IS NOT NULL
		GROUP BY altitude_band
		ORDER BY MIN(altitude_m)`)
}

// AccuracyByRange buckets accuracy into fixed range-to-target bands.
// Rows with no recorded range are excluded.
func (e *Engine) AccuracyByRange(ctx context.Context) ([]BandAccuracy, error) {
	return e.bandQuery(ctx, `
		SELECT
		    CASE
		        WHEN range_km < 2 THEN 'Close (<2km)'
		        WHEN range_km < 5 THEN 'Medium (2-5km)'
		        WHEN range_km < 10 THEN 'Long (5-10km)'
		        ELSE 'Extended (>10km)'
		    END AS range_band,
		    ROUND(100.0 * SUM(CASE WHEN hit THEN 1 ELSE 0 END) / COUNT(*), 2) AS accuracy
		FROM engagements
		WHERE range_km IS NOT NULL
		GROUP BY range_band
		ORDER BY MIN(range_km)`)
}

func (e *Engine) bandQuery(ctx context.Context, query string) ([]BandAccuracy, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("band query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bands []BandAccuracy
	for rows.Next() {
		var b BandAccuracy
		if err := rows.Scan(&b.Band, &b.AccuracyPct); err != nil {
			return nil, fmt.Errorf("band scan failed: %w", err)
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

// EngagementCountsByDate counts engagements per calendar date inside
// the given window.
func (e *Engine) EngagementCountsByDate(ctx context.Context, start, end time.Time) ([]DateCount, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT
		    CAST(CAST(timestamp AS DATE) AS VARCHAR) AS date,
		    COUNT(*) AS count
		FROM engagements
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY date
		ORDER BY date`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("date counts query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []DateCount
	for rows.Next() {
		var c DateCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("date counts scan failed: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
