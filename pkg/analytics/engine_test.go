package analytics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := New("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func testRecord(droneID, convoyID uuid.UUID, hit bool) EngagementRecord {
	targetType := "VEHICLE"
	rangeKM := 5.5
	altitudeM := 5000.0
	return EngagementRecord{
		EngagementID: uuid.New(),
		ConvoyID:     convoyID,
		DroneID:      droneID,
		Callsign:     "REAPER-01",
		PlatformType: "MQ9_REAPER",
		Hit:          hit,
		WeaponType:   "AGM114_HELLFIRE",
		TargetType:   &targetType,
		RangeKM:      &rangeKM,
		AltitudeM:    &altitudeM,
		Timestamp:    time.Now().UTC(),
	}
}

func TestIngestAndQuery(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	rec := testRecord(uuid.New(), uuid.New(), true)
	require.NoError(t, engine.Ingest(ctx, rec))

	weapons, err := engine.WeaponEffectiveness(ctx, nil)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	assert.Equal(t, "AGM114_HELLFIRE", weapons[0].WeaponType)
	assert.Equal(t, 100.0, weapons[0].AccuracyPct)
}

func TestIngestIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	rec := testRecord(uuid.New(), uuid.New(), true)
	require.NoError(t, engine.Ingest(ctx, rec))
	require.NoError(t, engine.Ingest(ctx, rec))

	weapons, err := engine.WeaponEffectiveness(ctx, nil)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	assert.Equal(t, int64(1), weapons[0].TotalEngagements)
}

func TestTopPerformersFloor(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	convoyID := uuid.New()
	thinDrone := uuid.New()
	for i := 0; i < 4; i++ {
		require.NoError(t, engine.Ingest(ctx, testRecord(thinDrone, convoyID, true)))
	}

	performers, err := engine.TopPerformers(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, performers, "assets under five engagements must not rank")

	qualifiedDrone := uuid.New()
	for i := 0; i < 5; i++ {
		require.NoError(t, engine.Ingest(ctx, testRecord(qualifiedDrone, convoyID, i%2 == 0)))
	}

	performers, err = engine.TopPerformers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, performers, 1)
	assert.Equal(t, qualifiedDrone, performers[0].DroneID)
	assert.Equal(t, int64(5), performers[0].TotalEngagements)
	assert.Equal(t, int64(3), performers[0].Hits)
}

func TestMissionSummary(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	empty, err := engine.MissionSummary(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, empty)

	convoyID := uuid.New()
	droneID := uuid.New()
	require.NoError(t, engine.Ingest(ctx, testRecord(droneID, convoyID, true)))
	require.NoError(t, engine.Ingest(ctx, testRecord(droneID, convoyID, false)))

	summary, err := engine.MissionSummary(ctx, convoyID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(1), summary.TotalDrones)
	assert.Equal(t, int64(2), summary.TotalEngagements)
	assert.Equal(t, int64(1), summary.TotalHits)
	assert.Equal(t, 50.0, summary.AccuracyPct)
	require.NotNil(t, summary.TopPerformer)
	assert.Equal(t, "REAPER-01", *summary.TopPerformer)
	require.NotNil(t, summary.MostUsedWeapon)
	assert.Equal(t, "AGM114_HELLFIRE", *summary.MostUsedWeapon)
}

func TestAccuracyBands(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	convoyID := uuid.New()
	low := testRecord(uuid.New(), convoyID, true)
	lowAlt := 2000.0
	low.AltitudeM = &lowAlt
	closeRange := 1.5
	low.RangeKM = &closeRange
	require.NoError(t, engine.Ingest(ctx, low))

	high := testRecord(uuid.New(), convoyID, false)
	highAlt := 8000.0
	high.AltitudeM = &highAlt
	farRange := 12.0
	high.RangeKM = &farRange
	require.NoError(t, engine.Ingest(ctx, high))

	altitude, err := engine.AccuracyByAltitude(ctx)
	require.NoError(t, err)
	require.Len(t, altitude, 2)
	assert.Equal(t, "Low (<3km)", altitude[0].Band)
	assert.Equal(t, 100.0, altitude[0].AccuracyPct)
	assert.Equal(t, "Very High (>7km)", altitude[1].Band)

	ranges, err := engine.AccuracyByRange(ctx)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "Close (<2km)", ranges[0].Band)
	assert.Equal(t, "Extended (>10km)", ranges[1].Band)
}

func TestAccuracyTrendRejectsUnknownInterval(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.AccuracyTrend(context.Background(), uuid.New(), "fortnight; DROP TABLE engagements")
	require.Error(t, err)
}

func TestEngagementCountsByDate(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	rec := testRecord(uuid.New(), uuid.New(), true)
	rec.Timestamp = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.Ingest(ctx, rec))

	counts, err := engine.EngagementCountsByDate(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "2026-03-14", counts[0].Date)
	assert.Equal(t, int64(1), counts[0].Count)
}

func TestReportMarkdown(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	convoyID := uuid.New()
	droneID := uuid.New()
	for i := 0; i < 5; i++ {
		require.NoError(t, engine.Ingest(ctx, testRecord(droneID, convoyID, true)))
	}

	report, err := engine.BuildReport(ctx, &convoyID)
	require.NoError(t, err)
	require.NotNil(t, report.MissionSummary)

	md := report.Markdown()
	assert.Contains(t, md, "# Drone Convoy Analytics Report")
	assert.Contains(t, md, "## Mission Summary")
	assert.Contains(t, md, "## Top Performers")
	assert.Contains(t, md, "*Classification: UNCLASSIFIED // FOUO*")

	summaryIdx := strings.Index(md, "## Mission Summary")
	performersIdx := strings.Index(md, "## Top Performers")
	weaponsIdx := strings.Index(md, "## Weapon Effectiveness")
	assert.True(t, summaryIdx < performersIdx && performersIdx < weaponsIdx)
}

func TestBufferFlush(t *testing.T) {
	engine := newTestEngine(t)
	buffer := NewBuffer(engine, 100, time.Minute, nil)

	buffer.Enqueue(testRecord(uuid.New(), uuid.New(), true))
	buffer.Enqueue(testRecord(uuid.New(), uuid.New(), false))
	assert.Equal(t, 2, buffer.PendingCount())

	require.NoError(t, buffer.Flush(context.Background()))
	assert.Equal(t, 0, buffer.PendingCount())

	weapons, err := engine.WeaponEffectiveness(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	assert.Equal(t, int64(2), weapons[0].TotalEngagements)
}
