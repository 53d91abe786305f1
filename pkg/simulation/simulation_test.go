package simulation

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGenerateMissionPath(t *testing.T) {
	gen := KandaharGenerator(testRNG())
	route := gen.GenerateMissionPath(uuid.New())

	require.Len(t, route, domain.MissionWaypointCount)
	assert.Equal(t, "TAKEOFF", route[0].WaypointName)
	assert.Equal(t, "LANDING", route[len(route)-1].WaypointName)

	strikes := 0
	for i, wp := range route {
		assert.Equal(t, i+1, wp.SequenceNumber)
		assert.Equal(t, domain.WaypointPending, wp.Status)
		if wp.WaypointType == domain.WaypointStrike {
			strikes++
		}
		if wp.WaypointType == domain.WaypointLoiter {
			require.NotNil(t, wp.LoiterDurationMin)
			assert.GreaterOrEqual(t, *wp.LoiterDurationMin, 5)
		}
	}
	assert.Equal(t, 3, strikes)
}

func TestInterpolateMidpoint(t *testing.T) {
	from := domain.Coordinates{Latitude: 31.0, Longitude: 65.0, AltitudeM: 4000, SpeedMPS: 60}
	to := domain.Coordinates{Latitude: 32.0, Longitude: 66.0, AltitudeM: 6000, SpeedMPS: 80}

	mid := Interpolate(from, to, 0.5)
	assert.InDelta(t, 31.5, mid.Latitude, 1e-9)
	assert.InDelta(t, 65.5, mid.Longitude, 1e-9)
	assert.InDelta(t, 5000, mid.AltitudeM, 1e-9)
	assert.InDelta(t, 70, mid.SpeedMPS, 1e-9)
}

func TestInterpolateHeadingWrap(t *testing.T) {
	// 350 to 10 should pass through north, not swing the long way.
	h := interpolateHeading(350, 10, 0.5)
	assert.InDelta(t, 0, h, 1e-9)

	h = interpolateHeading(10, 350, 0.5)
	assert.InDelta(t, 0, h, 1e-9)
}

func TestHitProbabilityBounds(t *testing.T) {
	for _, weapon := range domain.AllWeaponTypes() {
		p := hitProbability(weapon, TypicalRangeKM(weapon)/2, 5000, 1.0, 1.0)
		assert.GreaterOrEqual(t, p, 0.1)
		assert.LessOrEqual(t, p, 0.99)
		assert.InDelta(t, BaseAccuracy(weapon), p, 1e-9)
	}

	// Beyond typical range the probability degrades.
	inRange := hitProbability(domain.WeaponAGM114Hellfire, 5, 5000, 1.0, 1.0)
	outOfRange := hitProbability(domain.WeaponAGM114Hellfire, 16, 5000, 1.0, 1.0)
	assert.Less(t, outOfRange, inRange)

	// Outside the altitude sweet spot too.
	lowAlt := hitProbability(domain.WeaponAGM114Hellfire, 5, 1000, 1.0, 1.0)
	assert.Less(t, lowAlt, inRange)
}

func TestEngagementSimulatorClamps(t *testing.T) {
	sim := NewEngagementSimulator(testRNG())
	sim.SetSkill(9.0)
	assert.Equal(t, 1.5, sim.skill)
	sim.SetSkill(0.0)
	assert.Equal(t, 0.5, sim.skill)
	sim.SetEnvironment(0.1)
	assert.Equal(t, 0.7, sim.env)

	e := sim.Simulate(uuid.New(), uuid.New(), "REAPER-01", 5000)
	assert.GreaterOrEqual(t, e.RangeKM, 0.5)
	assert.NotEqual(t, uuid.Nil, e.EngagementID)
	assert.Equal(t, "REAPER-01", e.Callsign)
}

func TestTelemetryGenerator(t *testing.T) {
	rng := testRNG()
	droneID := uuid.New()
	route := KandaharGenerator(rng).GenerateMissionPath(droneID)
	gen := NewTelemetryGenerator(droneID, route, rng)

	sample := gen.Next(0.0)
	require.NotNil(t, sample)
	assert.Equal(t, droneID, sample.DroneID)
	assert.Equal(t, 1, sample.CurrentWaypoint)
	assert.InDelta(t, 100.0, gen.FuelRemaining(), 0.5)

	for i := 0; i < 100; i++ {
		gen.Next(float64(i) / 100)
	}
	assert.Less(t, gen.FuelRemaining(), 100.0)

	end := gen.Next(1.0)
	require.NotNil(t, end)
	assert.Equal(t, domain.MissionWaypointCount, end.CurrentWaypoint)
	assert.Equal(t, 0.0, end.DistanceToNextKM)
}

func TestConvoySimulatorLifecycle(t *testing.T) {
	sim := NewConvoySimulator("REAPER", domain.MissionStrike, 4, testRNG())
	require.Len(t, sim.Drones, 4)
	assert.Equal(t, "REAPER-01", sim.Drones[0].Callsign)
	assert.Equal(t, "REAPER-04", sim.Drones[3].Callsign)
	assert.Equal(t, domain.ConvoyActive, sim.Status)

	// Platforms rotate through the roster.
	assert.NotEqual(t, sim.Drones[0].PlatformType, sim.Drones[1].PlatformType)

	// No weapons release outside the operations window.
	assert.Empty(t, sim.SimulateEngagements())

	sim.Advance(0.5)
	assert.Equal(t, domain.ConvoyActive, sim.Status)
	assert.Len(t, sim.GenerateTelemetry(), 4)

	sim.Advance(0.45)
	assert.Equal(t, domain.ConvoyRTB, sim.Status)

	sim.Advance(0.2)
	assert.Equal(t, domain.ConvoyComplete, sim.Status)
	assert.Equal(t, 100.0, sim.State().ProgressPct)
}

func TestConvoySimulatorEngagementWindow(t *testing.T) {
	sim := NewConvoySimulator("VIPER", domain.MissionStrike, 6, testRNG())
	sim.Advance(0.5)

	total := 0
	for i := 0; i < 50; i++ {
		for _, e := range sim.SimulateEngagements() {
			assert.Equal(t, sim.ConvoyID, e.ConvoyID)
			total++
		}
	}
	require.Positive(t, total)

	board := sim.Leaderboard()
	require.Len(t, board, 6)
	for i, entry := range board {
		assert.Equal(t, i+1, entry.Rank)
		if i > 0 {
			assert.LessOrEqual(t, entry.AccuracyPct, board[i-1].AccuracyPct)
		}
	}
}

func TestEngagementLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagements.jsonl")

	log, err := OpenEngagementLog(path)
	require.NoError(t, err)

	want := SimulatedEngagement{
		EngagementID: uuid.New(),
		ConvoyID:     uuid.New(),
		DroneID:      uuid.New(),
		Callsign:     "REAPER-01",
		WeaponType:   domain.WeaponAGM114Hellfire,
		TargetType:   domain.TargetVehicle,
		RangeKM:      5.5,
		AltitudeM:    5000,
		Hit:          true,
		Timestamp:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, log.Append(want))
	require.NoError(t, log.Append(want))
	require.NoError(t, log.Close())

	got, err := ReadEngagementLog(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want.EngagementID, got[0].EngagementID)
	assert.Equal(t, want.WeaponType, got[0].WeaponType)
	assert.True(t, got[0].Hit)
}
