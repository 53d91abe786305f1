package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConvoyTransitions(t *testing.T) {
	tests := []struct {
		from    ConvoyStatus
		to      ConvoyStatus
		allowed bool
	}{
		{ConvoyPlanning, ConvoyActive, true},
		{ConvoyPlanning, ConvoyRTB, false},
		{ConvoyPlanning, ConvoyComplete, false},
		{ConvoyActive, ConvoyRTB, true},
		{ConvoyActive, ConvoyAbort, true},
		{ConvoyActive, ConvoyComplete, false},
		{ConvoyRTB, ConvoyComplete, true},
		{ConvoyRTB, ConvoyAbort, true},
		{ConvoyComplete, ConvoyActive, false},
		{ConvoyAbort, ConvoyActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestConvoyTerminalStates(t *testing.T) {
	assert.True(t, ConvoyComplete.IsTerminal())
	assert.True(t, ConvoyAbort.IsTerminal())
	assert.False(t, ConvoyActive.IsTerminal())
	assert.False(t, ConvoyPlanning.IsTerminal())
}

func TestMissionDurationMin(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	unstarted := Convoy{}
	assert.Nil(t, unstarted.MissionDurationMin(now))

	start := now.Add(-90 * time.Minute)
	running := Convoy{MissionStart: &start}
	d := running.MissionDurationMin(now)
	assert.NotNil(t, d)
	assert.Equal(t, int64(90), *d)

	end := start.Add(45 * time.Minute)
	finished := Convoy{MissionStart: &start, MissionEnd: &end}
	d = finished.MissionDurationMin(now)
	assert.Equal(t, int64(45), *d)
}

func TestDroneDerivedFields(t *testing.T) {
	d := Drone{TotalEngagements: 4, SuccessfulHits: 3, FuelRemainingPct: 19.9}
	d.RecalculateAccuracy()
	assert.Equal(t, 75.0, d.AccuracyPct)
	assert.True(t, d.FuelCritical())

	d.FuelRemainingPct = 20.0
	assert.False(t, d.FuelCritical())

	d.TotalEngagements = 0
	d.SuccessfulHits = 0
	d.RecalculateAccuracy()
	assert.Equal(t, 0.0, d.AccuracyPct)
}

func TestDroneStatusIsAirborne(t *testing.T) {
	airborne := []DroneStatus{DroneAirborne, DroneLoiter, DroneIngress, DroneEgress}
	for _, s := range airborne {
		assert.True(t, s.IsAirborne(), "%s should be airborne", s)
	}
	grounded := []DroneStatus{DronePreflight, DroneRTB, DroneLanded, DroneMaintenance}
	for _, s := range grounded {
		assert.False(t, s.IsAirborne(), "%s should not be airborne", s)
	}
}

func TestTimeBucket(t *testing.T) {
	ts := time.Date(2025, 3, 7, 14, 35, 12, 0, time.UTC)
	assert.Equal(t, "2025030714", TimeBucket(ts))

	// Bucket is computed in UTC regardless of the input zone.
	zoned := ts.In(time.FixedZone("UTC+5", 5*3600))
	assert.Equal(t, "2025030714", TimeBucket(zoned))
}

func TestWaypointArrivalDelay(t *testing.T) {
	planned := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	actual := planned.Add(7 * time.Minute)

	wp := Waypoint{}
	assert.Nil(t, wp.ArrivalDelayMin())

	wp.PlannedArrival = &planned
	assert.Nil(t, wp.ArrivalDelayMin())

	wp.ActualArrival = &actual
	d := wp.ArrivalDelayMin()
	assert.NotNil(t, d)
	assert.Equal(t, int64(7), *d)
}

func TestAlertSeverityThresholds(t *testing.T) {
	tests := []struct {
		severity AlertSeverity
		min      AlertSeverity
		pass     bool
	}{
		{SeverityInfo, SeverityInfo, true},
		{SeverityWarning, SeverityInfo, true},
		{SeverityCritical, SeverityInfo, true},
		{SeverityInfo, SeverityWarning, false},
		{SeverityWarning, SeverityWarning, true},
		{SeverityCritical, SeverityWarning, true},
		{SeverityInfo, SeverityCritical, false},
		{SeverityWarning, SeverityCritical, false},
		{SeverityCritical, SeverityCritical, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pass, tt.severity.AtLeast(tt.min),
			"%s with min %s", tt.severity, tt.min)
	}
}

func TestParseEnums(t *testing.T) {
	_, err := ParsePlatformType("MQ9_REAPER")
	assert.NoError(t, err)
	_, err = ParsePlatformType("B52")
	assert.Error(t, err)

	_, err = ParseWeaponType("GBU12_PAVEWAY")
	assert.NoError(t, err)
	_, err = ParseWeaponType("SLINGSHOT")
	assert.Error(t, err)

	_, err = ParseConvoyStatus("RTB")
	assert.NoError(t, err)
	_, err = ParseConvoyStatus("PAUSED")
	assert.Error(t, err)

	_, err = ParseDamageAssessment("PENDING_BDA")
	assert.NoError(t, err)
	_, err = ParseAlertSeverity("FATAL")
	assert.Error(t, err)
}
