package simulation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// SimulatedDrone is one asset inside a convoy simulation.
type SimulatedDrone struct {
	DroneID      uuid.UUID
	Callsign     string
	PlatformType domain.PlatformType
	Route        []domain.Waypoint

	Telemetry   *TelemetryGenerator
	Engagements *EngagementSimulator

	TotalEngagements int
	SuccessfulHits   int
}

// AccuracyPct is the asset's running hit percentage.
func (d *SimulatedDrone) AccuracyPct() float64 {
	return domain.AccuracyPct(d.TotalEngagements, d.SuccessfulHits)
}

// ConvoyState is a snapshot of convoy simulation progress.
type ConvoyState struct {
	ConvoyID    uuid.UUID           `json:"convoy_id"`
	Callsign    string              `json:"callsign"`
	MissionType domain.MissionType  `json:"mission_type"`
	Status      domain.ConvoyStatus `json:"status"`
	StartTime   time.Time           `json:"start_time"`
	DroneCount  int                 `json:"drone_count"`
	ProgressPct float64             `json:"progress_pct"`
}

// LocalRanking is one entry of the simulator's local leaderboard.
type LocalRanking struct {
	Rank             int                 `json:"rank"`
	DroneID          uuid.UUID           `json:"drone_id"`
	Callsign         string              `json:"callsign"`
	PlatformType     domain.PlatformType `json:"platform_type"`
	AccuracyPct      float64             `json:"accuracy_pct"`
	TotalEngagements int                 `json:"total_engagements"`
	SuccessfulHits   int                 `json:"successful_hits"`
}

// ConvoySimulator drives a convoy of assets through a mission: route
// progress, telemetry, and engagement rolls in the operations window.
type ConvoySimulator struct {
	ConvoyID    uuid.UUID
	Callsign    string
	MissionType domain.MissionType
	Drones      []*SimulatedDrone
	Status      domain.ConvoyStatus
	StartTime   time.Time

	progress float64
	rng      *rand.Rand
}

// NewConvoySimulator builds a convoy with generated assets. Callsigns
// follow the "%s-%02d" pattern; platforms rotate through the roster.
func NewConvoySimulator(callsign string, missionType domain.MissionType, droneCount int, rng *rand.Rand) *ConvoySimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	platforms := domain.AllPlatformTypes()
	flightGen := KandaharGenerator(rng)

	drones := make([]*SimulatedDrone, 0, droneCount)
	for i := 0; i < droneCount; i++ {
		droneID := uuid.New()
		route := flightGen.GenerateMissionPath(droneID)
		drones = append(drones, &SimulatedDrone{
			DroneID:      droneID,
			Callsign:     fmt.Sprintf("%s-%02d", callsign, i+1),
			PlatformType: platforms[i%len(platforms)],
			Route:        route,
			Telemetry:    NewTelemetryGenerator(droneID, route, rng),
			Engagements:  NewEngagementSimulator(rng),
		})
	}

	return &ConvoySimulator{
		ConvoyID:    uuid.New(),
		Callsign:    callsign,
		MissionType: missionType,
		Drones:      drones,
		Status:      domain.ConvoyActive,
		StartTime:   time.Now().UTC(),
		rng:         rng,
	}
}

// Advance moves mission progress forward. The convoy turns RTB at 90
// percent and completes at 100.
func (c *ConvoySimulator) Advance(delta float64) {
	c.progress = math.Min(1.0, c.progress+delta)
	if c.progress >= 1.0 {
		c.Status = domain.ConvoyComplete
	} else if c.progress >= 0.9 {
		c.Status = domain.ConvoyRTB
	}
}

// State snapshots the convoy.
func (c *ConvoySimulator) State() ConvoyState {
	return ConvoyState{
		ConvoyID:    c.ConvoyID,
		Callsign:    c.Callsign,
		MissionType: c.MissionType,
		Status:      c.Status,
		StartTime:   c.StartTime,
		DroneCount:  len(c.Drones),
		ProgressPct: domain.Round2(c.progress * 100),
	}
}

// GenerateTelemetry produces one sample per asset at current progress.
func (c *ConvoySimulator) GenerateTelemetry() []domain.Telemetry {
	samples := make([]domain.Telemetry, 0, len(c.Drones))
	for _, d := range c.Drones {
		if t := d.Telemetry.Next(c.progress); t != nil {
			samples = append(samples, *t)
		}
	}
	return samples
}

// SimulateEngagements rolls engagements for the tick. Weapons are only
// released in the middle mission phase (25-75 percent progress), and
// each asset has a 30 percent chance per tick.
func (c *ConvoySimulator) SimulateEngagements() []SimulatedEngagement {
	if c.progress < 0.25 || c.progress > 0.75 {
		return nil
	}

	var engagements []SimulatedEngagement
	for _, d := range c.Drones {
		if c.rng.Float64() > 0.3 {
			continue
		}

		altitude := defaultAltitudeM
		if idx := d.Telemetry.CurrentWaypoint(); idx < len(d.Route) {
			altitude = d.Route[idx].Coordinates.AltitudeM
		}

		e := d.Engagements.Simulate(c.ConvoyID, d.DroneID, d.Callsign, altitude)
		e.PlatformType = d.PlatformType
		d.TotalEngagements++
		if e.Hit {
			d.SuccessfulHits++
		}
		engagements = append(engagements, e)
	}
	return engagements
}

// Leaderboard ranks the convoy's assets by local accuracy.
func (c *ConvoySimulator) Leaderboard() []LocalRanking {
	entries := make([]LocalRanking, 0, len(c.Drones))
	for _, d := range c.Drones {
		entries = append(entries, LocalRanking{
			DroneID:          d.DroneID,
			Callsign:         d.Callsign,
			PlatformType:     d.PlatformType,
			AccuracyPct:      d.AccuracyPct(),
			TotalEngagements: d.TotalEngagements,
			SuccessfulHits:   d.SuccessfulHits,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AccuracyPct != entries[j].AccuracyPct {
			return entries[i].AccuracyPct > entries[j].AccuracyPct
		}
		return entries[i].TotalEngagements > entries[j].TotalEngagements
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
