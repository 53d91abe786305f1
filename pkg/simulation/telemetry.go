package simulation

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// TelemetryGenerator produces telemetry samples for one asset as it
// moves along its route.
type TelemetryGenerator struct {
	droneID      uuid.UUID
	route        []domain.Waypoint
	currentIdx   int
	fuelPct      float64
	baseFuelBurn float64
	rng          *rand.Rand
}

// NewTelemetryGenerator creates a generator for one asset's route.
func NewTelemetryGenerator(droneID uuid.UUID, route []domain.Waypoint, rng *rand.Rand) *TelemetryGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &TelemetryGenerator{
		droneID:      droneID,
		route:        route,
		fuelPct:      100.0,
		baseFuelBurn: 0.02,
		rng:          rng,
	}
}

// Next produces one sample at the given mission progress fraction.
// Returns nil when the route is empty.
func (g *TelemetryGenerator) Next(progress float64) *domain.Telemetry {
	if len(g.route) == 0 {
		return nil
	}

	totalSegments := len(g.route) - 1
	segmentProgress := progress * float64(totalSegments)
	g.currentIdx = int(math.Min(segmentProgress, float64(totalSegments)))

	current := g.route[g.currentIdx]
	position := current.Coordinates
	distanceToNextKM := 0.0
	if g.currentIdx < totalSegments {
		next := g.route[g.currentIdx+1]
		local := segmentProgress - math.Floor(segmentProgress)
		position = Interpolate(current.Coordinates, next.Coordinates, local)
		distanceToNextKM = position.DistanceKM(next.Coordinates)
	}

	g.fuelPct = math.Max(0, g.fuelPct-g.baseFuelBurn*(1.0+g.rng.NormFloat64()*0.1))

	now := time.Now().UTC()
	return &domain.Telemetry{
		DroneID:          g.droneID,
		TimeBucket:       domain.TimeBucket(now),
		RecordedAt:       now,
		Position:         position,
		VelocityMPS:      position.SpeedMPS + g.rng.NormFloat64()*2.0,
		AccelerationMPS2: g.rng.NormFloat64() * 0.5,
		BankAngleDeg:     g.rng.NormFloat64() * 3.0,
		PitchAngleDeg:    g.rng.NormFloat64() * 2.0,
		CurrentWaypoint:  current.SequenceNumber,
		DistanceToNextKM: domain.Round2(distanceToNextKM),
		FuelRemainingPct: domain.Round2(g.fuelPct),
		EngineRPM:        5500 + g.rng.Intn(500),
		EngineTempC:      85.0 + g.rng.NormFloat64()*5.0,
		BatteryVoltage:   24.0 + g.rng.NormFloat64()*0.5,
		WindSpeedMPS:     math.Abs(g.rng.NormFloat64() * 4.0),
		WindDirectionDeg: g.rng.Float64() * 360.0,
		TemperatureC:     15.0 + g.rng.NormFloat64()*8.0,
		VisibilityKM:     math.Max(1, 10.0+g.rng.NormFloat64()*3.0),
		MeshConnectivity: math.Max(0, math.Min(1, 0.9+g.rng.NormFloat64()*0.1)),
	}
}

// FuelRemaining reports the current fuel level.
func (g *TelemetryGenerator) FuelRemaining() float64 {
	return g.fuelPct
}

// FuelCritical reports whether fuel is below the 20 percent floor.
func (g *TelemetryGenerator) FuelCritical() bool {
	return g.fuelPct < 20.0
}

// CurrentWaypoint reports the active route index.
func (g *TelemetryGenerator) CurrentWaypoint() int {
	return g.currentIdx
}
