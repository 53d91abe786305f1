package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// Kandahar AOR center, the default mission area.
const (
	KandaharLatitude   = 31.6289
	KandaharLongitude  = 65.7372
	DefaultAORRadiusKM = 50.0
	defaultAltitudeM   = 5000.0
)

// FlightPathGenerator produces mission routes inside an area of
// operations.
type FlightPathGenerator struct {
	center   domain.Coordinates
	radiusKM float64
	baseAltM float64
	rng      *rand.Rand
}

// NewFlightPathGenerator creates a generator centered on a location.
func NewFlightPathGenerator(center domain.Coordinates, radiusKM float64, rng *rand.Rand) *FlightPathGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &FlightPathGenerator{
		center:   center,
		radiusKM: radiusKM,
		baseAltM: center.AltitudeM,
		rng:      rng,
	}
}

// KandaharGenerator creates a generator for the Kandahar AOR.
func KandaharGenerator(rng *rand.Rand) *FlightPathGenerator {
	return NewFlightPathGenerator(domain.Coordinates{
		Latitude:  KandaharLatitude,
		Longitude: KandaharLongitude,
		AltitudeM: defaultAltitudeM,
	}, DefaultAORRadiusKM, rng)
}

// GenerateMissionPath builds the full 25-point route: takeoff, climb,
// ingress, operations area with loiter and strike points, egress,
// return to base, descent, landing.
func (g *FlightPathGenerator) GenerateMissionPath(droneID uuid.UUID) []domain.Waypoint {
	route := make([]domain.Waypoint, 0, domain.MissionWaypointCount)

	add := func(name string, wpType domain.WaypointType, loiterMin *int) {
		seq := len(route) + 1
		route = append(route, domain.Waypoint{
			DroneID:           droneID,
			SequenceNumber:    seq,
			WaypointID:        uuid.New(),
			WaypointName:      name,
			WaypointType:      wpType,
			Coordinates:       g.pointFor(wpType),
			LoiterDurationMin: loiterMin,
			AuthorizedActions: []string{},
			Status:            domain.WaypointPending,
		})
	}

	add("TAKEOFF", domain.WaypointNav, nil)
	add("CLIMB", domain.WaypointNav, nil)
	for i := 1; i <= 5; i++ {
		add(fmt.Sprintf("INGRESS-%d", i), domain.WaypointNav, nil)
	}
	for i := 1; i <= 9; i++ {
		wpType := domain.WaypointLoiter
		var loiter *int
		if i%3 == 0 {
			wpType = domain.WaypointStrike
		} else {
			minutes := 5 + g.rng.Intn(10)
			loiter = &minutes
		}
		add(fmt.Sprintf("OP-AREA-%d", i), wpType, loiter)
	}
	for i := 1; i <= 5; i++ {
		add(fmt.Sprintf("EGRESS-%d", i), domain.WaypointNav, nil)
	}
	for i := 1; i <= 2; i++ {
		add(fmt.Sprintf("RTB-%d", i), domain.WaypointNav, nil)
	}
	add("DESCENT", domain.WaypointNav, nil)
	add("LANDING", domain.WaypointNav, nil)

	return route
}

// pointFor generates coordinates inside the mission area, placed by
// mission phase.
func (g *FlightPathGenerator) pointFor(wpType domain.WaypointType) domain.Coordinates {
	var distanceFactor float64
	switch wpType {
	case domain.WaypointStrike, domain.WaypointLoiter:
		distanceFactor = 0.8
	default:
		distanceFactor = 0.3 + g.rng.Float64()*0.6
	}

	angle := g.rng.Float64() * 360.0
	distance := g.radiusKM * distanceFactor

	// Rough flat-earth offset; fine at AOR scale.
	latOffset := (distance / 111.0) * math.Cos(angle*math.Pi/180)
	lonOffset := (distance / 111.0) * math.Sin(angle*math.Pi/180)

	altitude := g.baseAltM + g.rng.NormFloat64()*200.0
	if wpType == domain.WaypointStrike {
		altitude = g.baseAltM + 500.0
	}

	var speed float64
	switch wpType {
	case domain.WaypointLoiter:
		speed = 45.0
	case domain.WaypointStrike:
		speed = 60.0
	default:
		speed = 70.0 + g.rng.Float64()*30.0
	}

	return domain.Coordinates{
		Latitude:   g.center.Latitude + latOffset,
		Longitude:  g.center.Longitude + lonOffset,
		AltitudeM:  math.Max(altitude, 0),
		HeadingDeg: g.rng.Float64() * 360.0,
		SpeedMPS:   speed,
	}
}

// Interpolate positions a drone between two waypoints at the given
// progress fraction.
func Interpolate(from, to domain.Coordinates, progress float64) domain.Coordinates {
	progress = math.Max(0, math.Min(1, progress))
	return domain.Coordinates{
		Latitude:   from.Latitude + (to.Latitude-from.Latitude)*progress,
		Longitude:  from.Longitude + (to.Longitude-from.Longitude)*progress,
		AltitudeM:  from.AltitudeM + (to.AltitudeM-from.AltitudeM)*progress,
		HeadingDeg: interpolateHeading(from.HeadingDeg, to.HeadingDeg, progress),
		SpeedMPS:   from.SpeedMPS + (to.SpeedMPS-from.SpeedMPS)*progress,
	}
}

// interpolateHeading handles the 359-to-0 wrap.
func interpolateHeading(from, to, progress float64) float64 {
	diff := math.Mod(to-from+540.0, 360.0) - 180.0
	return math.Mod(from+diff*progress+360.0, 360.0)
}
