package simulation

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// SimulatedEngagement is one generated weapons release.
type SimulatedEngagement struct {
	EngagementID uuid.UUID           `json:"engagement_id"`
	ConvoyID     uuid.UUID           `json:"convoy_id"`
	DroneID      uuid.UUID           `json:"drone_id"`
	Callsign     string              `json:"callsign"`
	PlatformType domain.PlatformType `json:"platform_type,omitempty"`
	WeaponType   domain.WeaponType   `json:"weapon_type"`
	TargetType   domain.TargetType   `json:"target_type"`
	RangeKM      float64             `json:"range_km"`
	AltitudeM    float64             `json:"altitude_m"`
	Hit          bool                `json:"hit"`
	Timestamp    time.Time           `json:"timestamp"`
}

// EngagementSimulator rolls engagement outcomes for one asset.
type EngagementSimulator struct {
	skill float64
	env   float64
	rng   *rand.Rand
}

// NewEngagementSimulator creates a simulator with neutral modifiers.
func NewEngagementSimulator(rng *rand.Rand) *EngagementSimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &EngagementSimulator{skill: 1.0, env: 1.0, rng: rng}
}

// SetSkill sets the crew skill modifier, clamped to [0.5, 1.5].
func (s *EngagementSimulator) SetSkill(skill float64) {
	s.skill = math.Max(0.5, math.Min(1.5, skill))
}

// SetEnvironment sets the weather modifier, clamped to [0.7, 1.0].
func (s *EngagementSimulator) SetEnvironment(env float64) {
	s.env = math.Max(0.7, math.Min(1.0, env))
}

// Simulate generates one engagement at the given altitude. Range is the
// weapon's typical range plus noise, floored at 0.5 km.
func (s *EngagementSimulator) Simulate(convoyID, droneID uuid.UUID, callsign string, altitudeM float64) SimulatedEngagement {
	weapon := randomWeapon(s.rng)
	target := randomTarget(s.rng)

	rangeKM := math.Max(0.5, TypicalRangeKM(weapon)+s.rng.NormFloat64()*1.5)
	hit := s.rng.Float64() < hitProbability(weapon, rangeKM, altitudeM, s.skill, s.env)

	return SimulatedEngagement{
		EngagementID: uuid.New(),
		ConvoyID:     convoyID,
		DroneID:      droneID,
		Callsign:     callsign,
		WeaponType:   weapon,
		TargetType:   target,
		RangeKM:      domain.Round2(rangeKM),
		AltitudeM:    altitudeM,
		Hit:          hit,
		Timestamp:    time.Now().UTC(),
	}
}
