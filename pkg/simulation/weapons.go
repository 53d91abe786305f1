package simulation

import (
	"math"
	"math/rand"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// weaponProfile holds the ballistic model for one weapon.
type weaponProfile struct {
	baseAccuracy   float64
	typicalRangeKM float64
}

var weaponProfiles = map[domain.WeaponType]weaponProfile{
	domain.WeaponAGM114Hellfire:  {baseAccuracy: 0.92, typicalRangeKM: 8.0},
	domain.WeaponGBU12Paveway:    {baseAccuracy: 0.88, typicalRangeKM: 12.0},
	domain.WeaponAIM9XSidewinder: {baseAccuracy: 0.85, typicalRangeKM: 5.0},
	domain.WeaponGBU38JDAM:       {baseAccuracy: 0.90, typicalRangeKM: 15.0},
	domain.WeaponAGM176Griffin:   {baseAccuracy: 0.87, typicalRangeKM: 6.0},
}

// BaseAccuracy returns the weapon's accuracy inside its typical range.
func BaseAccuracy(weapon domain.WeaponType) float64 {
	return weaponProfiles[weapon].baseAccuracy
}

// TypicalRangeKM returns the weapon's typical engagement range.
func TypicalRangeKM(weapon domain.WeaponType) float64 {
	return weaponProfiles[weapon].typicalRangeKM
}

// randomWeapon picks a weapon uniformly.
func randomWeapon(rng *rand.Rand) domain.WeaponType {
	weapons := domain.AllWeaponTypes()
	return weapons[rng.Intn(len(weapons))]
}

// randomTarget picks a target type uniformly.
func randomTarget(rng *rand.Rand) domain.TargetType {
	targets := domain.AllTargetTypes()
	return targets[rng.Intn(len(targets))]
}

// hitProbability models a shot: base accuracy degraded beyond typical
// range, slightly degraded outside the 3-6 km altitude sweet spot,
// scaled by skill and environment, clamped to [0.1, 0.99].
func hitProbability(weapon domain.WeaponType, rangeKM, altitudeM, skill, env float64) float64 {
	profile := weaponProfiles[weapon]

	rangeFactor := 1.0
	if rangeKM > profile.typicalRangeKM {
		rangeFactor = math.Pow(profile.typicalRangeKM/rangeKM, 0.5)
	}

	altFactor := 1.0
	if altitudeM < 3000.0 || altitudeM > 6000.0 {
		altFactor = 0.95
	}

	p := profile.baseAccuracy * rangeFactor * altFactor * skill * env
	return math.Max(0.1, math.Min(0.99, p))
}
