package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKMIdentity(t *testing.T) {
	p := Coordinates{Latitude: 34.5553, Longitude: 69.2075}
	assert.InDelta(t, 0.0, p.DistanceKM(p), 1e-9)
}

func TestDistanceKMSymmetry(t *testing.T) {
	a := Coordinates{Latitude: 31.6289, Longitude: 65.7372}
	b := Coordinates{Latitude: 34.5553, Longitude: 69.2075}
	assert.InDelta(t, a.DistanceKM(b), b.DistanceKM(a), 1e-9)
}

func TestDistanceKMQuarterGreatCircle(t *testing.T) {
	equator := Coordinates{Latitude: 0, Longitude: 0}
	pole := Coordinates{Latitude: 90, Longitude: 0}
	assert.InDelta(t, 10007.54, equator.DistanceKM(pole), 0.01)
}

func TestDistanceKMOneDegreeLongitude(t *testing.T) {
	shooter := Coordinates{Latitude: 0, Longitude: 0}
	target := Coordinates{Latitude: 0, Longitude: 1}
	assert.InDelta(t, 111.19, shooter.DistanceKM(target), 0.01)
}

func TestDistanceKMTriangleInequality(t *testing.T) {
	a := Coordinates{Latitude: 31.6289, Longitude: 65.7372}
	b := Coordinates{Latitude: 34.5553, Longitude: 69.2075}
	c := Coordinates{Latitude: 33.9391, Longitude: 67.7100}

	ab := a.DistanceKM(b)
	bc := b.DistanceKM(c)
	ac := a.DistanceKM(c)
	assert.LessOrEqual(t, ac, ab+bc+1e-6)
}

func TestHaversineKMMatchesMethod(t *testing.T) {
	a := Coordinates{Latitude: 31.6289, Longitude: 65.7372}
	b := Coordinates{Latitude: 34.5553, Longitude: 69.2075}
	assert.InDelta(t, a.DistanceKM(b), HaversineKM(31.6289, 65.7372, 34.5553, 69.2075), 1e-9)
}
