package domain

import "math"

// EarthRadiusKM is the mean Earth radius used for great-circle math.
const EarthRadiusKM = 6371.0

// Coordinates is a geographic position with flight vector. Latitude and
// longitude are decimal degrees, altitude is meters above sea level,
// heading is degrees clockwise from true north, speed is meters per second.
type Coordinates struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeM  float64 `json:"altitude_m"`
	HeadingDeg float64 `json:"heading_deg"`
	SpeedMPS   float64 `json:"speed_mps"`
}

// DistanceKM returns the great-circle distance to another position in
// kilometers using the haversine formulation. Altitude is ignored.
func (c Coordinates) DistanceKM(other Coordinates) float64 {
	lat1 := c.Latitude * math.Pi / 180.0
	lat2 := other.Latitude * math.Pi / 180.0
	dLat := (other.Latitude - c.Latitude) * math.Pi / 180.0
	dLon := (other.Longitude - c.Longitude) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HaversineKM is the free-function form of DistanceKM taking raw degrees.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	return Coordinates{Latitude: lat1, Longitude: lon1}.
		DistanceKM(Coordinates{Latitude: lat2, Longitude: lon2})
}
