package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is not a
// real point on the globe (NaN, Inf, or out of range).
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two points in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// ValidCoordinate reports whether lat/lon form a usable point.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Fence is a circular geofence around a site coordinate.
type Fence struct {
	Latitude        float64
	Longitude       float64
	RadiusMeters    float64
	AllowedVariance float64
}

// FenceCheck is the result of testing a point against a Fence.
type FenceCheck struct {
	InsideGeofence bool    `json:"inside_geofence"`
	DistanceMeters float64 `json:"distance_meters"`
}

// CheckFence tests a worker coordinate against a fence. A point is inside when
// its distance from the center does not exceed radius plus allowed variance.
func CheckFence(lat, lon float64, fence Fence) (FenceCheck, error) {
	if !ValidCoordinate(lat, lon) || !ValidCoordinate(fence.Latitude, fence.Longitude) {
		return FenceCheck{}, ErrInvalidCoordinate
	}

	distance := HaversineDistance(lat, lon, fence.Latitude, fence.Longitude)

	return FenceCheck{
		InsideGeofence: distance <= fence.RadiusMeters+fence.AllowedVariance,
		DistanceMeters: distance,
	}, nil
}
