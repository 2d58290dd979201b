package project

import "time"

// Project is a construction site. Owned by an external admin surface; the
// core reads it for its geofence definition.
type Project struct {
	ID        string
	Name      string
	Geofence  Geofence
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Geofence is the circular boundary around the site used to validate worker
// location.
type Geofence struct {
	Latitude        float64
	Longitude       float64
	RadiusMeters    float64
	AllowedVariance float64
}
