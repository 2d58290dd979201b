package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{"same point", -6.2, 106.8, -6.2, 106.8, 0, 0.01},
		{"jakarta to surabaya", -6.2088, 106.8456, -7.2575, 112.7521, 662000, 10000},
		{"one degree latitude", 0, 0, 1, 0, 111195, 100},
	}
	for _, c := range cases {
		got := HaversineDistance(c.lat1, c.lon1, c.lat2, c.lon2)
		if math.Abs(got-c.want) > c.tolerance {
			t.Errorf("%s: HaversineDistance = %f, want %f (+/- %f)", c.name, got, c.want, c.tolerance)
		}
	}
}

func TestCheckFence(t *testing.T) {
	fence := Fence{Latitude: -6.2000, Longitude: 106.8000, RadiusMeters: 100, AllowedVariance: 20}

	t.Run("center is inside", func(t *testing.T) {
		res, err := CheckFence(-6.2000, 106.8000, fence)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.InsideGeofence {
			t.Error("point at fence center should be inside")
		}
	})

	t.Run("far point is outside", func(t *testing.T) {
		res, err := CheckFence(-6.2100, 106.8100, fence)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.InsideGeofence {
			t.Errorf("point %.0fm away should be outside a %0.fm fence", res.DistanceMeters, fence.RadiusMeters)
		}
		if res.DistanceMeters < 1000 {
			t.Errorf("distance = %f, expected well over 1km", res.DistanceMeters)
		}
	})

	t.Run("variance extends the radius", func(t *testing.T) {
		// ~111m north of center: outside the 100m radius alone, inside with
		// the 20m variance.
		res, err := CheckFence(-6.2000+0.001, 106.8000, fence)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.DistanceMeters <= fence.RadiusMeters {
			t.Fatalf("test point too close: %f", res.DistanceMeters)
		}
		if !res.InsideGeofence {
			t.Errorf("point at %fm should be inside radius+variance (%f)", res.DistanceMeters, fence.RadiusMeters+fence.AllowedVariance)
		}
	})

	t.Run("invalid coordinates rejected", func(t *testing.T) {
		for _, pt := range [][2]float64{{math.NaN(), 0}, {0, math.NaN()}, {91, 0}, {-91, 0}, {0, 181}, {0, -181}, {math.Inf(1), 0}} {
			if _, err := CheckFence(pt[0], pt[1], fence); err != ErrInvalidCoordinate {
				t.Errorf("CheckFence(%v, %v) error = %v, want ErrInvalidCoordinate", pt[0], pt[1], err)
			}
		}
	})
}

func TestValidCoordinate(t *testing.T) {
	valid := [][2]float64{{0, 0}, {-90, -180}, {90, 180}, {-6.2, 106.8}}
	for _, pt := range valid {
		if !ValidCoordinate(pt[0], pt[1]) {
			t.Errorf("ValidCoordinate(%v, %v) = false, want true", pt[0], pt[1])
		}
	}
}
