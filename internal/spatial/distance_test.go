package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of longitude at the equator is ~111.2 km.
	got := HaversineDistance(0, 0, 0, 1)
	if math.Abs(got-111195) > 100 {
		t.Errorf("HaversineDistance = %.0f m, want ~111195 m", got)
	}

	if got := HaversineDistance(30.2672, -97.7431, 30.2672, -97.7431); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due north", 0, 0, 1, 0, 0},
		{"due east", 0, 0, 0, 1, 90},
		{"due south", 1, 0, 0, 0, 180},
		{"due west", 0, 1, 0, 0, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Bearing = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestDestinationPointRoundtrip(t *testing.T) {
	startLat, startLon := 30.2672, -97.7431
	const distance = 500.0

	for bearing := 0.0; bearing < 360; bearing += 45 {
		lat, lon := DestinationPoint(startLat, startLon, bearing, distance)
		got := HaversineDistance(startLat, startLon, lat, lon)
		if math.Abs(got-distance) > 1 {
			t.Errorf("bearing %.0f: travelled %.2f m, want %.0f m", bearing, got, distance)
		}
	}
}
