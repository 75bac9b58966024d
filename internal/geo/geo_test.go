package geo

import (
	"math"
	"testing"
)

func TestMilesZeroForSamePoint(t *testing.T) {
	p := Point{Latitude: 33.7490, Longitude: -84.3880}
	if d := Miles(p, p); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestMilesAtlantaToRoswell(t *testing.T) {
	atlanta := Point{Latitude: 33.7490, Longitude: -84.3880}
	roswell := Point{Latitude: 34.0232, Longitude: -84.3616}

	d := Miles(atlanta, roswell)
	// Roughly 19 miles; allow a loose band for the spherical model.
	if d < 18 || d > 20 {
		t.Fatalf("distance = %f, want ~19 miles", d)
	}
}

func TestMilesIsSymmetric(t *testing.T) {
	a := Point{Latitude: 33.7701, Longitude: -84.4092}
	b := Point{Latitude: 33.6746, Longitude: -84.4392}

	if diff := math.Abs(Miles(a, b) - Miles(b, a)); diff > 1e-9 {
		t.Fatalf("distance not symmetric, diff = %g", diff)
	}
}
