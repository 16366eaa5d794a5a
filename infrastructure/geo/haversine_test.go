package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := Distance(52.0, 4.3, 52.0, 4.3); d != 0 {
		t.Errorf("expected zero distance for identical points, got %f", d)
	}
}

func TestDistanceKnownPoints(t *testing.T) {
	// Amsterdam to Rotterdam, roughly 57 km.
	d := Distance(52.3676, 4.9041, 51.9244, 4.4777)
	if d < 55 || d > 60 {
		t.Errorf("Amsterdam-Rotterdam distance out of range: %f km", d)
	}
}

func TestDistanceSmallDisplacement(t *testing.T) {
	// One ten-thousandth of a degree of latitude is about 11 meters.
	d := Distance(52.0, 4.3, 52.0001, 4.3)
	if math.Abs(d-0.0111) > 0.001 {
		t.Errorf("expected ~0.0111 km, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(52.0, 4.3, 51.5, 4.1)
	b := Distance(51.5, 4.1, 52.0, 4.3)
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}
