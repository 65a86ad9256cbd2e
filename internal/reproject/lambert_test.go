package reproject

import "testing"

func TestLambert93InverseRoundTripsNearParis(t *testing.T) {
	l := NewLambert93()
	// Approximate Lambert-93 coordinates for central Paris.
	lon, lat, err := l.Inverse(652000, 6862000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lonDeg, latDeg := lon*radToDeg, lat*radToDeg
	if lonDeg < 1.5 || lonDeg > 3.5 {
		t.Errorf("longitude %v out of expected range for Paris", lonDeg)
	}
	if latDeg < 47.5 || latDeg > 49.5 {
		t.Errorf("latitude %v out of expected range for Paris", latDeg)
	}
}

func TestNewProjectorIdentityWhenSourceEqualsTarget(t *testing.T) {
	p, err := NewProjector(4326, 4326)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, y, err := p.Project(2.5, 48.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x != 2.5 || y != 48.5 {
		t.Errorf("identity projector changed coordinates: (%v, %v)", x, y)
	}
}

func TestNewProjectorUnknownSourceErrors(t *testing.T) {
	if _, err := NewProjector(99999, 4326); err == nil {
		t.Error("expected error for unrecognized source EPSG")
	}
}
