package geom

import "testing"

func square(offsetX, offsetY float64, start int) Geometry {
	base := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	rotated := make(Ring, 0, 5)
	for i := 0; i < 4; i++ {
		p := base[(start+i)%4]
		rotated = append(rotated, [2]float64{p[0] + offsetX, p[1] + offsetY})
	}
	rotated = append(rotated, rotated[0])
	return NewPolygon(Polygon{Exterior: rotated})
}

func TestContentHashRotationInvariant(t *testing.T) {
	tests := []struct {
		name  string
		start int
	}{
		{"start at (0,0)", 0},
		{"start at (10,0)", 1},
		{"start at (10,10)", 2},
		{"start at (0,10)", 3},
	}

	want := ContentHash(square(0, 0, 0))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentHash(square(0, 0, tt.start))
			if got != want {
				t.Errorf("hash changed for rotation starting at vertex %d", tt.start)
			}
		})
	}
}

func TestContentHashSubQuantumNoiseInvariant(t *testing.T) {
	a := NewPoint(1.2345671, 5.4321)
	b := NewPoint(1.2345674, 5.4321)
	if ContentHash(a) != ContentHash(b) {
		t.Errorf("hash differs for coordinates within sub-quantum noise")
	}
}

func TestContentHashDistinguishesDifferentGeometry(t *testing.T) {
	a := NewPoint(1, 1)
	b := NewPoint(1, 2)
	if ContentHash(a) == ContentHash(b) {
		t.Errorf("distinct points hashed identically")
	}
}

func TestValidForIngest(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want bool
	}{
		{"point always valid", NewPoint(1, 1), true},
		{"linestring needs 2 vertices", NewLineString(Ring{{0, 0}}), false},
		{"linestring with 2 vertices ok", NewLineString(Ring{{0, 0}, {1, 1}}), true},
		{
			"polygon needs closed ring with 4 vertices",
			NewPolygon(Polygon{Exterior: Ring{{0, 0}, {1, 0}, {1, 1}}}),
			false,
		},
		{
			"closed polygon ring ok",
			NewPolygon(Polygon{Exterior: Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidForIngest(tt.g); got != tt.want {
				t.Errorf("ValidForIngest() = %v, want %v", got, tt.want)
			}
		})
	}
}
