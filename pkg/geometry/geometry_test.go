package geometry

import (
	"math"
	"testing"
)

func TestUTMZone(t *testing.T) {
	tests := []struct {
		lon  float64
		want int
	}{
		{10.39, 32}, // Trondheim
		{5.3, 31},   // Bergen
		{18.95, 33}, // Tromsø
		{-0.1, 30},  // London
	}
	for _, tt := range tests {
		if got := UTMZone(tt.lon); got != tt.want {
			t.Errorf("UTMZone(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestReferenceMeridian(t *testing.T) {
	if got := ReferenceMeridian(10.39); got != 9 {
		t.Errorf("ReferenceMeridian(10.39) = %v, want 9", got)
	}
	if got := ReferenceMeridian(5.3); got != 3 {
		t.Errorf("ReferenceMeridian(5.3) = %v, want 3", got)
	}
}

func TestLatLonToUTMCentralMeridian(t *testing.T) {
	// On the central meridian the easting is exactly the false easting.
	easting, _, zone := LatLonToUTM(60, 9, 32)
	if zone != 32 {
		t.Fatalf("zone = %d, want 32", zone)
	}
	if math.Abs(easting-500000) > 1e-6 {
		t.Errorf("easting on central meridian = %v, want 500000", easting)
	}
}

func TestLatLonToUTMEquator(t *testing.T) {
	_, northing, _ := LatLonToUTM(0, 9, 32)
	if math.Abs(northing) > 1e-6 {
		t.Errorf("northing at the equator = %v, want 0", northing)
	}
}

func TestLatLonToUTMProperties(t *testing.T) {
	t.Run("east of meridian increases easting", func(t *testing.T) {
		east, _, _ := LatLonToUTM(63, 10, 32)
		west, _, _ := LatLonToUTM(63, 8, 32)
		if east <= 500000 || west >= 500000 {
			t.Errorf("easting east/west of meridian = %v / %v", east, west)
		}
	})
	t.Run("northing grows with latitude", func(t *testing.T) {
		_, low, _ := LatLonToUTM(62, 9, 32)
		_, high, _ := LatLonToUTM(64, 9, 32)
		if high <= low {
			t.Errorf("northing at 64N (%v) should exceed 62N (%v)", high, low)
		}
	})
	t.Run("southern hemisphere uses false northing", func(t *testing.T) {
		_, northing, _ := LatLonToUTM(-30, 9, 32)
		if northing <= 0 || northing >= 10000000 {
			t.Errorf("southern northing = %v, want within (0, 1e7)", northing)
		}
	})
	t.Run("zero zone selects the natural zone", func(t *testing.T) {
		_, _, zone := LatLonToUTM(63, 10.39, 0)
		if zone != 32 {
			t.Errorf("natural zone = %d, want 32", zone)
		}
	})
}

func TestDist(t *testing.T) {
	if got := Dist(0, 0, 3, 4); got != 5 {
		t.Errorf("Dist(0,0,3,4) = %v, want 5", got)
	}
}

func TestIsPointInPolygon(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 5, 5, true},
		{"outside east", 15, 5, false},
		{"outside north", 5, 15, false},
		{"near corner inside", 0.5, 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPointInPolygon(tt.x, tt.y, square); got != tt.want {
				t.Errorf("IsPointInPolygon(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if IsPointInPolygon(1, 1, [][2]float64{{0, 0}, {1, 1}}) {
		t.Error("degenerate polygon should contain nothing")
	}
}

func TestPolygonArea(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := PolygonArea(square); got != 100 {
		t.Errorf("square area = %v, want 100", got)
	}
	triangle := [][2]float64{{0, 0}, {4, 0}, {0, 3}}
	if got := PolygonArea(triangle); got != 6 {
		t.Errorf("triangle area = %v, want 6", got)
	}
	if got := PolygonArea([][2]float64{{0, 0}, {1, 1}}); got != 0 {
		t.Errorf("degenerate area = %v, want 0", got)
	}
}
