package chart

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func square(x, y, side float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x, y},
		{x + side, y},
		{x + side, y + side},
		{x, y + side},
		{x, y},
	}}
}

func TestBoundsIntersects(t *testing.T) {
	b := Bounds{XMin: 0, YMin: 0, XMax: 10, YMax: 10}

	tests := []struct {
		name string
		o    Bounds
		want bool
	}{
		{"overlapping", Bounds{5, 5, 15, 15}, true},
		{"contained", Bounds{2, 2, 4, 4}, true},
		{"touching edge", Bounds{10, 0, 20, 10}, true},
		{"disjoint", Bounds{20, 20, 30, 30}, false},
		{"disjoint on one axis", Bounds{2, 20, 4, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Intersects(tt.o); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.o, got, tt.want)
			}
		})
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	if !b.Contains(5, 5) {
		t.Error("center point should be contained")
	}
	if b.Contains(15, 5) {
		t.Error("point east of the box should not be contained")
	}
}

func TestLayerWithin(t *testing.T) {
	features := []Feature{
		{Geometry: square(0, 0, 10), Name: "inside"},
		{Geometry: square(100, 100, 10), Name: "far away"},
		{Geometry: square(15, 0, 10), Name: "overlapping"},
	}
	layer := NewLayer("land", 0, features)

	got := layer.Within(Bounds{XMin: -5, YMin: -5, XMax: 20, YMax: 20})
	names := make(map[string]bool, len(got))
	for _, f := range got {
		names[f.Name] = true
	}
	if !names["inside"] || !names["overlapping"] {
		t.Errorf("expected inside and overlapping features, got %v", names)
	}
	if names["far away"] {
		t.Error("feature outside the query bounds was returned")
	}
}

func TestLayerMultiPolygon(t *testing.T) {
	single := square(0, 0, 1)
	double := orb.MultiPolygon{square(10, 10, 1), square(20, 20, 1)}
	layer := NewLayer("land", 0, []Feature{
		{Geometry: single},
		{Geometry: double},
		{Geometry: orb.Point{5, 5}}, // not a polygon, skipped
	})

	mp := layer.MultiPolygon()
	if len(mp) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(mp))
	}
	if !reflect.DeepEqual(mp[0], single) {
		t.Errorf("first polygon mismatch: %v", mp[0])
	}
}

func TestAllFeaturesOrder(t *testing.T) {
	want := []string{"Seabed", "Land", "Shore", "Rocks", "Shallows"}
	if got := AllFeatures(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllFeatures() = %v, want %v", got, want)
	}
}

func TestDepthLayerName(t *testing.T) {
	tests := []struct {
		base  string
		depth int
		want  string
	}{
		{"seabed", 10, "seabed10m"},
		{"Seabed", 0, "seabed0m"},
		{"seabed", 350, "seabed350m"},
	}
	for _, tt := range tests {
		if got := DepthLayerName(tt.base, tt.depth); got != tt.want {
			t.Errorf("DepthLayerName(%q, %d) = %q, want %q", tt.base, tt.depth, got, tt.want)
		}
	}
}
