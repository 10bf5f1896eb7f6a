// Package chart parses regional chart datasets into geometric feature
// layers clipped to a bounding box in projected coordinates.
package chart

import (
	"fmt"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Bounds is a rectangular region in projected (easting, northing) metres.
type Bounds struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Intersects reports whether two bounds overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return b.XMin <= o.XMax && o.XMin <= b.XMax &&
		b.YMin <= o.YMax && o.YMin <= b.YMax
}

// Contains reports whether the projected point lies inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Rect converts the bounds to an R-tree rectangle. Point features have
// degenerate bounds, which rtreego rejects, so extents are padded to a
// sub-millimetre minimum.
func (b Bounds) Rect() rtreego.Rect {
	w := b.XMax - b.XMin
	h := b.YMax - b.YMin
	if w <= 0 {
		w = 1e-9
	}
	if h <= 0 {
		h = 1e-9
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.XMin, b.YMin}, []float64{w, h})
	return rect
}

func boundsFromOrb(b orb.Bound) Bounds {
	return Bounds{XMin: b.Min[0], YMin: b.Min[1], XMax: b.Max[0], YMax: b.Max[1]}
}

// Feature is one chart geometry with its attributes.
type Feature struct {
	Geometry orb.Geometry
	Depth    float64
	Name     string
}

// Bounds implements rtreego.Spatial.
func (f Feature) Bounds() rtreego.Rect {
	return boundsFromOrb(f.Geometry.Bound()).Rect()
}

// Area returns the planar area of the feature geometry in square metres.
func (f Feature) Area() float64 {
	return planar.Area(f.Geometry)
}

// Layer is a named set of chart features with a spatial index.
type Layer struct {
	Name     string
	Depth    float64
	Features []Feature

	tree *rtreego.Rtree
}

// NewLayer builds a layer and its R-tree from a feature slice.
func NewLayer(name string, depth float64, features []Feature) *Layer {
	tree := rtreego.NewTree(2, 25, 50)
	for _, f := range features {
		tree.Insert(f)
	}
	return &Layer{Name: name, Depth: depth, Features: features, tree: tree}
}

// Within returns the features whose bounds intersect b.
func (l *Layer) Within(b Bounds) []Feature {
	hits := l.tree.SearchIntersect(b.Rect())
	out := make([]Feature, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(Feature))
	}
	return out
}

// MultiPolygon collects every polygonal feature of the layer into a single
// multi-polygon. Non-areal features are skipped.
func (l *Layer) MultiPolygon() orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, f := range l.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		}
	}
	return mp
}

// Category is a fixed grouping of chart feature layers.
type Category struct {
	Name     string
	Features []string
}

// Categories is the fixed, ordered set of supported chart categories.
var Categories = []Category{
	{Name: "Ocean", Features: []string{"Seabed"}},
	{Name: "Surface", Features: []string{"Land", "Shore"}},
	{Name: "Details", Features: []string{"Rocks", "Shallows"}},
}

// AllFeatures returns every feature layer name across the categories, in
// category order.
func AllFeatures() []string {
	var out []string
	for _, c := range Categories {
		out = append(out, c.Features...)
	}
	return out
}

// SupportedFeatures returns a human-readable listing of categories and
// their feature layers.
func SupportedFeatures() string {
	var sb strings.Builder
	sb.WriteString("Supported categories and features:\n")
	for _, c := range Categories {
		sb.WriteString(strings.ToLower(c.Name))
		sb.WriteString(": ")
		lower := make([]string, len(c.Features))
		for i, f := range c.Features {
			lower[i] = strings.ToLower(f)
		}
		sb.WriteString(strings.Join(lower, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// DepthLayerName returns the per-depth seabed layer name, e.g. seabed10m.
func DepthLayerName(base string, depth int) string {
	return fmt.Sprintf("%s%dm", strings.ToLower(base), depth)
}
