package display

import (
	"image/color"
	"sync"
)

// Style is the shared appearance of an overlay shape.
type Style struct {
	Color     color.RGBA
	Fill      bool
	Thickness float64
	Dashed    bool
}

// Shape is one user-drawn overlay primitive kept until the plot is
// cleaned.
type Shape interface {
	draw(d *Display, target renderTarget)
}

// Arrow is a straight line with a triangular head at the end point.
type Arrow struct {
	Start    [2]float64
	End      [2]float64
	HeadSize float64
	Style    Style
}

// Circle is a circle in projected coordinates.
type Circle struct {
	Center [2]float64
	Radius float64
	Style  Style
}

// Line is an open polyline through the given points.
type Line struct {
	Points [][2]float64
	Style  Style
}

// PolygonShape is a closed ring, optionally with interior hole rings.
type PolygonShape struct {
	Exterior  [][2]float64
	Interiors [][][2]float64
	Style     Style
}

// Rectangle is an axis-sized box rotated about its center. Rotation is
// in degrees, counterclockwise.
type Rectangle struct {
	Center   [2]float64
	Width    float64
	Height   float64
	Rotation float64
	Style    Style
}

// Overlay holds the drawn shapes in insertion order.
type Overlay struct {
	mu     sync.Mutex
	shapes []Shape
}

func (o *Overlay) Add(s Shape) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shapes = append(o.shapes, s)
}

// Clear removes every drawn shape.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shapes = nil
}

func (o *Overlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.shapes)
}

func (o *Overlay) snapshot() []Shape {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Shape, len(o.shapes))
	copy(out, o.shapes)
	return out
}
