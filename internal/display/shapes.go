package display

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/morild/simcharts/pkg/geometry"
)

const dashLength = 8.0

func (a Arrow) draw(d *Display, target renderTarget) {
	d.strokeSegment(target, a.Start, a.End, a.Style)

	dx, dy := a.End[0]-a.Start[0], a.End[1]-a.Start[1]
	norm := geometry.Dist(a.Start[0], a.Start[1], a.End[0], a.End[1])
	if norm == 0 {
		return
	}
	head := a.HeadSize
	if head <= 0 {
		head = norm / 8
	}
	ux, uy := dx/norm, dy/norm
	baseX, baseY := a.End[0]-ux*head, a.End[1]-uy*head
	tip := [][2]float64{
		a.End,
		{baseX - uy*head/2, baseY + ux*head/2},
		{baseX + uy*head/2, baseY - ux*head/2},
	}
	d.fillRing(target, tip, a.Style.Color)
}

func (c Circle) draw(d *Display, target renderTarget) {
	cx, cy := d.toScreen(c.Center[0], c.Center[1])
	radius := d.metersToPixels(c.Radius)
	if c.Style.Fill {
		vector.DrawFilledCircle(target, cx, cy, radius, c.Style.Color, true)
		return
	}
	vector.StrokeCircle(target, cx, cy, radius, strokeWidth(c.Style), c.Style.Color, true)
}

func (l Line) draw(d *Display, target renderTarget) {
	for i := 0; i+1 < len(l.Points); i++ {
		d.strokeSegment(target, l.Points[i], l.Points[i+1], l.Style)
	}
}

func (p PolygonShape) draw(d *Display, target renderTarget) {
	if p.Style.Fill {
		var path vector.Path
		d.appendRawRing(&path, p.Exterior)
		for _, hole := range p.Interiors {
			d.appendRawRing(&path, hole)
		}
		fillPath(target, &path, p.Style.Color)
		return
	}
	d.strokeRingStyled(target, p.Exterior, p.Style)
	for _, hole := range p.Interiors {
		d.strokeRingStyled(target, hole, p.Style)
	}
}

func (r Rectangle) draw(d *Display, target renderTarget) {
	halfW, halfH := r.Width/2, r.Height/2
	local := [][2]float64{
		{-halfW, -halfH},
		{halfW, -halfH},
		{halfW, halfH},
		{-halfW, halfH},
	}
	rad := r.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	ring := make([][2]float64, len(local))
	for i, p := range local {
		ring[i] = [2]float64{
			r.Center[0] + p[0]*cos - p[1]*sin,
			r.Center[1] + p[0]*sin + p[1]*cos,
		}
	}
	if r.Style.Fill {
		d.fillRing(target, ring, r.Style.Color)
		return
	}
	d.strokeRingStyled(target, ring, r.Style)
}

func strokeWidth(s Style) float32 {
	if s.Thickness > 0 {
		return float32(s.Thickness)
	}
	return 2
}

func (d *Display) appendRawRing(path *vector.Path, ring [][2]float64) {
	if len(ring) == 0 {
		return
	}
	sx, sy := d.toScreen(ring[0][0], ring[0][1])
	path.MoveTo(sx, sy)
	for _, p := range ring[1:] {
		sx, sy = d.toScreen(p[0], p[1])
		path.LineTo(sx, sy)
	}
	path.Close()
}

func (d *Display) strokeRingStyled(target renderTarget, ring [][2]float64, style Style) {
	for i := 0; i < len(ring); i++ {
		d.strokeSegment(target, ring[i], ring[(i+1)%len(ring)], style)
	}
}

// strokeSegment draws one world-space segment, dashed when the style
// asks for it.
func (d *Display) strokeSegment(target renderTarget, a, b [2]float64, style Style) {
	ax, ay := d.toScreen(a[0], a[1])
	bx, by := d.toScreen(b[0], b[1])
	width := strokeWidth(style)
	if !style.Dashed {
		vector.StrokeLine(target, ax, ay, bx, by, width, style.Color, true)
		return
	}
	strokeDashed(target, ax, ay, bx, by, width, style.Color)
}

func strokeDashed(target renderTarget, ax, ay, bx, by, width float32, col color.RGBA) {
	dx, dy := float64(bx-ax), float64(by-ay)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	steps := int(length / dashLength)
	if steps == 0 {
		steps = 1
	}
	ux, uy := dx/length, dy/length
	for i := 0; i < steps; i += 2 {
		x0 := float64(ax) + ux*dashLength*float64(i)
		y0 := float64(ay) + uy*dashLength*float64(i)
		end := math.Min(dashLength*float64(i+1), length)
		x1 := float64(ax) + ux*end
		y1 := float64(ay) + uy*end
		vector.StrokeLine(target, float32(x0), float32(y0), float32(x1), float32(y1), width, col, true)
	}
}
