// Package display renders the chart environment, vessels and user drawn
// overlays in an ebiten window.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"github.com/morild/simcharts/internal/environment"
	"github.com/morild/simcharts/internal/msgs"
)

type renderTarget = *ebiten.Image

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Options selects the initial window appearance.
type Options struct {
	Width      int
	DarkMode   bool
	Colorbar   bool
	Fullscreen bool
	Border     bool
	Anchor     string
}

// Display is the ebiten game rendering one environment. All exported
// mutating methods are safe to call from other goroutines.
type Display struct {
	env  *environment.Environment
	opts Options

	width, height int

	mu       sync.Mutex
	vessels  []msgs.Vessel
	dark     bool
	colorbar bool
	save     *saveRequest

	overlay Overlay
	log     *logrus.Entry
}

func New(env *environment.Environment, opts Options) *Display {
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	size := env.Scope.Extent.Size
	d := &Display{
		env:      env,
		opts:     opts,
		width:    opts.Width,
		height:   int(float64(opts.Width) * size[1] / size[0]),
		dark:     opts.DarkMode,
		colorbar: opts.Colorbar,
		log:      logrus.WithField("component", "display"),
	}
	return d
}

// Run opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func (d *Display) Run() error {
	ebiten.SetWindowSize(d.width, d.height)
	ebiten.SetWindowTitle("simcharts")
	ebiten.SetFullscreen(d.opts.Fullscreen)
	if x, y, ok := anchorPosition(d.opts.Anchor, d.width, d.height); ok {
		ebiten.SetWindowPosition(x, y)
	}
	if err := ebiten.RunGame(d); err != nil && err != ebiten.Termination {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// anchorPosition maps a named screen corner to window coordinates. An
// empty or unknown anchor leaves placement to the window manager.
func anchorPosition(anchor string, w, h int) (int, int, bool) {
	mw, mh := ebiten.Monitor().Size()
	if mw == 0 || mh == 0 {
		return 0, 0, false
	}
	switch anchor {
	case "top_left":
		return 0, 0, true
	case "top_right":
		return mw - w, 0, true
	case "bottom_left":
		return 0, mh - h, true
	case "bottom_right":
		return mw - w, mh - h, true
	case "center":
		return (mw - w) / 2, (mh - h) / 2, true
	}
	return 0, 0, false
}

// RefreshVessels replaces the displayed vessels wholesale.
func (d *Display) RefreshVessels(vessels map[string]msgs.Vessel) {
	list := make([]msgs.Vessel, 0, len(vessels))
	for _, v := range vessels {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	d.mu.Lock()
	d.vessels = list
	d.mu.Unlock()
}

// Clear removes all vessels and drawn shapes from the plot.
func (d *Display) Clear() {
	d.mu.Lock()
	d.vessels = nil
	d.mu.Unlock()
	d.overlay.Clear()
}

func (d *Display) Overlay() *Overlay { return &d.overlay }

func (d *Display) ToggleDarkMode() {
	d.mu.Lock()
	d.dark = !d.dark
	d.mu.Unlock()
}

func (d *Display) ToggleColorbar() {
	d.mu.Lock()
	d.colorbar = !d.colorbar
	d.mu.Unlock()
}

func (d *Display) ToggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

type saveRequest struct {
	name  string
	scale float64
	ext   string
}

// SaveImage schedules a capture of the next rendered frame. scale
// multiplies the window resolution; ext selects the encoding, png or
// jpg.
func (d *Display) SaveImage(name string, scale float64, ext string) error {
	if name == "" {
		name = "display"
	}
	if scale <= 0 {
		scale = 1
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	switch ext {
	case "":
		ext = "png"
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported image extension %q", ext)
	}
	d.mu.Lock()
	d.save = &saveRequest{name: name, scale: scale, ext: ext}
	d.mu.Unlock()
	return nil
}

func (d *Display) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		d.ToggleDarkMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		d.ToggleColorbar()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		d.ToggleFullscreen()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (d *Display) Layout(int, int) (int, int) {
	return d.width, d.height
}

func (d *Display) palette() Palette {
	if d.dark {
		return darkPalette
	}
	return lightPalette
}

func (d *Display) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	vessels := d.vessels
	pal := d.palette()
	colorbar := d.colorbar
	save := d.save
	d.save = nil
	d.mu.Unlock()

	screen.Fill(pal.Ocean[0])

	d.drawBathymetry(screen, pal)
	if shore := d.env.Shore(); shore != nil {
		d.drawMultiPolygon(screen, shore.MultiPolygon(), pal.Shore)
	}
	if land := d.env.Land(); land != nil {
		d.drawMultiPolygon(screen, land.MultiPolygon(), pal.Land)
	}
	d.drawHazards(screen, pal)

	for _, shape := range d.overlay.snapshot() {
		shape.draw(d, screen)
	}
	d.drawVessels(screen, vessels, pal)
	d.drawOwnship(screen, pal)

	if d.opts.Border {
		vector.StrokeRect(screen, 1, 1, float32(d.width-2), float32(d.height-2), 2, pal.Text, false)
	}
	if colorbar {
		d.drawColorbar(screen, pal)
	}
	if save != nil {
		d.capture(screen, save)
	}
}

func (d *Display) drawBathymetry(screen renderTarget, pal Palette) {
	depths := d.env.Scope.Depths
	keys := make([]int, 0, len(d.env.Bathymetry()))
	for depth := range d.env.Bathymetry() {
		keys = append(keys, depth)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	for _, depth := range keys {
		layer := d.env.Bathymetry()[depth]
		d.drawMultiPolygon(screen, layer.MultiPolygon(), pal.OceanColor(depth, depths))
	}
}

func (d *Display) drawHazards(screen renderTarget, pal Palette) {
	for _, f := range d.env.Hazards() {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			d.drawMultiPolygon(screen, orb.MultiPolygon{g}, pal.Hazard)
		case orb.MultiPolygon:
			d.drawMultiPolygon(screen, g, pal.Hazard)
		}
	}
}

func (d *Display) drawVessels(screen renderTarget, vessels []msgs.Vessel, pal Palette) {
	for _, v := range vessels {
		hull := vesselHull(v)
		d.fillRing(screen, hull, pal.Vessel)
		d.strokeRing(screen, hull, pal.Text, 1)
	}
}

func (d *Display) drawOwnship(screen renderTarget, pal Palette) {
	ownship := d.env.Ownship()
	if ownship == nil {
		return
	}
	hull := ownship.Hull()
	d.fillRing(screen, hull, pal.Ownship)
	d.strokeRing(screen, hull, pal.Text, 1)
}

func (d *Display) drawColorbar(screen renderTarget, pal Palette) {
	depths := d.env.Scope.Depths
	const barWidth, cell = 26, 24
	x := d.width - barWidth - 60
	for i, depth := range depths {
		y := 20 + i*cell
		vector.DrawFilledRect(screen, float32(x), float32(y), barWidth, cell, pal.OceanColor(depth, depths), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%dm", depth), x+barWidth+4, y+4)
	}
	vector.StrokeRect(screen, float32(x), 20, barWidth, float32(len(depths)*cell), 1, pal.Text, false)
}

func (d *Display) capture(screen renderTarget, req *saveRequest) {
	bounds := screen.Bounds()
	rgba := image.NewRGBA(bounds)
	screen.ReadPixels(rgba.Pix)

	var out image.Image = rgba
	if req.scale != 1 {
		scaled := image.NewRGBA(image.Rect(0, 0,
			int(float64(bounds.Dx())*req.scale),
			int(float64(bounds.Dy())*req.scale)))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), rgba, bounds, xdraw.Over, nil)
		out = scaled
	}

	file := req.name + "." + req.ext
	f, err := os.Create(file)
	if err != nil {
		d.log.WithError(err).Error("saving image")
		return
	}
	defer f.Close()
	switch req.ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(f, out, nil)
	default:
		err = png.Encode(f, out)
	}
	if err != nil {
		d.log.WithError(err).Error("encoding image")
		return
	}
	d.log.WithField("file", file).Info("saved display image")
}

// toScreen maps projected coordinates into the window, north up.
func (d *Display) toScreen(x, y float64) (float32, float32) {
	bbox := d.env.Scope.Extent.BBox
	sx := (x - bbox[0]) / (bbox[2] - bbox[0]) * float64(d.width)
	sy := float64(d.height) - (y-bbox[1])/(bbox[3]-bbox[1])*float64(d.height)
	return float32(sx), float32(sy)
}

// metersToPixels converts a world distance to screen pixels along x.
func (d *Display) metersToPixels(m float64) float32 {
	bbox := d.env.Scope.Extent.BBox
	return float32(m / (bbox[2] - bbox[0]) * float64(d.width))
}

func (d *Display) drawMultiPolygon(screen renderTarget, mp orb.MultiPolygon, col color.RGBA) {
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		var path vector.Path
		for _, ring := range poly {
			d.appendRing(&path, ring)
		}
		fillPath(screen, &path, col)
	}
}

func (d *Display) appendRing(path *vector.Path, ring orb.Ring) {
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

func (d *Display) fillRing(screen renderTarget, ring [][2]float64, col color.RGBA) {
	if len(ring) == 0 {
		return
	}
	var path vector.Path
	sx, sy := d.toScreen(ring[0][0], ring[0][1])
	path.MoveTo(sx, sy)
	for _, p := range ring[1:] {
		sx, sy = d.toScreen(p[0], p[1])
		path.LineTo(sx, sy)
	}
	path.Close()
	fillPath(screen, &path, col)
}

func (d *Display) strokeRing(screen renderTarget, ring [][2]float64, col color.RGBA, width float32) {
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[(i+1)%len(ring)]
		ax, ay := d.toScreen(a[0], a[1])
		bx, by := d.toScreen(b[0], b[1])
		vector.StrokeLine(screen, ax, ay, bx, by, width, col, false)
	}
}

func fillPath(screen renderTarget, path *vector.Path, col color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r := float32(col.R) / 0xff
	g := float32(col.G) / 0xff
	b := float32(col.B) / 0xff
	a := float32(col.A) / 0xff
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.FillRuleEvenOdd,
		AntiAlias: true,
	}
	screen.DrawTriangles(vs, is, whiteSubImage, op)
}

// vesselHull builds a pentagon outline from a vessel's pose and hull
// dimensions, in projected coordinates. The drawing scale, when set,
// sizes the default hull model; explicit dimensions are the fallback.
func vesselHull(v msgs.Vessel) [][2]float64 {
	length, width := v.Length, v.Width
	if v.Scale > 0 {
		length = environment.DefaultHullLength * v.Scale
	}
	if length <= 0 {
		length = environment.DefaultHullLength
	}
	if width <= 0 {
		width = length / 4
	}
	halfW, halfL := width/2, length/2
	bowStart := halfL - width
	local := [][2]float64{
		{0, halfL},
		{halfW, bowStart},
		{halfW, -halfL},
		{-halfW, -halfL},
		{-halfW, bowStart},
	}
	rad := v.Heading * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	hull := make([][2]float64, len(local))
	for i, p := range local {
		hull[i] = [2]float64{
			v.X + p[0]*cos + p[1]*sin,
			v.Y - p[0]*sin + p[1]*cos,
		}
	}
	return hull
}
