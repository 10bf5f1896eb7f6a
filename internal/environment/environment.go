// Package environment assembles the maritime environment of a simulation:
// chart topography and hydrography for a configured extent, the ownship
// body, and hazard filtering.
package environment

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/chart"
)

// Default hull length in metres of the vessel model, used to derive the
// drawing scale of vessels with a known length.
const DefaultHullLength = 80.0

// Ownship is the user-controlled vessel body.
type Ownship struct {
	X         float64
	Y         float64
	Heading   float64
	HullScale float64
	LonScale  float64
	LatScale  float64
}

// Hull returns the ownship body as a closed polygon ring of projected
// coordinate pairs, pointed along the heading.
func (o *Ownship) Hull() [][2]float64 {
	length := DefaultHullLength * o.HullScale
	width := length * 0.25

	// Local hull outline, bow at +y.
	local := [][2]float64{
		{-width / 2, -length / 2},
		{-width / 2, length / 4},
		{0, length / 2},
		{width / 2, length / 4},
		{width / 2, -length / 2},
		{-width / 2, -length / 2},
	}

	rad := o.Heading * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make([][2]float64, len(local))
	for i, p := range local {
		// Heading is clockwise from north.
		out[i] = [2]float64{
			o.X + p[0]*cos + p[1]*sin,
			o.Y - p[0]*sin + p[1]*cos,
		}
	}
	return out
}

// Environment holds the parsed chart layers for a scope plus the mutable
// simulation state that lives on top of them. The ownship and hazard
// state is written by the simulation facade and read by the render loop,
// so access goes through a lock.
type Environment struct {
	Scope *Scope

	land       *chart.Layer
	shore      *chart.Layer
	bathymetry map[int]*chart.Layer

	mu      sync.RWMutex
	ownship *Ownship
	hazards []chart.Feature

	log *logrus.Entry
}

// New builds the environment for the given settings, loading every
// configured feature layer from the chart data directory.
func New(settings *Settings) (*Environment, error) {
	scope, err := NewScope(settings)
	if err != nil {
		return nil, err
	}

	env := &Environment{
		Scope:      scope,
		bathymetry: make(map[int]*chart.Layer, len(scope.Depths)),
		log:        logrus.WithField("component", "environment"),
	}

	if err := scope.Parser.UpdateChartsData(scope.Layers, scope.NewData); err != nil {
		return nil, err
	}

	for _, name := range scope.Layers {
		layer, err := scope.Parser.Load(name)
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		switch {
		case name == "land":
			env.land = layer
		case name == "shore":
			env.shore = layer
		case strings.HasPrefix(name, seabedLayer):
			var depth int
			if _, err := fmt.Sscanf(name, seabedLayer+"%dm", &depth); err != nil {
				return nil, fmt.Errorf("environment: bad seabed layer name %q", name)
			}
			layer.Depth = float64(depth)
			env.bathymetry[depth] = layer
		default:
			env.log.WithField("layer", name).Warn("unsupported layer ignored")
		}
	}

	return env, nil
}

// Land returns the land topography layer.
func (e *Environment) Land() *chart.Layer { return e.land }

// Shore returns the shore topography layer.
func (e *Environment) Shore() *chart.Layer { return e.shore }

// Bathymetry returns the seabed layers keyed by depth bin.
func (e *Environment) Bathymetry() map[int]*chart.Layer { return e.bathymetry }

// CreateOwnship places the controllable vessel body in the environment.
func (e *Environment) CreateOwnship(easting, northing, heading, hullScale, lonScale, latScale float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ownship = &Ownship{
		X:         easting,
		Y:         northing,
		Heading:   heading,
		HullScale: hullScale,
		LonScale:  lonScale,
		LatScale:  latScale,
	}
}

// RemoveOwnship removes the controllable vessel from the environment.
func (e *Environment) RemoveOwnship() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ownship = nil
}

// Ownship returns the controllable vessel body, or nil when none is
// placed. The returned body is never mutated in place.
func (e *Environment) Ownship() *Ownship {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ownship
}

// FilterHazardousAreas collects every feature at or above the seabed depth
// bound as a hazard. buffer widens the query bounds by the given distance
// in metres.
func (e *Environment) FilterHazardousAreas(depth int, buffer float64) {
	bbox := e.Scope.Extent.BBox
	query := chart.Bounds{
		XMin: bbox[0] - buffer,
		YMin: bbox[1] - buffer,
		XMax: bbox[2] + buffer,
		YMax: bbox[3] + buffer,
	}

	var hazards []chart.Feature
	if e.land != nil {
		hazards = append(hazards, e.land.Within(query)...)
	}
	if e.shore != nil {
		hazards = append(hazards, e.shore.Within(query)...)
	}
	for bin, layer := range e.bathymetry {
		if bin < depth {
			hazards = append(hazards, layer.Within(query)...)
		}
	}
	e.mu.Lock()
	e.hazards = hazards
	e.mu.Unlock()
}

// Hazards returns the features collected by FilterHazardousAreas.
func (e *Environment) Hazards() []chart.Feature {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hazards
}

// SupportedCRS names the coordinate reference system of the chart data.
func (e *Environment) SupportedCRS() string {
	return fmt.Sprintf("EUREF89 UTM sone %d, 2d", e.Scope.UTMZone)
}

// SupportedLayers lists the supported chart categories and features.
func (e *Environment) SupportedLayers() string {
	return chart.SupportedFeatures()
}
