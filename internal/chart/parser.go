package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"github.com/sirupsen/logrus"
)

// Parser loads chart feature layers from a data directory, clipped to a
// bounding box. Layer files are GeoJSON feature collections named after the
// lower-cased layer, e.g. land.geojson. An optional set of external source
// files can be split into per-layer files with UpdateChartsData.
type Parser struct {
	bounds    Bounds
	dataDir   string
	files     []string
	tolerance float64
	verbose   bool
	log       *logrus.Entry
}

// NewParser creates a parser for the given bounding box and data directory.
// files lists external source datasets used when regenerating layer data.
// tolerance > 0 simplifies loaded geometries with that threshold in metres.
func NewParser(bounds Bounds, dataDir string, files []string, tolerance float64, verbose bool) *Parser {
	return &Parser{
		bounds:    bounds,
		dataDir:   dataDir,
		files:     files,
		tolerance: tolerance,
		verbose:   verbose,
		log:       logrus.WithField("component", "chart"),
	}
}

// Bounds returns the parser's clipping bounds.
func (p *Parser) Bounds() Bounds { return p.bounds }

func (p *Parser) layerPath(name string) string {
	return filepath.Join(p.dataDir, strings.ToLower(name)+".geojson")
}

// Load reads a single layer file and returns its features clipped to the
// parser bounds.
func (p *Parser) Load(name string) (*Layer, error) {
	data, err := os.ReadFile(p.layerPath(name))
	if err != nil {
		return nil, fmt.Errorf("reading layer %s: %w", name, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding layer %s: %w", name, err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, gf := range fc.Features {
		if gf.Geometry == nil {
			continue
		}
		if !p.bounds.Intersects(boundsFromOrb(gf.Geometry.Bound())) {
			continue
		}
		geom := gf.Geometry
		if p.tolerance > 0 {
			geom = simplify.DouglasPeucker(p.tolerance).Simplify(geom)
		}
		features = append(features, Feature{
			Geometry: geom,
			Depth:    gf.Properties.MustFloat64("depth", 0),
			Name:     gf.Properties.MustString("name", ""),
		})
	}

	if p.verbose {
		p.log.WithFields(logrus.Fields{
			"layer":    name,
			"features": len(features),
		}).Info("layer loaded")
	}

	return NewLayer(strings.ToLower(name), 0, features), nil
}

// UpdateChartsData regenerates the per-layer files for the named feature
// layers from the external source datasets. Each source feature is routed
// by its "layer" property. When force is false and every layer file already
// exists, nothing is done.
func (p *Parser) UpdateChartsData(layers []string, force bool) error {
	if !force && p.layerFilesExist(layers) {
		return nil
	}
	if len(p.files) == 0 {
		return fmt.Errorf("no external chart datasets configured")
	}

	grouped := make(map[string]*geojson.FeatureCollection, len(layers))
	for _, name := range layers {
		grouped[strings.ToLower(name)] = geojson.NewFeatureCollection()
	}

	for _, file := range p.files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading chart dataset %s: %w", file, err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return fmt.Errorf("decoding chart dataset %s: %w", file, err)
		}
		for _, gf := range fc.Features {
			if gf.Geometry == nil {
				continue
			}
			layer := strings.ToLower(gf.Properties.MustString("layer", ""))
			dst, ok := grouped[layer]
			if !ok {
				continue
			}
			if !p.bounds.Intersects(boundsFromOrb(gf.Geometry.Bound())) {
				continue
			}
			dst.Append(gf)
		}
	}

	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	for name, fc := range grouped {
		out, err := fc.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding layer %s: %w", name, err)
		}
		if err := os.WriteFile(p.layerPath(name), out, 0o644); err != nil {
			return fmt.Errorf("writing layer %s: %w", name, err)
		}
		if p.verbose {
			p.log.WithFields(logrus.Fields{
				"layer":    name,
				"features": len(fc.Features),
			}).Info("layer file regenerated")
		}
	}
	return nil
}

func (p *Parser) layerFilesExist(layers []string) bool {
	for _, name := range layers {
		if _, err := os.Stat(p.layerPath(name)); err != nil {
			return false
		}
	}
	return true
}
