// Package enc provides a facade for parsing Norwegian Electronic
// Navigational Chart data sets into geometric feature layers.
//
// It reads chart data derived from sets issued by the Norwegian Mapping
// Authority (Kartverket) and extracts features from a user-specified region
// in Cartesian coordinates (easting/northing).
package enc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/morild/simcharts/internal/chart"
)

// Defaults used when options are left zero-valued.
var (
	DefaultOrigin     = []float64{38100, 6948700}
	DefaultWindowSize = []float64{20000, 16000}
	DefaultRegion     = "Møre og Romsdal"
	DefaultDataDir    = filepath.Join("data", "shapefiles")
)

// Validation and lookup errors.
var (
	ErrOrigin       = errors.New("enc: origin should be a pair of size two")
	ErrWindowSize   = errors.New("enc: window size should be a pair of size two")
	ErrUnknownLayer = errors.New("enc: unknown layer")
)

// Options tune chart loading. The zero value selects the package defaults.
type Options struct {
	Region  []string // Norwegian region names to source chart data from
	DataDir string   // directory holding per-layer GeoJSON files
	NewData bool     // force re-parsing of the external datasets
	Verbose bool     // status logging during geometry processing
}

// CategoryView groups the loaded feature layers of one chart category.
type CategoryView struct {
	Name   string
	Layers map[string]*chart.Layer // keyed by lower-cased feature name
}

// ENC is a parsed chart region: a bounding box derived from an origin and a
// window size, and the feature layers extracted inside it.
type ENC struct {
	Origin      [2]float64
	WindowSize  [2]float64
	BoundingBox [4]float64

	parser *chart.Parser
	layers map[string]*CategoryView
}

var titleCaser = cases.Title(language.Und)

// New validates the origin and window-size pairs, derives the bounding box,
// and parses the chart data inside it. Both pairs must have exactly two
// elements; violations fail before any parsing is attempted.
func New(origin, windowSize []float64, opts Options) (*ENC, error) {
	if len(origin) != 2 {
		return nil, ErrOrigin
	}
	if len(windowSize) != 2 {
		return nil, ErrWindowSize
	}

	e := &ENC{
		Origin:     [2]float64{origin[0], origin[1]},
		WindowSize: [2]float64{windowSize[0], windowSize[1]},
	}
	e.BoundingBox = [4]float64{
		e.Origin[0],
		e.Origin[1],
		e.Origin[0] + e.WindowSize[0],
		e.Origin[1] + e.WindowSize[1],
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	regions := opts.Region
	if len(regions) == 0 {
		regions = []string{DefaultRegion}
	}

	bounds := chart.Bounds{
		XMin: e.BoundingBox[0],
		YMin: e.BoundingBox[1],
		XMax: e.BoundingBox[2],
		YMax: e.BoundingBox[3],
	}
	e.parser = chart.NewParser(bounds, dataDir, regionFiles(dataDir, regions), 0, opts.Verbose)

	if err := e.parser.UpdateChartsData(chart.AllFeatures(), opts.NewData); err != nil {
		return nil, fmt.Errorf("enc: updating chart data: %w", err)
	}

	e.layers = make(map[string]*CategoryView, len(chart.Categories))
	for _, cat := range chart.Categories {
		view := &CategoryView{
			Name:   cat.Name,
			Layers: make(map[string]*chart.Layer, len(cat.Features)),
		}
		for _, feature := range cat.Features {
			layer, err := e.parser.Load(feature)
			if err != nil {
				return nil, fmt.Errorf("enc: loading %s: %w", feature, err)
			}
			view.Layers[strings.ToLower(feature)] = layer
		}
		e.layers[cat.Name] = view
	}

	return e, nil
}

// Layer returns the category view for the given name. Lookup is
// case-insensitive; names outside the fixed category set fail.
func (e *ENC) Layer(name string) (*CategoryView, error) {
	view, ok := e.layers[titleCaser.String(strings.ToLower(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, name)
	}
	return view, nil
}

// Ocean, Surface and Details are shorthands for the fixed categories.
func (e *ENC) Ocean() *CategoryView   { v, _ := e.Layer("ocean"); return v }
func (e *ENC) Surface() *CategoryView { v, _ := e.Layer("surface"); return v }
func (e *ENC) Details() *CategoryView { v, _ := e.Layer("details"); return v }

// SupportedFeatures lists the supported categories and their features.
func (e *ENC) SupportedFeatures() string {
	return chart.SupportedFeatures()
}

// SupportedProjection names the coordinate reference system of the data.
func (e *ENC) SupportedProjection() string {
	return "EUREF89 UTM sone 33, 2d"
}

func regionFiles(dataDir string, regions []string) []string {
	files := make([]string, 0, len(regions))
	for _, r := range regions {
		slug := strings.ToLower(strings.ReplaceAll(r, " ", "_"))
		slug = strings.ReplaceAll(slug, "ø", "o")
		slug = strings.ReplaceAll(slug, "å", "a")
		slug = strings.ReplaceAll(slug, "æ", "ae")
		files = append(files, filepath.Join(dataDir, "..", "external", slug+".geojson"))
	}
	return files
}
